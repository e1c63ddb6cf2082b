// Command play is a terminal game against the engine.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbeisheim/plychess/internal/config"
	"github.com/benbeisheim/plychess/internal/model"
	"github.com/benbeisheim/plychess/internal/notation"
	"github.com/benbeisheim/plychess/internal/service"
	"github.com/gofiber/fiber/v2/log"
)

const localPlayer = "local"

func main() {
	log.SetLevel(log.LevelWarn)
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	var cfg config.Config
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(out)
	color := fs.String("color", "white", "side you play: white, black or random")
	fen := fs.String("fen", "", "start from this FEN instead of the initial position")
	config.RegisterEngineFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	gs := service.NewGameService(service.NewGameManager(cfg.Rules(), cfg.ResolvedSeed()))
	gameID, human, err := gs.CreateGame(localPlayer, *color, *fen)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "You play %s. Enter moves like e2e4 (e7e8n to under-promote), undo or quit.\n", human)

	scanner := bufio.NewScanner(in)
	for {
		state, err := gs.GetGameState(gameID)
		if err != nil {
			return err
		}
		board, err := gs.GetBoard(gameID)
		if err != nil {
			return err
		}
		fmt.Fprint(out, notation.Render(board))
		if state.LastMove != nil {
			fmt.Fprintf(out, "last move: %s\n", *state.LastMove)
		}

		switch state.Status {
		case model.Checkmate:
			fmt.Fprintf(out, "checkmate, %s wins\n", *state.Winner)
			return nil
		case model.Stalemate:
			fmt.Fprintln(out, "stalemate, the game is drawn")
			return nil
		}
		if state.IsCheck {
			fmt.Fprintln(out, "check")
		}

		for {
			fmt.Fprintf(out, "%s> ", state.ToMove)
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" {
				return nil
			}
			if err := play(gs, gameID, line); err != nil {
				fmt.Fprintln(out, describe(err))
				continue
			}
			break
		}
	}
}

func play(gs *service.GameService, gameID, line string) error {
	if line == "undo" {
		return gs.HandleUndo(gameID, localPlayer)
	}
	return gs.HandleMove(gameID, localPlayer, line)
}

func describe(err error) string {
	switch {
	case errors.Is(err, notation.ErrMalformedMove):
		return "could not read that move, use coordinates like e2e4"
	case errors.Is(err, service.ErrIllegalMove):
		return "illegal move"
	case errors.Is(err, model.ErrEmptyHistory):
		return "nothing to undo"
	}
	return err.Error()
}

package controller

import (
	"errors"

	"github.com/benbeisheim/plychess/internal/model"
	"github.com/benbeisheim/plychess/internal/notation"
	"github.com/benbeisheim/plychess/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Color string `json:"color"`
	FEN   string `json:"fen"`
}

type moveRequest struct {
	Move string `json:"move"`
}

// statusFor maps service and core errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotParticipant):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameOver), errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, model.ErrEmptyHistory):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, notation.ErrMalformedMove), errors.Is(err, notation.ErrInvalidFEN),
		errors.Is(err, service.ErrInvalidColor):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, color, err := gc.gameService.CreateGame(playerID, req.Color, req.FEN)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.GetLegalMoves(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) GetFEN(c *fiber.Ctx) error {
	fen, err := gc.gameService.GetFEN(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"fen": fen,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := gc.gameService.HandleMove(gameID, playerID, req.Move); err != nil {
		return respondError(c, err)
	}

	return gc.GetGameState(c)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.HandleUndo(gameID, playerID); err != nil {
		return respondError(c, err)
	}

	return gc.GetGameState(c)
}

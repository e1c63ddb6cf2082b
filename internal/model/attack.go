package model

import "fmt"

var (
	rookDirs   = []Direction{{DRow: -1, DCol: 0}, {DRow: 0, DCol: -1}, {DRow: 1, DCol: 0}, {DRow: 0, DCol: 1}}
	bishopDirs = []Direction{{DRow: -1, DCol: -1}, {DRow: -1, DCol: 1}, {DRow: 1, DCol: -1}, {DRow: 1, DCol: 1}}
	kingDirs   = append(append([]Direction{}, rookDirs...), bishopDirs...)
	knightDirs = []Direction{
		{DRow: -2, DCol: -1}, {DRow: -2, DCol: 1}, {DRow: -1, DCol: -2}, {DRow: -1, DCol: 2},
		{DRow: 1, DCol: -2}, {DRow: 1, DCol: 2}, {DRow: 2, DCol: -1}, {DRow: 2, DCol: 1},
	}
)

// pawnForward is the row step of a pawn of the given color.
func pawnForward(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

// threatens reports whether p, found at the given distance along dir from a
// target square, attacks that square. dir points from the target to p.
func threatens(p Piece, dir Direction, distance int) bool {
	switch p.Type {
	case Queen:
		return true
	case Rook:
		return !dir.isDiagonal()
	case Bishop:
		return dir.isDiagonal()
	case King:
		return distance == 1
	case Pawn:
		// a pawn attacks diagonally forward, so it sits one row behind its target
		return distance == 1 && dir.isDiagonal() && dir.DRow == -pawnForward(p.Color)
	}
	return false
}

// IsSquareAttacked reports whether any piece of color by attacks sq. The
// occupant of sq itself is ignored.
func IsSquareAttacked(b *BoardState, sq Square, by Color) bool {
	for _, dir := range knightDirs {
		target := sq.Add(dir)
		if target.OnBoard() && b.PieceAt(target) == (Piece{Type: Knight, Color: by}) {
			return true
		}
	}
	for _, dir := range kingDirs {
		target := sq.Add(dir)
		for distance := 1; target.OnBoard(); distance++ {
			p := b.PieceAt(target)
			if !p.IsEmpty() {
				if p.Color == by && threatens(p, dir, distance) {
					return true
				}
				break
			}
			target = target.Add(dir)
		}
	}
	return false
}

// Pin is an own piece that may only move along Dir or its reverse.
type Pin struct {
	Square Square    `json:"square"`
	Dir    Direction `json:"dir"`
}

// Check is an enemy piece giving check. Dir points from the king towards the
// checker and is zero for a knight.
type Check struct {
	Square Square    `json:"square"`
	Dir    Direction `json:"dir"`
}

type KingThreats struct {
	InCheck bool
	Pins    []Pin
	Checks  []Check
}

func (k KingThreats) pinOf(sq Square) (Direction, bool) {
	for _, pin := range k.Pins {
		if pin.Square == sq {
			return pin.Dir, true
		}
	}
	return Direction{}, false
}

// ScanKingThreats ray-casts outwards from the king of the given color and
// collects the pieces checking it and the own pieces pinned to it.
func ScanKingThreats(b *BoardState, color Color) KingThreats {
	kingSq := b.KingSquare(color)
	if b.PieceAt(kingSq) != (Piece{Type: King, Color: color}) {
		panic(fmt.Sprintf("model: %s king missing from %s", color, kingSq))
	}
	threats := KingThreats{}
	for _, dir := range kingDirs {
		var candidate *Square
		target := kingSq.Add(dir)
		for distance := 1; target.OnBoard(); distance++ {
			p := b.PieceAt(target)
			if p.IsEmpty() {
				target = target.Add(dir)
				continue
			}
			if p.Color == color {
				if candidate != nil {
					break
				}
				sq := target
				candidate = &sq
				target = target.Add(dir)
				continue
			}
			if threatens(p, dir, distance) {
				if candidate == nil {
					threats.InCheck = true
					threats.Checks = append(threats.Checks, Check{Square: target, Dir: dir})
				} else {
					threats.Pins = append(threats.Pins, Pin{Square: *candidate, Dir: dir})
				}
			}
			break
		}
	}
	for _, dir := range knightDirs {
		target := kingSq.Add(dir)
		if target.OnBoard() && b.PieceAt(target) == (Piece{Type: Knight, Color: color.Opponent()}) {
			threats.InCheck = true
			threats.Checks = append(threats.Checks, Check{Square: target})
		}
	}
	return threats
}

// IsInCheck reports whether the side to move is in check.
func IsInCheck(b *BoardState) bool {
	return IsSquareAttacked(b, b.KingSquare(b.toMove), b.toMove.Opponent())
}

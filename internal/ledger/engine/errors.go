package engine

import "errors"

// Falhas de validação resolvidas localmente, antes de qualquer mutação
var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrTeamNotFound        = errors.New("team not registered")
	ErrDuplicateBet        = errors.New("bet already placed for this match")
	ErrInvalidAmount       = errors.New("bet amount must be in multiples of ₹5 Lakh")
	ErrInsufficientBalance = errors.New("insufficient balance to place the bet")
	ErrHomeTeamConstraint  = errors.New("must bet on home team")
	ErrInvalidWinner       = errors.New("invalid winner")
	ErrMatchAlreadySettled = errors.New("match result already settled")
)

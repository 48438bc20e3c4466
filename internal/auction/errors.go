package auction

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig       = errors.New("invalid_config")
	ErrEmptyPool           = errors.New("empty_pool")
	ErrPlayerAlreadyUp     = errors.New("player_already_up")
	ErrNoCurrentPlayer     = errors.New("no_current_player")
	ErrNoCaptainSelected   = errors.New("no_captain_selected")
	ErrPriceBelowMinimum   = errors.New("price_below_minimum")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrPriceExceedsMaxBid  = errors.New("price_exceeds_max_bid")
	ErrNothingToUndo       = errors.New("nothing_to_undo")
	ErrStateInvalid        = errors.New("state_invalid")
)

// BalanceError reports what the captain actually has left so the caller
// can correct the bid and retry.
type BalanceError struct {
	Captain string
	Balance int
	Price   int
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("insufficient_balance: %s has %d, bid was %d", e.Captain, e.Balance, e.Price)
}

func (e *BalanceError) Unwrap() error { return ErrInsufficientBalance }

// MaxBidError carries the computed cap alongside the rejected price.
type MaxBidError struct {
	Captain string
	MaxBid  int
	Price   int
}

func (e *MaxBidError) Error() string {
	return fmt.Sprintf("price_exceeds_max_bid: %s max bid is %d, bid was %d", e.Captain, e.MaxBid, e.Price)
}

func (e *MaxBidError) Unwrap() error { return ErrPriceExceedsMaxBid }

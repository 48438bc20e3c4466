package registry

import "errors"

var (
	ErrUnknownAuction   = errors.New("unknown_auction")
	ErrAuctionExists    = errors.New("auction_exists")
	ErrInvalidAuctionID = errors.New("invalid_auction_id")
)

package domain

import "errors"

// Not found
var ErrAuctionNotFound = errors.New("auction not found")

// Forbidden
var (
	ErrSelfBid  = errors.New("cannot bid on own item")
	ErrNotOwner = errors.New("only the seller may cancel the auction")
)

// Conflict
var (
	ErrAuctionEnded       = errors.New("auction already ended")
	ErrBidTooLow          = errors.New("bid price must exceed current highest")
	ErrAlreadyFinished    = errors.New("auction already finished")
	ErrCancelWindowClosed = errors.New("auction cannot be cancelled within one hour of its end")
)

// Invalid argument
var (
	ErrBidBelowStart = errors.New("bid price below start price")
	ErrInvalidPeriod = errors.New("invalid auction period")
	ErrInvalidReason = errors.New("invalid cancel reason")
)

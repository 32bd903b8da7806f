package domain

import "time"

// Bid is an immutable, append-only offer against an auction. ID and
// CreatedAt are assigned by the ledger at write time, never by callers.
type Bid struct {
	ID        int64
	AuctionID int64
	BidderID  string
	Price     int64
	CreatedAt time.Time
}

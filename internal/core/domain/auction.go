package domain

import "time"

type AuctionStatus string

const (
	StatusBeforeStart   AuctionStatus = "BEFORE_START"
	StatusOnGoing       AuctionStatus = "ON_GOING"
	StatusBidCompleted  AuctionStatus = "BID_COMPLETED"
	StatusEndWithoutBid AuctionStatus = "END_WITHOUT_BID"
	StatusCancelled     AuctionStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition may leave the status.
func (s AuctionStatus) IsTerminal() bool {
	switch s {
	case StatusBidCompleted, StatusEndWithoutBid, StatusCancelled:
		return true
	}
	return false
}

type CancelReason string

const (
	ReasonItemDamaged        CancelReason = "ITEM_DAMAGED"
	ReasonPriceMistake       CancelReason = "PRICE_MISTAKE"
	ReasonSimpleChangeOfMind CancelReason = "SIMPLE_CHANGE_OF_MIND"
)

func (r CancelReason) Valid() bool {
	switch r {
	case ReasonItemDamaged, ReasonPriceMistake, ReasonSimpleChangeOfMind:
		return true
	}
	return false
}

// Auction is one timed sale around a single item. The stored status is
// advanced only by the lifecycle sweeps or an explicit cancellation.
type Auction struct {
	ID          int64
	SellerID    string
	Title       string
	StartPrice  int64
	BuyNowPrice *int64
	StartAt     time.Time
	EndAt       time.Time
	Status      AuctionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectiveStatus derives the status a reader should see right now, without
// waiting for the next sweep. Terminal statuses are sticky. An auction past
// its end time but not yet swept reads as END_WITHOUT_BID; the sweep later
// decides between END_WITHOUT_BID and BID_COMPLETED authoritatively.
func EffectiveStatus(a Auction, now time.Time) AuctionStatus {
	if a.Status.IsTerminal() {
		return a.Status
	}
	switch {
	case now.Before(a.StartAt):
		return StatusBeforeStart
	case now.After(a.EndAt):
		return StatusEndWithoutBid
	default:
		return StatusOnGoing
	}
}

package port

import "context"

// CounterRepository is the fast shared store holding the highest accepted
// price per auction. It is a synchronization primitive, not the system of
// record: the ledger's bid history can always rebuild it.
type CounterRepository interface {
	// CompareAndRaise atomically raises the marker to price if price is
	// strictly greater than the current value (0 when absent). Returns
	// false without mutating otherwise. No interleaving with other callers
	// on the same auction is possible.
	CompareAndRaise(ctx context.Context, auctionID int64, price int64) (bool, error)

	// GetHighest returns the current marker value, 0 when absent.
	GetHighest(ctx context.Context, auctionID int64) (int64, error)

	// SetHighest overwrites the marker (marker rebuild / reconciliation).
	SetHighest(ctx context.Context, auctionID int64, price int64) error
}

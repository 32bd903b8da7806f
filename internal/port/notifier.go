package port

import "context"

// Notifier dispatches fire-and-forget participant notifications. Failures
// are logged by callers and never roll back the triggering transition.
type Notifier interface {
	// AuctionWon announces that the auction closed with a winning bid.
	AuctionWon(ctx context.Context, auctionID int64) error

	// AuctionCancelled informs every prior bidder of a cancellation.
	AuctionCancelled(ctx context.Context, auctionID int64, bidderIDs []string) error
}

// PenaltyRecorder applies a reputation penalty to a seller who cancels an
// already-bid-on auction out of simple change of mind.
type PenaltyRecorder interface {
	RecordCancellationPenalty(ctx context.Context, sellerID string, auctionID int64) error
}

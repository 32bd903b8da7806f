package port

import (
	"context"
	"time"

	"github.com/3dev1ops/gamja-market-backend/internal/core/domain"
)

// AppendedBid carries the ledger-assigned identity and timestamp of a
// durably recorded bid.
type AppendedBid struct {
	ID        int64
	CreatedAt time.Time
}

// LedgerRepository is the durable, authoritative store for auctions and
// their append-only bid history.
type LedgerRepository interface {
	// CreateAuction persists a new auction and returns its assigned id.
	CreateAuction(ctx context.Context, a domain.Auction) (int64, error)

	// GetAuction retrieves an auction by id, (nil, nil) when absent.
	GetAuction(ctx context.Context, id int64) (*domain.Auction, error)

	// AuctionExists reports whether an auction row exists.
	AuctionExists(ctx context.Context, id int64) (bool, error)

	// AppendBid records a bid, assigning id and creation time at write time.
	AppendBid(ctx context.Context, auctionID int64, bidderID string, price int64) (AppendedBid, error)

	// ListBids returns one page of bids ordered by price descending,
	// arrival order breaking ties. Page is 1-based.
	ListBids(ctx context.Context, auctionID int64, page, size int) ([]domain.Bid, error)

	// BidExists reports whether the auction has at least one bid.
	BidExists(ctx context.Context, auctionID int64) (bool, error)

	// AuctionIDsWithBids returns the subset of ids that have at least one
	// bid, as a membership set.
	AuctionIDsWithBids(ctx context.Context, auctionIDs []int64) (map[int64]bool, error)

	// DistinctBidderIDs returns each bidder that bid on the auction, once.
	DistinctBidderIDs(ctx context.Context, auctionID int64) ([]string, error)

	// MaxBidPrice returns the highest recorded bid price, 0 when none.
	MaxBidPrice(ctx context.Context, auctionID int64) (int64, error)

	// BulkSetStatus transitions every auction matching (fromStatus,
	// startedBefore) to toStatus in one set-based update and returns the
	// affected row count. Safe to re-run.
	BulkSetStatus(ctx context.Context, fromStatus, toStatus domain.AuctionStatus, startedBefore time.Time) (int64, error)

	// FindCandidates lists auctions in the given status whose end time is
	// before the cutoff.
	FindCandidates(ctx context.Context, status domain.AuctionStatus, endedBefore time.Time) ([]domain.Auction, error)

	// UpdateStatus transitions one auction from expected to newStatus.
	// Returns false when no row changed, meaning the auction was already
	// transitioned by an earlier run.
	UpdateStatus(ctx context.Context, id int64, expected, newStatus domain.AuctionStatus) (bool, error)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/3dev1ops/gamja-market-backend/internal/core/domain"
	"github.com/3dev1ops/gamja-market-backend/internal/port"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// BidResult is what a successful bid placement returns: the price and time
// the ledger actually recorded, never the client's input echoed back.
type BidResult struct {
	BidID         int64
	AcceptedPrice int64
	AcceptedAt    time.Time
}

// BidService admits bids against the shared highest-price marker and
// appends accepted bids to the ledger. The bidder id is trusted as-is: the
// auth layer upstream has already established its existence, so no bidder
// lookup happens here.
type BidService struct {
	ledger  port.LedgerRepository
	counter port.CounterRepository
	log     *logrus.Logger
	now     func() time.Time
}

func NewBidService(ledger port.LedgerRepository, counter port.CounterRepository, log *logrus.Logger) *BidService {
	return &BidService{
		ledger:  ledger,
		counter: counter,
		log:     log,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *BidService) WithClock(now func() time.Time) *BidService {
	s.now = now
	return s
}

// PlaceBid validates the bid, performs the atomic compare-and-raise against
// the marker, and on admission appends the bid to the ledger.
func (s *BidService) PlaceBid(ctx context.Context, auctionID int64, bidderID string, price int64) (BidResult, error) {
	auction, err := s.ledger.GetAuction(ctx, auctionID)
	if err != nil {
		return BidResult{}, fmt.Errorf("load auction %d: %w", auctionID, err)
	}
	if auction == nil {
		return BidResult{}, domain.ErrAuctionNotFound
	}

	if auction.SellerID == bidderID {
		return BidResult{}, domain.ErrSelfBid
	}

	// Raw end timestamp, not the sweep-maintained status: stays correct
	// even when the lifecycle sweep is behind.
	if !s.now().Before(auction.EndAt) {
		return BidResult{}, domain.ErrAuctionEnded
	}

	if price < auction.StartPrice {
		return BidResult{}, domain.ErrBidBelowStart
	}

	accepted, err := s.counter.CompareAndRaise(ctx, auctionID, price)
	if err != nil {
		return BidResult{}, fmt.Errorf("compare-and-raise auction %d: %w", auctionID, err)
	}
	if !accepted {
		return BidResult{}, domain.ErrBidTooLow
	}

	appended, err := s.ledger.AppendBid(ctx, auctionID, bidderID, price)
	if err != nil {
		// The marker is now elevated with no matching ledger row. That is
		// stale but safe: lower bids keep being rejected correctly. No
		// automatic retry; operators reconcile from the ledger, which is
		// authoritative, via RebuildMarker.
		s.log.WithFields(logrus.Fields{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
			"bid_price":  price,
			"error":      err.Error(),
		}).Error("bid ledger append failed after admission, marker left elevated")
		return BidResult{}, fmt.Errorf("append bid for auction %d: %w", auctionID, err)
	}

	return BidResult{
		BidID:         appended.ID,
		AcceptedPrice: price,
		AcceptedAt:    appended.CreatedAt,
	}, nil
}

// GetBidHistory returns one page of the auction's bids, highest price
// first, arrival order breaking ties.
func (s *BidService) GetBidHistory(ctx context.Context, auctionID int64, page, size int) ([]domain.Bid, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	exists, err := s.ledger.AuctionExists(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("check auction %d: %w", auctionID, err)
	}
	if !exists {
		return nil, domain.ErrAuctionNotFound
	}

	bids, err := s.ledger.ListBids(ctx, auctionID, page, size)
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %d: %w", auctionID, err)
	}

	return bids, nil
}

// RebuildMarker recomputes the highest-bid marker from the ledger's bid
// history and overwrites the counter entry. Recovery path after a failed
// append or a counter store restart.
func (s *BidService) RebuildMarker(ctx context.Context, auctionID int64) (int64, error) {
	exists, err := s.ledger.AuctionExists(ctx, auctionID)
	if err != nil {
		return 0, fmt.Errorf("check auction %d: %w", auctionID, err)
	}
	if !exists {
		return 0, domain.ErrAuctionNotFound
	}

	highest, err := s.ledger.MaxBidPrice(ctx, auctionID)
	if err != nil {
		return 0, fmt.Errorf("max bid price for auction %d: %w", auctionID, err)
	}

	if err := s.counter.SetHighest(ctx, auctionID, highest); err != nil {
		return 0, fmt.Errorf("set marker for auction %d: %w", auctionID, err)
	}

	s.log.WithFields(logrus.Fields{
		"auction_id": auctionID,
		"highest":    highest,
	}).Info("rebuilt highest-bid marker from ledger")

	return highest, nil
}

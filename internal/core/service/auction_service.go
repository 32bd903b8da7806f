package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/3dev1ops/gamja-market-backend/internal/core/domain"
	"github.com/3dev1ops/gamja-market-backend/internal/port"
)

// Auction registration may be scheduled at most this far ahead.
const maxStartLead = 7 * 24 * time.Hour

// Cancellation is refused this close to the end of the auction.
const cancelCutoff = time.Hour

// CreateAuctionParams carries the caller-supplied fields of a new auction.
// StartAt defaults to the current time when zero.
type CreateAuctionParams struct {
	SellerID    string
	Title       string
	StartPrice  int64
	BuyNowPrice *int64
	StartAt     time.Time
	EndAt       time.Time
}

// AuctionService covers auction registration, read-time status derivation
// and explicit cancellation. Time-driven transitions belong to the
// lifecycle scheduler, not here.
type AuctionService struct {
	ledger   port.LedgerRepository
	notifier port.Notifier
	penalty  port.PenaltyRecorder
	log      *logrus.Logger
	now      func() time.Time
}

func NewAuctionService(ledger port.LedgerRepository, notifier port.Notifier, penalty port.PenaltyRecorder, log *logrus.Logger) *AuctionService {
	return &AuctionService{
		ledger:   ledger,
		notifier: notifier,
		penalty:  penalty,
		log:      log,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *AuctionService) WithClock(now func() time.Time) *AuctionService {
	s.now = now
	return s
}

func (s *AuctionService) CreateAuction(ctx context.Context, p CreateAuctionParams) (domain.Auction, error) {
	now := s.now()

	startAt := p.StartAt
	if startAt.IsZero() {
		startAt = now
	}

	if startAt.Before(now.Add(-time.Second)) {
		return domain.Auction{}, fmt.Errorf("%w: start time in the past", domain.ErrInvalidPeriod)
	}
	if startAt.After(now.Add(maxStartLead)) {
		return domain.Auction{}, fmt.Errorf("%w: start time more than a week ahead", domain.ErrInvalidPeriod)
	}
	if !startAt.Before(p.EndAt) {
		return domain.Auction{}, fmt.Errorf("%w: end time not after start time", domain.ErrInvalidPeriod)
	}

	status := domain.StatusBeforeStart
	if !startAt.After(now) {
		status = domain.StatusOnGoing
	}

	auction := domain.Auction{
		SellerID:    p.SellerID,
		Title:       p.Title,
		StartPrice:  p.StartPrice,
		BuyNowPrice: p.BuyNowPrice,
		StartAt:     startAt,
		EndAt:       p.EndAt,
		Status:      status,
	}

	id, err := s.ledger.CreateAuction(ctx, auction)
	if err != nil {
		return domain.Auction{}, fmt.Errorf("create auction: %w", err)
	}
	auction.ID = id

	s.log.WithFields(logrus.Fields{
		"auction_id": id,
		"seller_id":  p.SellerID,
		"status":     status,
	}).Info("auction registered")

	return auction, nil
}

// GetAuction returns the auction with its status derived for the current
// instant, independent of when the last sweep ran.
func (s *AuctionService) GetAuction(ctx context.Context, id int64) (domain.Auction, error) {
	auction, err := s.ledger.GetAuction(ctx, id)
	if err != nil {
		return domain.Auction{}, fmt.Errorf("load auction %d: %w", id, err)
	}
	if auction == nil {
		return domain.Auction{}, domain.ErrAuctionNotFound
	}

	a := *auction
	a.Status = domain.EffectiveStatus(a, s.now())
	return a, nil
}

// CancelAuction takes a still-running auction out of its lifecycle. When
// bids exist, a simple change of mind costs the seller a reputation penalty
// and every prior bidder is notified; both effects are dispatched through
// hooks and never block the cancellation itself.
func (s *AuctionService) CancelAuction(ctx context.Context, auctionID int64, sellerID string, reason domain.CancelReason) error {
	if !reason.Valid() {
		return domain.ErrInvalidReason
	}

	auction, err := s.ledger.GetAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("load auction %d: %w", auctionID, err)
	}
	if auction == nil {
		return domain.ErrAuctionNotFound
	}

	if auction.SellerID != sellerID {
		return domain.ErrNotOwner
	}

	if auction.Status.IsTerminal() {
		return domain.ErrAlreadyFinished
	}

	if s.now().After(auction.EndAt.Add(-cancelCutoff)) {
		return domain.ErrCancelWindowClosed
	}

	hasBids, err := s.ledger.BidExists(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("check bids for auction %d: %w", auctionID, err)
	}

	changed, err := s.ledger.UpdateStatus(ctx, auctionID, auction.Status, domain.StatusCancelled)
	if err != nil {
		return fmt.Errorf("cancel auction %d: %w", auctionID, err)
	}
	if !changed {
		// Status moved underneath us, most likely a sweep finalized the
		// auction between the read and the update.
		return domain.ErrAlreadyFinished
	}

	if hasBids {
		if reason == domain.ReasonSimpleChangeOfMind {
			if err := s.penalty.RecordCancellationPenalty(ctx, sellerID, auctionID); err != nil {
				s.log.WithFields(logrus.Fields{
					"auction_id": auctionID,
					"seller_id":  sellerID,
					"error":      err.Error(),
				}).Warn("cancellation penalty dispatch failed")
			}
		}

		bidders, err := s.ledger.DistinctBidderIDs(ctx, auctionID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"auction_id": auctionID,
				"error":      err.Error(),
			}).Warn("could not list bidders for cancellation notice")
		} else if err := s.notifier.AuctionCancelled(ctx, auctionID, bidders); err != nil {
			s.log.WithFields(logrus.Fields{
				"auction_id": auctionID,
				"error":      err.Error(),
			}).Warn("cancellation notification failed")
		}
	}

	s.log.WithFields(logrus.Fields{
		"auction_id": auctionID,
		"seller_id":  sellerID,
		"reason":     reason,
		"had_bids":   hasBids,
	}).Info("auction cancelled")

	return nil
}

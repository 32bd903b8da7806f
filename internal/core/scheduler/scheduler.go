// Package scheduler sweeps auctions through their lifecycle on a fixed
// interval. Both sweeps are idempotent: their filter predicates exclude
// rows a previous run already transitioned, so overlapping or repeated
// runs are no-ops.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/3dev1ops/gamja-market-backend/internal/core/domain"
	"github.com/3dev1ops/gamja-market-backend/internal/port"
)

const DefaultInterval = 10 * time.Second

type Scheduler struct {
	ledger   port.LedgerRepository
	notifier port.Notifier
	log      *logrus.Logger
	interval time.Duration
	now      func() time.Time
}

func New(ledger port.LedgerRepository, notifier port.Notifier, log *logrus.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Run drives both sweeps until the context is cancelled. A failed cycle is
// simply retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.WithField("interval", s.interval.String()).Info("lifecycle scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("lifecycle scheduler stopped")
			return
		case <-ticker.C:
			now := s.now()
			if _, err := s.StartSweep(ctx, now); err != nil {
				s.log.WithField("error", err.Error()).Error("start sweep failed")
			}
			if err := s.EndSweep(ctx, now); err != nil {
				s.log.WithField("error", err.Error()).Error("end sweep failed")
			}
		}
	}
}

// StartSweep promotes every auction due to start in one set-based update.
func (s *Scheduler) StartSweep(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.ledger.BulkSetStatus(ctx, domain.StatusBeforeStart, domain.StatusOnGoing, now)
	if err != nil {
		return 0, fmt.Errorf("promote due auctions: %w", err)
	}

	if count > 0 {
		s.log.WithFields(logrus.Fields{
			"promoted": count,
			"cutoff":   now,
		}).Info("start sweep promoted auctions")
	}

	return count, nil
}

// EndSweep finalizes every auction past its end time, splitting the batch
// by bid existence: with bids it closes as BID_COMPLETED and announces the
// winner, without bids as END_WITHOUT_BID. One membership query answers
// bid existence for the whole batch. A failure on one auction is logged
// and skipped; the row stays ON_GOING and the next cycle retries it.
func (s *Scheduler) EndSweep(ctx context.Context, now time.Time) error {
	candidates, err := s.ledger.FindCandidates(ctx, domain.StatusOnGoing, now)
	if err != nil {
		return fmt.Errorf("find ended auctions: %w", err)
	}
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]int64, len(candidates))
	for i, a := range candidates {
		ids[i] = a.ID
	}

	withBids, err := s.ledger.AuctionIDsWithBids(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve bid existence: %w", err)
	}

	var completed, lapsed, failed int
	for _, auction := range candidates {
		if withBids[auction.ID] {
			if err := s.finalizeWithBid(ctx, auction.ID); err != nil {
				failed++
				s.log.WithFields(logrus.Fields{
					"auction_id": auction.ID,
					"error":      err.Error(),
				}).Error("could not finalize auction with winning bid")
				continue
			}
			completed++
		} else {
			changed, err := s.ledger.UpdateStatus(ctx, auction.ID, domain.StatusOnGoing, domain.StatusEndWithoutBid)
			if err != nil {
				failed++
				s.log.WithFields(logrus.Fields{
					"auction_id": auction.ID,
					"error":      err.Error(),
				}).Error("could not finalize auction without bids")
				continue
			}
			if changed {
				lapsed++
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"candidates":    len(candidates),
		"bid_completed": completed,
		"without_bid":   lapsed,
		"failed":        failed,
	}).Info("end sweep finished")

	return nil
}

func (s *Scheduler) finalizeWithBid(ctx context.Context, auctionID int64) error {
	changed, err := s.ledger.UpdateStatus(ctx, auctionID, domain.StatusOnGoing, domain.StatusBidCompleted)
	if err != nil {
		return err
	}
	if !changed {
		// Already finalized by an overlapping run; notifying again would
		// duplicate the announcement.
		return nil
	}

	if err := s.notifier.AuctionWon(ctx, auctionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"auction_id": auctionID,
			"error":      err.Error(),
		}).Warn("winner notification failed")
	}

	return nil
}

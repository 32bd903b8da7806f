package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/3dev1ops/gamja-market-backend/internal/core/domain"
	"github.com/3dev1ops/gamja-market-backend/internal/port"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeLedger is a concurrency-safe in-memory LedgerRepository.
type fakeLedger struct {
	mu            sync.Mutex
	auctions      map[int64]domain.Auction
	bids          []domain.Bid
	nextAuctionID int64
	nextBidID     int64
	appendErr     error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{auctions: make(map[int64]domain.Auction)}
}

func (f *fakeLedger) addAuction(a domain.Auction) domain.Auction {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == 0 {
		f.nextAuctionID++
		a.ID = f.nextAuctionID
	}
	f.auctions[a.ID] = a
	return a
}

func (f *fakeLedger) CreateAuction(ctx context.Context, a domain.Auction) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAuctionID++
	a.ID = f.nextAuctionID
	f.auctions[a.ID] = a
	return a.ID, nil
}

func (f *fakeLedger) GetAuction(ctx context.Context, id int64) (*domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.auctions[id]
	if !ok {
		return nil, nil
	}
	out := a
	return &out, nil
}

func (f *fakeLedger) AuctionExists(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.auctions[id]
	return ok, nil
}

func (f *fakeLedger) AppendBid(ctx context.Context, auctionID int64, bidderID string, price int64) (port.AppendedBid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return port.AppendedBid{}, f.appendErr
	}
	f.nextBidID++
	b := domain.Bid{
		ID:        f.nextBidID,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	f.bids = append(f.bids, b)
	return port.AppendedBid{ID: b.ID, CreatedAt: b.CreatedAt}, nil
}

func (f *fakeLedger) ListBids(ctx context.Context, auctionID int64, page, size int) ([]domain.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []domain.Bid
	for _, b := range f.bids {
		if b.AuctionID == auctionID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Price != all[j].Price {
			return all[i].Price > all[j].Price
		}
		return all[i].ID < all[j].ID
	})
	start := (page - 1) * size
	if start >= len(all) {
		return nil, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeLedger) BidExists(ctx context.Context, auctionID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bids {
		if b.AuctionID == auctionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) AuctionIDsWithBids(ctx context.Context, auctionIDs []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]bool, len(auctionIDs))
	for _, id := range auctionIDs {
		want[id] = true
	}
	out := make(map[int64]bool)
	for _, b := range f.bids {
		if want[b.AuctionID] {
			out[b.AuctionID] = true
		}
	}
	return out, nil
}

func (f *fakeLedger) DistinctBidderIDs(ctx context.Context, auctionID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, b := range f.bids {
		if b.AuctionID == auctionID && !seen[b.BidderID] {
			seen[b.BidderID] = true
			out = append(out, b.BidderID)
		}
	}
	return out, nil
}

func (f *fakeLedger) MaxBidPrice(ctx context.Context, auctionID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max int64
	for _, b := range f.bids {
		if b.AuctionID == auctionID && b.Price > max {
			max = b.Price
		}
	}
	return max, nil
}

func (f *fakeLedger) BulkSetStatus(ctx context.Context, fromStatus, toStatus domain.AuctionStatus, startedBefore time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, a := range f.auctions {
		if a.Status == fromStatus && !a.StartAt.After(startedBefore) {
			a.Status = toStatus
			f.auctions[id] = a
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) FindCandidates(ctx context.Context, status domain.AuctionStatus, endedBefore time.Time) ([]domain.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Auction
	for _, a := range f.auctions {
		if a.Status == status && a.EndAt.Before(endedBefore) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLedger) UpdateStatus(ctx context.Context, id int64, expected, newStatus domain.AuctionStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.auctions[id]
	if !ok || a.Status != expected {
		return false, nil
	}
	a.Status = newStatus
	f.auctions[id] = a
	return true, nil
}

func (f *fakeLedger) status(id int64) domain.AuctionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auctions[id].Status
}

// fakeCounter mirrors the Redis adapter's atomicity contract: the whole
// read-compare-write runs under one lock. Admitted prices are recorded in
// admission order.
type fakeCounter struct {
	mu       sync.Mutex
	highest  map[int64]int64
	admitted map[int64][]int64
	calls    int
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		highest:  make(map[int64]int64),
		admitted: make(map[int64][]int64),
	}
}

func (f *fakeCounter) CompareAndRaise(ctx context.Context, auctionID int64, price int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if price > f.highest[auctionID] {
		f.highest[auctionID] = price
		f.admitted[auctionID] = append(f.admitted[auctionID], price)
		return true, nil
	}
	return false, nil
}

func (f *fakeCounter) GetHighest(ctx context.Context, auctionID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.highest[auctionID], nil
}

func (f *fakeCounter) SetHighest(ctx context.Context, auctionID int64, price int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.highest[auctionID] = price
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	won       []int64
	cancelled map[int64][]string
	err       error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{cancelled: make(map[int64][]string)}
}

func (f *fakeNotifier) AuctionWon(ctx context.Context, auctionID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.won = append(f.won, auctionID)
	return nil
}

func (f *fakeNotifier) AuctionCancelled(ctx context.Context, auctionID int64, bidderIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.cancelled[auctionID] = bidderIDs
	return nil
}

type fakePenalty struct {
	mu      sync.Mutex
	applied []string
}

func (f *fakePenalty) RecordCancellationPenalty(ctx context.Context, sellerID string, auctionID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, sellerID)
	return nil
}

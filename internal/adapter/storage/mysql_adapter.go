package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/3dev1ops/gamja-market-backend/internal/core/domain"
	"github.com/3dev1ops/gamja-market-backend/internal/port"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateAuction(ctx context.Context, a domain.Auction) (int64, error) {
	now := time.Now().UTC()

	result, err := m.db.ExecContext(ctx, `
		INSERT INTO auctions (seller_id, title, start_price, buy_now_price, start_at, end_at, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.SellerID, a.Title, a.StartPrice, a.BuyNowPrice, a.StartAt, a.EndAt, a.Status, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert auction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("auction id: %w", err)
	}

	return id, nil
}

func (m *MySQLAdapter) GetAuction(ctx context.Context, id int64) (*domain.Auction, error) {
	var a domain.Auction
	err := m.db.QueryRowContext(ctx, `
		SELECT id, seller_id, title, start_price, buy_now_price, start_at, end_at, status, created_at, updated_at
		FROM auctions WHERE id = ?`, id,
	).Scan(&a.ID, &a.SellerID, &a.Title, &a.StartPrice, &a.BuyNowPrice,
		&a.StartAt, &a.EndAt, &a.Status, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query auction: %w", err)
	}

	return &a, nil
}

func (m *MySQLAdapter) AuctionExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM auctions WHERE id = ?)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("auction exists: %w", err)
	}

	return exists, nil
}

// AppendBid stamps the creation time here, at write time, so the caller's
// clock never leaks into the ledger.
func (m *MySQLAdapter) AppendBid(ctx context.Context, auctionID int64, bidderID string, price int64) (port.AppendedBid, error) {
	createdAt := time.Now().UTC()

	result, err := m.db.ExecContext(ctx, `
		INSERT INTO bids (auction_id, bidder_id, bid_price, created_at)
		VALUES (?, ?, ?, ?)`,
		auctionID, bidderID, price, createdAt,
	)
	if err != nil {
		return port.AppendedBid{}, fmt.Errorf("insert bid: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return port.AppendedBid{}, fmt.Errorf("bid id: %w", err)
	}

	return port.AppendedBid{ID: id, CreatedAt: createdAt}, nil
}

func (m *MySQLAdapter) ListBids(ctx context.Context, auctionID int64, page, size int) ([]domain.Bid, error) {
	offset := (page - 1) * size

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, auction_id, bidder_id, bid_price, created_at
		FROM bids WHERE auction_id = ?
		ORDER BY bid_price DESC, id ASC
		LIMIT ? OFFSET ?`,
		auctionID, size, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query bids: %w", err)
	}
	defer rows.Close()

	var bids []domain.Bid
	for rows.Next() {
		var b domain.Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Price, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		bids = append(bids, b)
	}

	return bids, rows.Err()
}

func (m *MySQLAdapter) BidExists(ctx context.Context, auctionID int64) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bids WHERE auction_id = ?)`, auctionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("bid exists: %w", err)
	}

	return exists, nil
}

func (m *MySQLAdapter) AuctionIDsWithBids(ctx context.Context, auctionIDs []int64) (map[int64]bool, error) {
	if len(auctionIDs) == 0 {
		return map[int64]bool{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(auctionIDs)), ",")
	args := make([]any, len(auctionIDs))
	for i, id := range auctionIDs {
		args[i] = id
	}

	rows, err := m.db.QueryContext(ctx,
		`SELECT DISTINCT auction_id FROM bids WHERE auction_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query auctions with bids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan auction id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

func (m *MySQLAdapter) DistinctBidderIDs(ctx context.Context, auctionID int64) ([]string, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT DISTINCT bidder_id FROM bids WHERE auction_id = ?`, auctionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query bidders: %w", err)
	}
	defer rows.Close()

	var bidders []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bidder id: %w", err)
		}
		bidders = append(bidders, id)
	}

	return bidders, rows.Err()
}

func (m *MySQLAdapter) MaxBidPrice(ctx context.Context, auctionID int64) (int64, error) {
	var max int64
	err := m.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(bid_price), 0) FROM bids WHERE auction_id = ?`, auctionID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max bid price: %w", err)
	}

	return max, nil
}

func (m *MySQLAdapter) BulkSetStatus(ctx context.Context, fromStatus, toStatus domain.AuctionStatus, startedBefore time.Time) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE auctions
		SET status = ?, updated_at = ?
		WHERE status = ? AND start_at <= ?`,
		toStatus, time.Now().UTC(), fromStatus, startedBefore,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk set status: %w", err)
	}

	return result.RowsAffected()
}

func (m *MySQLAdapter) FindCandidates(ctx context.Context, status domain.AuctionStatus, endedBefore time.Time) ([]domain.Auction, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, seller_id, title, start_price, buy_now_price, start_at, end_at, status, created_at, updated_at
		FROM auctions
		WHERE status = ? AND end_at < ?`,
		status, endedBefore,
	)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var auctions []domain.Auction
	for rows.Next() {
		var a domain.Auction
		if err := rows.Scan(&a.ID, &a.SellerID, &a.Title, &a.StartPrice, &a.BuyNowPrice,
			&a.StartAt, &a.EndAt, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		auctions = append(auctions, a)
	}

	return auctions, rows.Err()
}

// UpdateStatus transitions a single auction, guarded by the expected current
// status. Zero affected rows means another run already transitioned it,
// which keeps re-runs of a sweep no-ops.
func (m *MySQLAdapter) UpdateStatus(ctx context.Context, id int64, expected, newStatus domain.AuctionStatus) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE auctions
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		newStatus, time.Now().UTC(), id, expected,
	)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

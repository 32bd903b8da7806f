package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	subjectAuctionWon       = "auction.won.%d"
	subjectAuctionCancelled = "auction.cancelled.%d"
	subjectSellerPenalty    = "seller.penalty.%s"
)

// AuctionEvent is the wire form of every auction notification. Consumers
// downstream fan it out to the affected users.
type AuctionEvent struct {
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	AuctionID int64     `json:"auction_id"`
	SellerID  string    `json:"seller_id,omitempty"`
	BidderIDs []string  `json:"bidder_ids,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSNotifier publishes auction events to NATS subjects. Publishing is
// best effort: the triggering state transition has already committed.
type NATSNotifier struct {
	conn *nats.Conn
}

func NewNATSNotifier(conn *nats.Conn) *NATSNotifier {
	return &NATSNotifier{conn: conn}
}

func (n *NATSNotifier) AuctionWon(ctx context.Context, auctionID int64) error {
	return n.publish(fmt.Sprintf(subjectAuctionWon, auctionID), AuctionEvent{
		EventID:   uuid.NewString(),
		Kind:      "auction_won",
		AuctionID: auctionID,
		Timestamp: time.Now().UTC(),
	})
}

func (n *NATSNotifier) AuctionCancelled(ctx context.Context, auctionID int64, bidderIDs []string) error {
	return n.publish(fmt.Sprintf(subjectAuctionCancelled, auctionID), AuctionEvent{
		EventID:   uuid.NewString(),
		Kind:      "auction_cancelled",
		AuctionID: auctionID,
		BidderIDs: bidderIDs,
		Timestamp: time.Now().UTC(),
	})
}

func (n *NATSNotifier) RecordCancellationPenalty(ctx context.Context, sellerID string, auctionID int64) error {
	return n.publish(fmt.Sprintf(subjectSellerPenalty, sellerID), AuctionEvent{
		EventID:   uuid.NewString(),
		Kind:      "cancellation_penalty",
		AuctionID: auctionID,
		SellerID:  sellerID,
		Timestamp: time.Now().UTC(),
	})
}

func (n *NATSNotifier) publish(subject string, event AuctionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := n.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	return nil
}

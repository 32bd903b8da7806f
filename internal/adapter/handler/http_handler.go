package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/3dev1ops/gamja-market-backend/internal/core/domain"
	"github.com/3dev1ops/gamja-market-backend/internal/core/service"
)

type CreateAuctionRequest struct {
	SellerID    string     `json:"seller_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	StartPrice  int64      `json:"start_price" binding:"required,gt=0"`
	BuyNowPrice *int64     `json:"buy_now_price"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       time.Time  `json:"end_at" binding:"required"`
}

type CancelAuctionRequest struct {
	SellerID string `json:"seller_id" binding:"required,uuid"`
	Reason   string `json:"reason" binding:"required"`
}

type PlaceBidRequest struct {
	BidderID string `json:"bidder_id" binding:"required,uuid"`
	BidPrice int64  `json:"bid_price" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID               int64  `json:"bid_id"`
	CurrentHighestPrice int64  `json:"current_highest_price"`
	BidTime             string `json:"bid_time"`
}

type BidHistoryEntry struct {
	BidID    int64  `json:"bid_id"`
	BidderID string `json:"bidder_id"`
	BidPrice int64  `json:"bid_price"`
	BidTime  string `json:"bid_time"`
}

type AuctionResponse struct {
	AuctionID   int64  `json:"auction_id"`
	SellerID    string `json:"seller_id"`
	Title       string `json:"title"`
	StartPrice  int64  `json:"start_price"`
	BuyNowPrice *int64 `json:"buy_now_price,omitempty"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	Status      string `json:"status"`
}

type AuctionServiceInterface interface {
	CreateAuction(ctx context.Context, p service.CreateAuctionParams) (domain.Auction, error)
	GetAuction(ctx context.Context, id int64) (domain.Auction, error)
	CancelAuction(ctx context.Context, auctionID int64, sellerID string, reason domain.CancelReason) error
}

type BidServiceInterface interface {
	PlaceBid(ctx context.Context, auctionID int64, bidderID string, price int64) (service.BidResult, error)
	GetBidHistory(ctx context.Context, auctionID int64, page, size int) ([]domain.Bid, error)
}

type HTTPHandler struct {
	auctions AuctionServiceInterface
	bids     BidServiceInterface
	log      *logrus.Logger
}

func NewHTTPHandler(auctions AuctionServiceInterface, bids BidServiceInterface, log *logrus.Logger) *HTTPHandler {
	return &HTTPHandler{auctions: auctions, bids: bids, log: log}
}

// CreateAuction handles POST /api/v1/auctions
func (h *HTTPHandler) CreateAuction(c *gin.Context) {
	var req CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}

	params := service.CreateAuctionParams{
		SellerID:    req.SellerID,
		Title:       req.Title,
		StartPrice:  req.StartPrice,
		BuyNowPrice: req.BuyNowPrice,
		EndAt:       req.EndAt,
	}
	if req.StartAt != nil {
		params.StartAt = *req.StartAt
	}

	auction, err := h.auctions.CreateAuction(c.Request.Context(), params)
	if err != nil {
		status, message := mapErrorToHTTP(err)
		jsonError(c, status, err, message)
		return
	}

	jsonResponse(c, http.StatusCreated, toAuctionResponse(auction), "auction registered")
}

// GetAuction handles GET /api/v1/auctions/:auction_id
func (h *HTTPHandler) GetAuction(c *gin.Context) {
	auctionID, ok := auctionIDParam(c)
	if !ok {
		return
	}

	auction, err := h.auctions.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := mapErrorToHTTP(err)
		jsonError(c, status, err, message)
		return
	}

	jsonResponse(c, http.StatusOK, toAuctionResponse(auction), "auction retrieved")
}

// CancelAuction handles DELETE /api/v1/auctions/:auction_id
func (h *HTTPHandler) CancelAuction(c *gin.Context) {
	auctionID, ok := auctionIDParam(c)
	if !ok {
		return
	}

	var req CancelAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}

	err := h.auctions.CancelAuction(c.Request.Context(), auctionID, req.SellerID, domain.CancelReason(req.Reason))
	if err != nil {
		status, message := mapErrorToHTTP(err)
		jsonError(c, status, err, message)
		return
	}

	jsonResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "auction cancelled")
}

// PlaceBid handles POST /api/v1/auctions/:auction_id/bids
func (h *HTTPHandler) PlaceBid(c *gin.Context) {
	auctionID, ok := auctionIDParam(c)
	if !ok {
		return
	}

	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}

	result, err := h.bids.PlaceBid(c.Request.Context(), auctionID, req.BidderID, req.BidPrice)
	if err != nil {
		status, message := mapErrorToHTTP(err)
		jsonError(c, status, err, message)
		h.log.WithFields(logrus.Fields{
			"auction_id": auctionID,
			"bidder_id":  req.BidderID,
			"bid_price":  req.BidPrice,
			"error":      err.Error(),
		}).Info("bid rejected")
		return
	}

	jsonResponse(c, http.StatusCreated, BidResponse{
		BidID:               result.BidID,
		CurrentHighestPrice: result.AcceptedPrice,
		BidTime:             result.AcceptedAt.UTC().Format(time.RFC3339),
	}, "bid placed successfully")
}

// GetBidHistory handles GET /api/v1/auctions/:auction_id/bids
func (h *HTTPHandler) GetBidHistory(c *gin.Context) {
	auctionID, ok := auctionIDParam(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(service.DefaultPageSize)))

	bids, err := h.bids.GetBidHistory(c.Request.Context(), auctionID, page, size)
	if err != nil {
		status, message := mapErrorToHTTP(err)
		jsonError(c, status, err, message)
		return
	}

	entries := make([]BidHistoryEntry, 0, len(bids))
	for _, b := range bids {
		entries = append(entries, BidHistoryEntry{
			BidID:    b.ID,
			BidderID: b.BidderID,
			BidPrice: b.Price,
			BidTime:  b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	jsonResponse(c, http.StatusOK, entries, "bid history retrieved")
}

// HealthCheck handles GET /health
func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func auctionIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("auction_id"), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err, "invalid auction id")
		return 0, false
	}
	return id, true
}

func toAuctionResponse(a domain.Auction) AuctionResponse {
	return AuctionResponse{
		AuctionID:   a.ID,
		SellerID:    a.SellerID,
		Title:       a.Title,
		StartPrice:  a.StartPrice,
		BuyNowPrice: a.BuyNowPrice,
		StartAt:     a.StartAt.UTC().Format(time.RFC3339),
		EndAt:       a.EndAt.UTC().Format(time.RFC3339),
		Status:      string(a.Status),
	}
}

// mapErrorToHTTP maps domain errors to a stable HTTP status and message,
// so callers can tell "raise your price" apart from "not allowed".
func mapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, domain.ErrSelfBid), errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, "not allowed"
	case errors.Is(err, domain.ErrAuctionEnded),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrAlreadyFinished),
		errors.Is(err, domain.ErrCancelWindowClosed):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrBidBelowStart),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidReason):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func jsonResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func jsonError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

package handlers

import (
	"encoding/json"
	"net/http"

	settlementRequest "github.com/soluna-labs/soluna-access-service/internal/delivery/http/dto/request"
	settlementResponse "github.com/soluna-labs/soluna-access-service/internal/delivery/http/dto/response"
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/usecase/settlement"
)

type SettlementHandler struct {
	Settlement settlement.SettlementUsecase
}

func NewSettlementHandler(uc settlement.SettlementUsecase) *SettlementHandler {
	return &SettlementHandler{Settlement: uc}
}

func (h *SettlementHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, settlementResponse.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.PostID == "" || req.BuyerID == "" || req.BuyerWallet == "" {
		writeJSON(w, http.StatusBadRequest, settlementResponse.ErrorResponse{Error: "post_id, buyer_id and buyer_wallet are required"})
		return
	}

	receipt, err := h.Settlement.InitiatePurchase(r.Context(), &settlement.PurchaseInput{
		PostID:      req.PostID,
		BuyerID:     req.BuyerID,
		BuyerWallet: req.BuyerWallet,
	}, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

func (h *SettlementHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, settlementResponse.ErrorResponse{Error: "invalid request body"})
		return
	}

	receipt, err := h.Settlement.InitiateSubscription(r.Context(), &settlement.SubscriptionInput{
		CreatorID:     req.CreatorID,
		SubscriberID:  req.SubscriberID,
		BuyerWallet:   req.BuyerWallet,
		Tier:          domain.Tier(req.Tier),
		PriceLamports: req.PriceLamports,
		DurationDays:  req.DurationDays,
	}, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

func (h *SettlementHandler) Bid(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest.BidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, settlementResponse.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, settlementResponse.ErrorResponse{Error: "amount must be positive"})
		return
	}

	receipt, err := h.Settlement.PlaceBid(r.Context(), &settlement.BidInput{
		PostID:       req.PostID,
		BidderID:     req.BidderID,
		BidderWallet: req.BidderWallet,
		Amount:       req.Amount,
	}, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

// RetryRecording re-runs bookkeeping for a payment that confirmed but never
// got recorded. The signature in the request is the one handed back in the
// earlier error response.
func (h *SettlementHandler) RetryRecording(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest.RetryRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, settlementResponse.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.TxSignature == "" {
		writeJSON(w, http.StatusBadRequest, settlementResponse.ErrorResponse{Error: "tx_signature is required"})
		return
	}

	receipt, err := h.Settlement.RetryPurchaseRecording(r.Context(), &settlement.PurchaseInput{
		PostID:      req.PostID,
		BuyerID:     req.BuyerID,
		BuyerWallet: req.BuyerWallet,
	}, &settlement.Receipt{
		TxSignature: req.TxSignature,
		PricePaid:   req.PricePaid,
		Status:      domain.SettlementConfirmed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}

func toReceiptResponse(receipt *settlement.Receipt) settlementResponse.ReceiptResponse {
	return settlementResponse.ReceiptResponse{
		AttemptID:   receipt.AttemptID,
		TxSignature: receipt.TxSignature,
		Status:      string(receipt.Status),
		PricePaid:   receipt.PricePaid,
		Currency:    receipt.Currency,
		Distribution: settlementResponse.DistributionResponse{
			CreatorWallet:  receipt.Distribution.CreatorWallet,
			CreatorAmount:  receipt.Distribution.CreatorAmount,
			PlatformAmount: receipt.Distribution.PlatformAmount,
			ReferrerWallet: receipt.Distribution.ReferrerWallet,
			ReferrerAmount: receipt.Distribution.ReferrerAmount,
		},
	}
}

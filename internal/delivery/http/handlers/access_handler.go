package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	accessRequest "github.com/soluna-labs/soluna-access-service/internal/delivery/http/dto/request"
	accessResponse "github.com/soluna-labs/soluna-access-service/internal/delivery/http/dto/response"
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/usecase"
)

type AccessHandler struct {
	Posts usecase.PostUsecase
}

func NewAccessHandler(posts usecase.PostUsecase) *AccessHandler {
	return &AccessHandler{Posts: posts}
}

func (h *AccessHandler) ResolveAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequest.ResolveAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, accessResponse.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.PostID == "" {
		writeJSON(w, http.StatusBadRequest, accessResponse.ErrorResponse{Error: "post_id is required"})
		return
	}

	resolution, err := h.Posts.ResolveAccess(r.Context(), req.PostID, req.ViewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accessResponse.AccessResponse{
		State:        string(resolution.State),
		UnlockAction: string(resolution.Action),
		PriceDisplay: resolution.PriceDisplay,
	})
}

func (h *AccessHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req accessRequest.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, accessResponse.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.CreatorID == "" {
		writeJSON(w, http.StatusBadRequest, accessResponse.ErrorResponse{Error: "creator_id is required"})
		return
	}

	post, err := toDomainPost(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, accessResponse.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.Posts.CreatePost(r.Context(), post); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"post_id": post.ID})
}

func (h *AccessHandler) ListCreatorPosts(w http.ResponseWriter, r *http.Request) {
	creatorID := r.PathValue("creatorID")
	if creatorID == "" {
		writeJSON(w, http.StatusBadRequest, accessResponse.ErrorResponse{Error: "creator id is required"})
		return
	}

	page, limit := 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	posts, total, err := h.Posts.ListCreatorPosts(r.Context(), creatorID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]accessResponse.PostSummary, 0, len(posts))
	for _, post := range posts {
		items = append(items, accessResponse.PostSummary{
			PostID:        post.ID,
			Title:         post.Title,
			AccessRule:    string(post.AccessRule),
			PriceLamports: post.PriceLamports,
			Currency:      post.Currency,
			Sold:          post.IsSold(),
		})
	}
	writeJSON(w, http.StatusOK, accessResponse.PostListResponse{Posts: items, Total: total})
}

func toDomainPost(req *accessRequest.CreatePostRequest) (*domain.Post, error) {
	now := time.Now()
	post := &domain.Post{
		ID:            uuid.New().String(),
		CreatorID:     req.CreatorID,
		Title:         req.Title,
		MediaURL:      req.MediaURL,
		AccessRule:    domain.AccessRule(req.AccessRule),
		PriceLamports: req.PriceLamports,
		Currency:      req.Currency,
		IsPremium:     req.IsPremium,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.Currency == "" {
		post.Currency = "SOL"
	}
	if req.RequiredTier != "" {
		tier := domain.Tier(req.RequiredTier)
		post.RequiredTier = &tier
	}

	if req.SellType != "" {
		post.Sellable = &domain.Sellable{
			SellType:             domain.SellType(req.SellType),
			Quantity:             req.Quantity,
			AuctionStartPrice:    req.AuctionStartPrice,
			AuctionStepPrice:     req.AuctionStepPrice,
			AuctionDurationHours: req.AuctionDurationHours,
			AuctionDepositAmount: req.AuctionDepositAmount,
		}
		if post.Sellable.SellType == domain.SellAuction {
			post.Auction = &domain.AuctionState{
				Status: domain.AuctionActive,
				EndAt:  now.Add(time.Duration(req.AuctionDurationHours) * time.Hour),
			}
		}
	}

	if req.FlashSale != nil {
		startAt, err := time.Parse(time.RFC3339, req.FlashSale.StartAt)
		if err != nil {
			return nil, err
		}
		endAt, err := time.Parse(time.RFC3339, req.FlashSale.EndAt)
		if err != nil {
			return nil, err
		}
		post.FlashSale = &domain.FlashSale{
			ID:              uuid.New().String(),
			PostID:          post.ID,
			DiscountPercent: req.FlashSale.DiscountPercent,
			StartAt:         startAt,
			EndAt:           endAt,
			MaxRedemptions:  req.FlashSale.MaxRedemptions,
		}
	}

	return post, nil
}

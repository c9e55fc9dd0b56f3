package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soluna-labs/soluna-access-service/internal/delivery/http/dto/response"
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the settlement error taxonomy onto HTTP. The one case
// that matters most is ReconciliationError: the client paid, so the
// response carries the signature it needs to retry recording instead of
// paying again.
func writeError(w http.ResponseWriter, err error) {
	var reconciliation *domain.ReconciliationError
	if errors.As(err, &reconciliation) {
		writeJSON(w, http.StatusBadGateway, response.ErrorResponse{
			Error:       reconciliation.Error(),
			TxSignature: reconciliation.TxSignature,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		writeJSON(w, http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrPostAlreadySold),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrAuctionEnded),
		errors.Is(err, domain.ErrAuctionNotActive),
		errors.Is(err, domain.ErrAlreadyRedeemed),
		errors.Is(err, domain.ErrPostNotForSale):
		writeJSON(w, http.StatusConflict, response.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrSelfPurchase),
		errors.Is(err, domain.ErrPlatformIsBuyer),
		errors.Is(err, domain.ErrInvalidWallet):
		writeJSON(w, http.StatusUnprocessableEntity, response.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeJSON(w, http.StatusPaymentRequired, response.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrConfirmationUnknown):
		writeJSON(w, http.StatusAccepted, response.ErrorResponse{Error: err.Error()})
		return
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			writeJSON(w, http.StatusNotFound, response.ErrorResponse{Error: st.Message()})
			return
		case codes.InvalidArgument:
			writeJSON(w, http.StatusBadRequest, response.ErrorResponse{Error: st.Message()})
			return
		case codes.FailedPrecondition:
			writeJSON(w, http.StatusConflict, response.ErrorResponse{Error: st.Message()})
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
}

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anitachen83-jpg/portfolio-management/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("can't encode response", slog.String("err", err.Error()))
	}
}

// respondError translates the service error taxonomy into HTTP statuses. The
// kind field lets clients branch without parsing messages.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.Is(err, service.ErrUnknownSymbol):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "unknown_symbol"})
	case errors.Is(err, service.ErrAlreadyExists):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "already_exists"})
	case errors.Is(err, service.ErrInvalidAmount):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "invalid_amount"})
	case errors.Is(err, service.ErrStockNotActive):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "stock_not_active"})
	case errors.Is(err, service.ErrInsufficientQuantity):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "insufficient_quantity"})
	case errors.Is(err, service.ErrLedgerInconsistency):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "ledger_inconsistency"})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"})
	}
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: "bad_request"})
}

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pharmacy/m/domain"
)

type stockRequest struct {
	MedicationID string `json:"medication_id"`
	Quantity     int64  `json:"quantity"`
	LotNumber    string `json:"lot_number"`
	ExpiryDate   string `json:"expiry_date"`
}

type stockResponse struct {
	domain.StockLot
	Status  domain.StockStatus `json:"status"`
	Created bool               `json:"created"`
}

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	views, err := h.store.ListStock(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.fail(w, r, err, "unable to list stock")
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil || expiry == nil {
		respondError(w, http.StatusBadRequest, "expiry_date is required in YYYY-MM-DD format")
		return
	}

	lot, created, err := h.dispensing.AddStock(r.Context(), domain.StockEntry{
		MedicationID: req.MedicationID,
		Quantity:     req.Quantity,
		LotNumber:    req.LotNumber,
		ExpiryDate:   *expiry,
	})
	if err != nil {
		h.fail(w, r, err, "unable to update stock")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, stockResponse{StockLot: lot, Status: lot.Status(), Created: created})
}

func (h *Handler) setMinimum(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MinimumQty int64 `json:"minimum_qty"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.MinimumQty < 0 {
		respondError(w, http.StatusBadRequest, "minimum_qty must not be negative")
		return
	}
	lot, err := h.store.SetMinimum(r.Context(), chi.URLParam(r, "id"), payload.MinimumQty, h.now().UTC())
	if err != nil {
		h.fail(w, r, err, "stock")
		return
	}
	respondJSON(w, http.StatusOK, stockResponse{StockLot: lot, Status: lot.Status()})
}

func (h *Handler) expiryAlerts(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}
	views, err := h.store.ExpiringStock(r.Context(), h.now().UTC().AddDate(0, 0, days))
	if err != nil {
		h.fail(w, r, err, "unable to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, views)
}

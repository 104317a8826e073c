package api

import (
	"bytes"
	"fmt"
	"net/http"

	"pharmacy/m/internal/dispensing"
	"pharmacy/m/internal/report"
)

type dispenseRequest struct {
	PatientID    string          `json:"patient_id"`
	NewPatient   *patientRequest `json:"new_patient,omitempty"`
	MedicationID string          `json:"medication_id"`
	Quantity     int64           `json:"quantity"`
	Notes        string          `json:"notes"`
}

func (h *Handler) dispense(w http.ResponseWriter, r *http.Request) {
	var req dispenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := dispensing.DispenseRequest{
		PatientID:    req.PatientID,
		MedicationID: req.MedicationID,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	}
	if req.PatientID == "" && req.NewPatient != nil {
		np, err := req.NewPatient.newPatient()
		if err != nil {
			respondError(w, http.StatusBadRequest, "birth_date must be in YYYY-MM-DD format")
			return
		}
		in.NewPatient = &np
	}

	res, err := h.dispensing.Dispense(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "unable to dispense medication")
		return
	}
	h.log.Info().
		Str("dispensation_id", res.Dispensation.ID).
		Str("medication_id", res.Dispensation.MedicationID).
		Int64("quantity", res.Dispensation.Quantity).
		Int64("remaining", res.Stock.CurrentQty).
		Str("status", string(res.Status)).
		Msg("medication dispensed")
	respondJSON(w, http.StatusCreated, res)
}

// reportFilter reads the report query parameters. dataInicio/dataFim are the names the
// export link uses; start_date/end_date are accepted as aliases.
func reportFilter(r *http.Request) (report.Filter, error) {
	q := r.URL.Query()
	start := q.Get("dataInicio")
	if start == "" {
		start = q.Get("start_date")
	}
	end := q.Get("dataFim")
	if end == "" {
		end = q.Get("end_date")
	}
	return report.ParseFilter(start, end, q.Get("patient"), q.Get("medication"))
}

func (h *Handler) dispensationReport(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilter(r)
	if err != nil {
		h.fail(w, r, err, "invalid report filter")
		return
	}
	from, until := filter.Bounds()
	rows, err := h.store.ListDispensations(r.Context(), from, until, 0)
	if err != nil {
		h.fail(w, r, err, "unable to fetch dispensation report")
		return
	}
	respondJSON(w, http.StatusOK, filter.Apply(rows))
}

func (h *Handler) exportDispensations(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilter(r)
	if err != nil {
		h.fail(w, r, err, "invalid report filter")
		return
	}
	from, until := filter.Bounds()
	rows, err := h.store.ListDispensations(r.Context(), from, until, 0)
	if err != nil {
		h.fail(w, r, err, "unable to fetch dispensations")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, filter.Apply(rows), h.reportTitle); err != nil {
		h.fail(w, r, err, "unable to render spreadsheet")
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.Dashboard(r.Context(), h.now())
	if err != nil {
		h.fail(w, r, err, "unable to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

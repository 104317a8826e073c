package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmacy/m/domain"
	"pharmacy/m/internal/dispensing"
)

// Medication handlers

type medicationRequest struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	ActiveIngredient string `json:"active_ingredient"`
	Concentration    string `json:"concentration"`
	DosageForm       string `json:"dosage_form"`
	Presentation     string `json:"presentation"`
}

func (req medicationRequest) medication() domain.Medication {
	return domain.Medication{
		Code:             strings.TrimSpace(req.Code),
		Name:             strings.TrimSpace(req.Name),
		ActiveIngredient: strings.TrimSpace(req.ActiveIngredient),
		Concentration:    strings.TrimSpace(req.Concentration),
		DosageForm:       strings.TrimSpace(req.DosageForm),
		Presentation:     strings.TrimSpace(req.Presentation),
	}
}

func (h *Handler) listMedications(w http.ResponseWriter, r *http.Request) {
	medications, err := h.store.ListMedications(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.fail(w, r, err, "unable to list medications")
		return
	}
	respondJSON(w, http.StatusOK, medications)
}

func (h *Handler) createMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	med := req.medication()
	if med.Code == "" || med.Name == "" {
		respondError(w, http.StatusBadRequest, "code and name are required")
		return
	}
	if err := h.store.CreateMedication(r.Context(), &med); err != nil {
		h.fail(w, r, err, "unable to create medication")
		return
	}
	respondJSON(w, http.StatusCreated, med)
}

func (h *Handler) getMedication(w http.ResponseWriter, r *http.Request) {
	med, err := h.store.GetMedication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "medication")
		return
	}
	respondJSON(w, http.StatusOK, med)
}

func (h *Handler) updateMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	med := req.medication()
	if med.Code == "" || med.Name == "" {
		respondError(w, http.StatusBadRequest, "code and name are required")
		return
	}
	med.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateMedication(r.Context(), med); err != nil {
		h.fail(w, r, err, "unable to update medication")
		return
	}
	updated, err := h.store.GetMedication(r.Context(), med.ID)
	if err != nil {
		h.fail(w, r, err, "medication")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Patient handlers

type patientRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

func (req patientRequest) newPatient() (dispensing.NewPatient, error) {
	birth, err := parseDate(req.BirthDate)
	if err != nil {
		return dispensing.NewPatient{}, err
	}
	return dispensing.NewPatient{
		Name:       req.Name,
		NationalID: req.NationalID,
		BirthDate:  birth,
		Phone:      req.Phone,
		Address:    req.Address,
	}, nil
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.store.ListPatients(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.fail(w, r, err, "unable to list patients")
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	np, err := req.newPatient()
	if err != nil {
		respondError(w, http.StatusBadRequest, "birth_date must be in YYYY-MM-DD format")
		return
	}
	patient, err := h.dispensing.RegisterPatient(r.Context(), np)
	if err != nil {
		h.fail(w, r, err, "unable to register patient")
		return
	}
	respondJSON(w, http.StatusCreated, patient)
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.store.GetPatient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"pharmacy/m/domain"
	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/config"
	"pharmacy/m/internal/dispensing"
	"pharmacy/m/internal/logging"
	"pharmacy/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store         *store.Store
	dispensing    *dispensing.Service
	authenticator *auth.Authenticator
	issuer        *auth.Issuer
	log           zerolog.Logger
	corsOrigins   []string
	reportTitle   string
	now           func() time.Time
}

// New constructs a Handler.
func New(s *store.Store, cfg config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		store:         s,
		dispensing:    dispensing.NewService(s, cfg.DefaultMinimumQty),
		authenticator: auth.NewAuthenticator(s),
		issuer:        auth.NewIssuer(cfg.Secret, cfg.TokenTTL),
		log:           logger,
		corsOrigins:   cfg.CORSOrigins,
		reportTitle:   cfg.ReportTitle,
		now:           time.Now,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Requests(h.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Get("/me", h.me)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/medications", func(r chi.Router) {
			r.Get("/", h.listMedications)
			r.Post("/", h.createMedication)
			r.Get("/{id}", h.getMedication)
			r.Put("/{id}", h.updateMedication)
		})

		pr.Route("/patients", func(r chi.Router) {
			r.Get("/", h.listPatients)
			r.Post("/", h.createPatient)
			r.Get("/{id}", h.getPatient)
		})

		pr.Route("/stock", func(r chi.Router) {
			r.Get("/", h.listStock)
			r.Post("/", h.addStock)
			r.Get("/expiry-alert", h.expiryAlerts)
			r.Put("/{id}/minimum", h.setMinimum)
		})

		pr.Post("/dispensations", h.dispense)

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/dispensations", h.dispensationReport)
			r.Get("/dispensations/export", h.exportDispensations)
		})

		pr.Get("/dashboard", h.dashboard)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		session, err := h.issuer.Load(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		h.fail(w, r, err, "unable to log in")
		return
	}

	token, err := h.issuer.Save(auth.NewSession(user))
	if err != nil {
		h.fail(w, r, err, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Success: true, User: user, Token: token})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFrom(r.Context())
	respondJSON(w, http.StatusOK, session)
}

// Helpers

// fail classifies err into a status and short message; unexpected errors are logged and
// reported with the generic message only.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, domain.ErrInvalidQuantity.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusBadRequest, "insufficient stock")
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, message+": not found")
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, message+": already exists")
	default:
		h.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg(message)
		respondError(w, http.StatusInternalServerError, message)
	}
}

func parseDate(val string) (*time.Time, error) {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", trimmed, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fortuna/courtside/internal/query"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/store"
)

// QueryAsker answers questions
type QueryAsker interface {
	Ask(ctx context.Context, question string) service.QueryResponse
}

// PlayerResolver resolves names against the player directory
type PlayerResolver interface {
	Resolve(name string) (store.Player, bool)
	Count() int
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Handler contains dependencies for HTTP handlers
type Handler struct {
	queries  QueryAsker
	players  PlayerResolver
	checks   map[string]HealthCheck
	validate *validator.Validate
}

// NewHandler creates a new handler. checks may be nil.
func NewHandler(queries QueryAsker, players PlayerResolver, checks map[string]HealthCheck) *Handler {
	return &Handler{
		queries:  queries,
		players:  players,
		checks:   checks,
		validate: validator.New(),
	}
}

type queryRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":  state,
		"service": "courtside",
		"players": h.players.Count(),
		"checks":  checks,
	})
}

// Query answers the question in the request body. Unanswerable questions are
// still 200 responses; their kind says why. Provider failures are 502.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid question", validationError(err))
		return
	}

	resp := h.queries.Ask(r.Context(), req.Question)

	status := http.StatusOK
	if resp.Kind == query.KindError {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, resp)
}

// ResolvePlayer resolves ?name= the way questions resolve player names
func (h *Handler) ResolvePlayer(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		respondError(w, http.StatusBadRequest, "name parameter is required", nil)
		return
	}

	player, ok := h.players.Resolve(name)
	if !ok {
		respondError(w, http.StatusNotFound, (&query.PlayerNotFoundError{Name: name}).Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return errors.New("question is required")
	}
	return errors.New("question must be at most " + fe.Param() + " characters")
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}

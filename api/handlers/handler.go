package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/nyctransit/railboard/internal/api"
	"github.com/nyctransit/railboard/internal/models"
	"github.com/nyctransit/railboard/pkg/transit"
)

// Handler handles HTTP requests
type Handler struct {
	client transit.Client
}

// NewHandler creates a new HTTP handler
func NewHandler(client transit.Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/stations", h.handleStations).Methods("GET")
	r.HandleFunc("/stations/refresh", h.handleRefresh).Methods("POST")
	r.HandleFunc("/stations/{id}/departures", h.handleDepartures).Methods("GET")
	r.HandleFunc("/alerts", h.handleAlerts).Methods("GET")
	r.HandleFunc("/favorites", h.handleFavorites).Methods("GET")
	r.HandleFunc("/favorites/{id}", h.handleAddFavorite).Methods("PUT")
	r.HandleFunc("/favorites/{id}", h.handleRemoveFavorite).Methods("DELETE")
}

// Response wraps API responses
type Response struct {
	Data    interface{} `json:"data"`
	Updated string      `json:"updated,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "railboard",
		"readme": "Visit https://github.com/nyctransit/railboard for more info",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	system, ok := parseSystem(r.URL.Query().Get("system"))
	if !ok {
		h.writeError(w, "Invalid system parameter", http.StatusBadRequest)
		return
	}

	listing, err := h.client.SearchStations(r.Context(), r.URL.Query().Get("q"), system)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	response := Response{Data: listing}
	if fetched := h.client.StationsFetchedAt(system); !fetched.IsZero() {
		response.Updated = fetched.Format(time.RFC3339)
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	system, ok := parseSystem(r.URL.Query().Get("system"))
	if !ok {
		h.writeError(w, "Invalid system parameter", http.StatusBadRequest)
		return
	}

	stations, err := h.client.RefreshStations(r.Context(), system)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	h.writeJSON(w, Response{
		Data:    stations,
		Updated: h.client.StationsFetchedAt(system).Format(time.RFC3339),
	})
}

func (h *Handler) handleDepartures(w http.ResponseWriter, r *http.Request) {
	stationID := mux.Vars(r)["id"]

	limitMinutes := 0
	if raw := r.URL.Query().Get("limitMinutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, "Invalid limitMinutes parameter", http.StatusBadRequest)
			return
		}
		limitMinutes = parsed
	}

	sections, err := h.client.Departures(r.Context(), stationID, limitMinutes)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	h.writeJSON(w, Response{Data: sections})
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	var lines []string
	if raw := r.URL.Query().Get("lines"); raw != "" {
		lines = strings.Split(raw, ",")
	}

	alerts, err := h.client.Alerts(r.Context(), lines, r.URL.Query().Get("stationId"))
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	h.writeJSON(w, Response{Data: alerts})
}

func (h *Handler) handleFavorites(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, Response{Data: h.client.FavoriteIDs()})
}

func (h *Handler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.client.AddFavorite(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, Response{Data: h.client.FavoriteIDs()})
}

func (h *Handler) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.client.RemoveFavorite(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, Response{Data: h.client.FavoriteIDs()})
}

func parseSystem(raw string) (models.SystemTag, bool) {
	if raw == "" {
		return "", true
	}
	system := models.SystemTag(strings.ToUpper(raw))
	if !system.Valid() {
		return "", false
	}
	return system, true
}

// writeUpstreamError maps the client error taxonomy onto HTTP statuses.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	var remote *api.RemoteError
	var invalid *api.InvalidResponseError

	switch {
	case errors.Is(err, transit.ErrSuperseded):
		h.writeError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &remote):
		h.writeError(w, remote.Message, http.StatusBadGateway)
	case errors.As(err, &invalid):
		h.writeError(w, "Upstream returned an invalid response", http.StatusBadGateway)
	default:
		h.writeError(w, err.Error(), http.StatusServiceUnavailable)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

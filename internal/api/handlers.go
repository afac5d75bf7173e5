package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohamedkhairy/sweep-scanner/internal/models"
	"github.com/mohamedkhairy/sweep-scanner/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SignalHandler handles signal history endpoints
type SignalHandler struct {
	signalStorage storage.SignalStorage
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(signalStorage storage.SignalStorage) *SignalHandler {
	return &SignalHandler{
		signalStorage: signalStorage,
	}
}

// ListSignals handles GET /api/v1/signals
func (h *SignalHandler) ListSignals(w http.ResponseWriter, r *http.Request) {
	filter := storage.SignalFilter{
		Symbol: r.URL.Query().Get("symbol"),
		Limit:  100, // Default limit
		Offset: 0,
	}

	if gradeStr := r.URL.Query().Get("grade"); gradeStr != "" {
		grade := models.Grade(gradeStr)
		switch grade {
		case models.GradeAPlus, models.GradeB, models.GradeC, models.GradeD:
			filter.Grade = grade
		default:
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unknown grade %q", gradeStr))
			return
		}
	}

	if minStr := r.URL.Query().Get("min_score"); minStr != "" {
		min, err := strconv.ParseFloat(minStr, 64)
		if err != nil || min < 0 || min > 100 {
			respondWithError(w, http.StatusBadRequest, "min_score must be a number in [0,100]")
			return
		}
		filter.MinScore = min
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 1000 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	// Dates are daily, so accept bare dates as well as RFC3339
	if startStr := r.URL.Query().Get("start_date"); startStr != "" {
		start, err := parseDate(startStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD or RFC3339")
			return
		}
		filter.StartDate = start
	}
	if endStr := r.URL.Query().Get("end_date"); endStr != "" {
		end, err := parseDate(endStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD or RFC3339")
			return
		}
		filter.EndDate = end
	}

	signals, err := h.signalStorage.GetSignals(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"signals": signals,
		"count":   len(signals),
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// GetSignal handles GET /api/v1/signals/:id
func (h *SignalHandler) GetSignal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	signalID := vars["id"]

	signal, err := h.signalStorage.GetSignal(r.Context(), signalID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve signal")
		return
	}

	if signal == nil {
		respondWithError(w, http.StatusNotFound, "Signal not found")
		return
	}

	respondWithJSON(w, http.StatusOK, signal)
}

// HealthHandler handles GET /health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// NewRouter wires the signal endpoints, health check and metrics
func NewRouter(signalStorage storage.SignalStorage) *mux.Router {
	router := mux.NewRouter()

	chain := ChainMiddleware(
		ErrorHandlingMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(),
	)
	router.Use(mux.MiddlewareFunc(chain))

	router.HandleFunc("/health", HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	signals := NewSignalHandler(signalStorage)
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/signals", signals.ListSignals).Methods("GET")
	v1.HandleFunc("/signals/{id}", signals.GetSignal).Methods("GET")

	return router
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

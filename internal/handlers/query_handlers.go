package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/VamP08/FloatChat/internal/models"
	"github.com/VamP08/FloatChat/internal/repository"
	"github.com/VamP08/FloatChat/internal/services"
	"github.com/VamP08/FloatChat/pkg/logging"
	"github.com/VamP08/FloatChat/pkg/metrics"
)

// QueryHandler handles the query and float catalog API endpoints
type QueryHandler struct {
	queryService *services.QueryService
	floatService *services.FloatService
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(
	queryService *services.QueryService,
	floatService *services.FloatService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		floatService: floatService,
		logger:       logger,
		metrics:      metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// BatchRequest is the body of a batch query call
type BatchRequest struct {
	FunctionCalls []models.FunctionCall `json:"function_calls"`
}

// BatchResponse carries batch results with their outcome summary
type BatchResponse struct {
	Results []models.QueryResult `json:"results"`
	Summary models.BatchSummary  `json:"summary"`
}

// ExecuteQuery handles POST /api/query
func (h *QueryHandler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/query").Observe(duration.Seconds())
	}()

	var call models.FunctionCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		h.metrics.RecordAPIError("bad_request", "/api/query")
		h.sendError(w, r, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.queryService.Execute(ctx, call)
	if err != nil {
		if models.IsUsageError(err) {
			h.metrics.RecordAPIError("usage_error", "/api/query")
			h.sendError(w, r, err.Error(), http.StatusBadRequest)
			return
		}

		h.logger.Error(ctx, "[API_QUERY_ERROR] Query execution failed", logging.Fields{
			"function": call.Function,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/query")
		h.sendError(w, r, "query execution failed", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/query", "POST", "200")
	h.sendJSON(w, result, http.StatusOK)
}

// ExecuteBatch handles POST /api/query/batch
func (h *QueryHandler) ExecuteBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/query/batch").Observe(duration.Seconds())
	}()

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordAPIError("bad_request", "/api/query/batch")
		h.sendError(w, r, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.FunctionCalls) == 0 {
		h.sendError(w, r, "function_calls must not be empty", http.StatusBadRequest)
		return
	}

	results, summary := h.queryService.ExecuteBatch(ctx, req.FunctionCalls)

	h.metrics.RecordAPIRequest("/api/query/batch", "POST", "200")
	h.sendJSON(w, BatchResponse{Results: results, Summary: summary}, http.StatusOK)
}

// ListFloats handles GET /api/floats
func (h *QueryHandler) ListFloats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/floats").Observe(duration.Seconds())
	}()

	page, limit := parsePagination(r)
	offset := (page - 1) * limit

	floats, total, err := h.floatService.ListFloats(ctx, limit, offset)
	if err != nil {
		h.logger.Error(ctx, "[API_LIST_FLOATS_ERROR] Failed to list floats", logging.Fields{
			"page":  page,
			"limit": limit,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/floats")
		h.sendError(w, r, "failed to retrieve floats", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       floats,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/floats", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetFloat handles GET /api/floats/{float_id}
func (h *QueryHandler) GetFloat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	floatID := mux.Vars(r)["float_id"]

	float, err := h.floatService.GetFloat(ctx, floatID)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			h.sendError(w, r, notFound.Error(), http.StatusNotFound)
			return
		}

		h.logger.Error(ctx, "[API_GET_FLOAT_ERROR] Failed to get float", logging.Fields{
			"float_id": floatID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/floats/{float_id}")
		h.sendError(w, r, "failed to retrieve float", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/floats/{float_id}", "GET", "200")
	h.sendJSON(w, float, http.StatusOK)
}

// GetFloatProfiles handles GET /api/floats/{float_id}/profiles
func (h *QueryHandler) GetFloatProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	floatID := mux.Vars(r)["float_id"]

	page, limit := parsePagination(r)
	offset := (page - 1) * limit

	profiles, total, err := h.floatService.ProfilesByFloat(ctx, floatID, limit, offset)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			h.sendError(w, r, notFound.Error(), http.StatusNotFound)
			return
		}

		h.logger.Error(ctx, "[API_FLOAT_PROFILES_ERROR] Failed to get profiles", logging.Fields{
			"float_id": floatID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/floats/{float_id}/profiles")
		h.sendError(w, r, "failed to retrieve profiles", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       profiles,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/floats/{float_id}/profiles", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetProfileMeasurements handles GET /api/profiles/{profile_id}/measurements
func (h *QueryHandler) GetProfileMeasurements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID, err := strconv.ParseInt(mux.Vars(r)["profile_id"], 10, 64)
	if err != nil {
		h.sendError(w, r, "invalid profile_id, expected integer", http.StatusBadRequest)
		return
	}

	measurements, err := h.floatService.MeasurementsByProfile(ctx, profileID)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			h.sendError(w, r, notFound.Error(), http.StatusNotFound)
			return
		}

		h.logger.Error(ctx, "[API_MEASUREMENTS_ERROR] Failed to get measurements", logging.Fields{
			"profile_id": profileID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/profiles/{profile_id}/measurements")
		h.sendError(w, r, "failed to retrieve measurements", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/profiles/{profile_id}/measurements", "GET", "200")
	h.sendJSON(w, measurements, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *QueryHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.floatService.HealthCheck(ctx); err != nil {
		status["status"] = "unhealthy"
		h.sendJSON(w, status, http.StatusServiceUnavailable)
		return
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// parsePagination extracts page and limit query parameters with defaults
func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = 100

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 1000 {
		limit = l
	}

	return page, limit
}

// sendJSON sends a JSON response
func (h *QueryHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *QueryHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RequestIDMiddleware attaches a request ID to each request context
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.NewRequestID()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RegisterRoutes registers all API routes
func (h *QueryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/query", h.ExecuteQuery).Methods("POST")
	router.HandleFunc("/api/query/batch", h.ExecuteBatch).Methods("POST")
	router.HandleFunc("/api/floats", h.ListFloats).Methods("GET")
	router.HandleFunc("/api/floats/{float_id}", h.GetFloat).Methods("GET")
	router.HandleFunc("/api/floats/{float_id}/profiles", h.GetFloatProfiles).Methods("GET")
	router.HandleFunc("/api/profiles/{profile_id}/measurements", h.GetProfileMeasurements).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}

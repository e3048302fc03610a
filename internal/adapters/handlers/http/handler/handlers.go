package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"trendflow/internal/core/domain"
	"trendflow/internal/core/port"
	jsonresponse "trendflow/pkg/JSONResponse"
)

type TrendingHandler struct {
	TrendingService port.TrendingServicePort
	cache           port.CachePort
	logger          *slog.Logger
}

func NewTrendingHandler(logger *slog.Logger, trendingService port.TrendingServicePort, cache port.CachePort) *TrendingHandler {
	return &TrendingHandler{
		TrendingService: trendingService,
		cache:           cache,
		logger:          logger,
	}
}

// GetTrendingStocks serves the final quote-enriched trending list.
func (h *TrendingHandler) GetTrendingStocks(w http.ResponseWriter, r *http.Request) {
	entries, err := h.TrendingService.GetTrendingStocks(r.Context())
	if err != nil {
		h.logger.Error("Failed to get trending stocks", slog.Any("error", err))
		jsonresponse.WriteError(w, jsonresponse.WrapError(
			jsonresponse.ErrInternalError,
			"Failed to get trending stocks",
			http.StatusInternalServerError,
		))
		return
	}

	jsonresponse.WriteResponse(w, http.StatusOK, entries)
}

// GetTrendingTickers serves the raw per-ticker aggregates. Query params:
// communities (comma-separated, optional) and limit (optional, positive).
func (h *TrendingHandler) GetTrendingTickers(w http.ResponseWriter, r *http.Request) {
	var communities []string
	if raw := r.URL.Query().Get("communities"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				communities = append(communities, c)
			}
		}
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			jsonresponse.WriteError(w, jsonresponse.WrapError(
				jsonresponse.ErrInvalidInput,
				"limit must be a positive integer",
				http.StatusBadRequest,
			))
			return
		}
		limit = parsed
	}

	aggregates, err := h.TrendingService.GetTrendingTickers(r.Context(), communities, limit)
	if err != nil {
		h.logger.Error("Failed to get trending tickers", slog.Any("error", err))
		jsonresponse.WriteError(w, jsonresponse.WrapError(
			jsonresponse.ErrInternalError,
			"Failed to get trending tickers",
			http.StatusInternalServerError,
		))
		return
	}

	jsonresponse.WriteResponse(w, http.StatusOK, aggregates)
}

// GetNews serves recent market headlines.
func (h *TrendingHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.TrendingService.GetNews(r.Context())
	if err != nil {
		h.logger.Error("Failed to get news", slog.Any("error", err))
		jsonresponse.WriteError(w, jsonresponse.WrapError(
			jsonresponse.ErrInternalError,
			"Failed to get news",
			http.StatusInternalServerError,
		))
		return
	}

	jsonresponse.WriteResponse(w, http.StatusOK, items)
}

func (h *TrendingHandler) Health(w http.ResponseWriter, r *http.Request) {
	jsonresponse.WriteResponse(w, http.StatusOK, domain.HealthResponse{
		Status: "ok",
		Cache:  h.cache.Ping(r.Context()),
	})
}

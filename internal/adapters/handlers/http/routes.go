package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendflow/internal/adapters/handlers/http/handler"
)

func addRoutes(mux *http.ServeMux, trendingHandler *handler.TrendingHandler) {
	mux.HandleFunc("GET /api/trending", trendingHandler.GetTrendingStocks)
	mux.HandleFunc("GET /api/trending/tickers", trendingHandler.GetTrendingTickers)
	mux.HandleFunc("GET /api/news", trendingHandler.GetNews)
	mux.HandleFunc("GET /health", trendingHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
}

package http

import (
	"log/slog"
	"net/http"

	"trendflow/internal/adapters/handlers/http/handler"
)

func NewServer(
	logger *slog.Logger,
	trendingHandler *handler.TrendingHandler,
) http.Handler {
	mux := http.NewServeMux()
	addRoutes(mux, trendingHandler)

	var h http.Handler = mux
	h = requestLogger(logger, h)

	return h
}

package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	manualorderservice "sourcingdash/contexts/sourcing-ops/manual-order-service"
	httptransport "sourcingdash/contexts/sourcing-ops/manual-order-service/transport/http"
	"sourcingdash/internal/platform/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "sourcingdash/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	orders  manualorderservice.Module
	metrics *metrics.Registry
	alerter Alerter
}

// Alerter lets the request boundary report unexpected failures to the
// operations webhook. Fire-and-forget.
type Alerter interface {
	Notify(ctx context.Context, title string, body string, severity string)
}

func New(
	orders manualorderservice.Module,
	reg *metrics.Registry,
	alerter Alerter,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		orders:  orders,
		metrics: reg,
		alerter: alerter,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("GET /manual-orders", s.handleListManualOrders)
	s.mux.HandleFunc("GET /manual-orders/{id}", s.handleGetManualOrder)
	s.mux.HandleFunc("PUT /order/{id}/note", s.handleUpdateNote)
	s.mux.HandleFunc("POST /order/claim/{id}", s.handleClaimOrder)
	s.mux.HandleFunc("GET /order/is-claimed/{id}", s.handleIsOrderClaimed)
	s.mux.HandleFunc("POST /order/release/{id}", s.handleReleaseOrder)
	s.mux.HandleFunc("POST /order/complete/{id}", s.handleCompleteOrder)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body is required")
		return false
	}
	if err := json.Unmarshal(body, target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, httptransport.ErrorResponse{Code: code, Message: message})
}

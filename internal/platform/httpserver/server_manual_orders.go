package httpserver

import (
	"errors"
	"net/http"
	"strings"

	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
	httptransport "sourcingdash/contexts/sourcing-ops/manual-order-service/transport/http"
)

// writeOrderDomainError maps domain errors onto the dashboard's status
// surface. notFoundStatus differs per route: the order GET uses 404, the
// lifecycle operations use 400 for an unknown id.
func (s *Server) writeOrderDomainError(w http.ResponseWriter, r *http.Request, err error, notFoundStatus int) {
	switch {
	case errors.Is(err, domainerrors.ErrOrderNotFound):
		writeError(w, notFoundStatus, "order_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidNote):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
	case errors.Is(err, domainerrors.ErrVersionConflict):
		writeError(w, http.StatusServiceUnavailable, "conflict_retry", err.Error())
	default:
		s.reportUnexpected(r, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// reportUnexpected logs and alerts on anything outside the known taxonomy.
// The caller only ever sees a generic 500 body.
func (s *Server) reportUnexpected(r *http.Request, err error) {
	s.logger.Error("unexpected request failure",
		"event", "http_unexpected_error",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
	if s.metrics != nil {
		s.metrics.UnexpectedErrors.Inc()
	}
	if s.alerter != nil {
		s.alerter.Notify(r.Context(), "Sourcing dashboard request failed",
			r.Method+" "+r.URL.Path+": "+err.Error(), "error")
	}
}

func requireOrderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "order id is required")
		return "", false
	}
	return id, true
}

func (s *Server) handleListManualOrders(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.PendingLists.Inc()
	}
	orders, err := s.orders.Handler.ListManualOrdersHandler(r.Context())
	if err != nil {
		s.writeOrderDomainError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetManualOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := requireOrderID(w, r)
	if !ok {
		return
	}
	order, err := s.orders.Handler.GetManualOrderHandler(r.Context(), id)
	if err != nil {
		s.writeOrderDomainError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleClaimOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := requireOrderID(w, r)
	if !ok {
		return
	}
	order, err := s.orders.Handler.ClaimOrderHandler(r.Context(), id)
	if err != nil {
		s.writeOrderDomainError(w, r, err, http.StatusBadRequest)
		return
	}
	if s.metrics != nil {
		s.metrics.Claims.Inc()
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleReleaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := requireOrderID(w, r)
	if !ok {
		return
	}
	order, err := s.orders.Handler.ReleaseOrderHandler(r.Context(), id)
	if err != nil {
		s.writeOrderDomainError(w, r, err, http.StatusBadRequest)
		return
	}
	if s.metrics != nil {
		s.metrics.Releases.Inc()
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := requireOrderID(w, r)
	if !ok {
		return
	}
	order, err := s.orders.Handler.CompleteOrderHandler(r.Context(), id)
	if err != nil {
		s.writeOrderDomainError(w, r, err, http.StatusBadRequest)
		return
	}
	if s.metrics != nil {
		s.metrics.Completes.Inc()
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleIsOrderClaimed(w http.ResponseWriter, r *http.Request) {
	id, ok := requireOrderID(w, r)
	if !ok {
		return
	}
	claimed, err := s.orders.Handler.IsOrderClaimedHandler(r.Context(), id)
	if err != nil {
		s.writeOrderDomainError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, claimed)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := requireOrderID(w, r)
	if !ok {
		return
	}
	var req httptransport.UpdateNoteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	order, err := s.orders.Handler.UpdateNoteHandler(r.Context(), id, req)
	if err != nil {
		s.writeOrderDomainError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

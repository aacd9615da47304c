package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/geolocation"
	"near2door-tracker/internal/logx"
)

// TrackingHandler serves live tracking sessions.
type TrackingHandler struct {
	svc    trackingService
	fixes  fixPusher
	logger logx.Logger
	ws     wsConfig
}

// NewTrackingHandler creates a TrackingHandler. fixes may be nil when device
// positions arrive through a broker.
func NewTrackingHandler(logger logx.Logger, svc trackingService, fixes fixPusher) *TrackingHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &TrackingHandler{svc: svc, fixes: fixes, logger: logger, ws: defaultWSConfig()}
}

// AcceptsFixes reports whether POST /tracking/{orderID}/fix is served.
func (h *TrackingHandler) AcceptsFixes() bool { return h.fixes != nil }

// Start handles POST /tracking/{orderID}.
func (h *TrackingHandler) Start(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	var req startTrackingRequest
	if r.ContentLength > 0 {
		if ok := decodeJSON(h.logger, w, r, &req); !ok {
			return
		}
	}

	role, ok := who.TrackingRole()
	if !ok {
		writeError(h.logger, w, r, http.StatusForbidden, "only customers and agents track orders")
		return
	}
	if req.Role != "" && domain.Role(strings.ToLower(strings.TrimSpace(req.Role))) != role {
		writeError(h.logger, w, r, http.StatusBadRequest, "role does not match the caller")
		return
	}

	st, created, err := h.svc.Start(r.Context(), who.UserID, orderID, role)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(h.logger, w, r, code, trackingResponse{Status: statusToResponse(st)})
}

// Stop handles DELETE /tracking/{orderID}.
func (h *TrackingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	h.svc.Stop(who.UserID, orderID)
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /tracking/{orderID}.
func (h *TrackingHandler) Get(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	st, scene, err := h.svc.Snapshot(r.Context(), who.UserID, orderID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, trackingResponse{
		Status: statusToResponse(st),
		Scene:  sceneToResponse(scene),
	})
}

// Fix handles POST /tracking/{orderID}/fix.
func (h *TrackingHandler) Fix(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	if h.fixes == nil {
		writeError(h.logger, w, r, http.StatusNotFound, "device fixes are not accepted")
		return
	}
	var req fixRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	st, err := h.svc.Status(who.UserID, orderID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	if !st.Active {
		writeError(h.logger, w, r, http.StatusNotFound, "tracking is not active")
		return
	}

	if req.Error != "" {
		geoErr, ok := deviceError(req.Error)
		if !ok {
			writeError(h.logger, w, r, http.StatusBadRequest, "unknown device error")
			return
		}
		h.fixes.Fail(who.UserID, geoErr)
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "lat and lng are required")
		return
	}

	fx := geolocation.Fix{
		Coordinate: domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng},
		Accuracy:   req.Accuracy,
	}
	if req.Timestamp > 0 {
		fx.At = time.UnixMilli(req.Timestamp)
	}
	if err := h.fixes.Push(who.UserID, fx); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// RetrySelf handles POST /tracking/{orderID}/retry-self. A failed retry is
// reported through the status flags, not as an HTTP error.
func (h *TrackingHandler) RetrySelf(w http.ResponseWriter, r *http.Request) {
	who, orderID, ok := caller(h.logger, w, r)
	if !ok {
		return
	}
	st, err := h.svc.RetrySelf(who.UserID, orderID)
	if errors.Is(err, apperr.ErrNotFound) {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, trackingResponse{Status: statusToResponse(st)})
}

func deviceError(code string) (error, bool) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "permission_denied":
		return geolocation.ErrPermissionDenied, true
	case "timeout":
		return geolocation.ErrTimeout, true
	case "unavailable", "position_unavailable":
		return geolocation.ErrUnavailable, true
	default:
		return nil, false
	}
}

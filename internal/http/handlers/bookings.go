package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kawaclinic/appointment-desk/internal/archive"
	"github.com/kawaclinic/appointment-desk/internal/booking"
	"github.com/kawaclinic/appointment-desk/internal/notify"
	"github.com/kawaclinic/appointment-desk/internal/observability/metrics"
	"github.com/kawaclinic/appointment-desk/pkg/logging"
)

// dayLabelLayout renders a day heading like "Wednesday, 10 January 2024".
const dayLabelLayout = "Monday, 02 January 2006"

// ViewConfig carries the presentation switches for the two booking views.
type ViewConfig struct {
	InclusiveCutoff   bool
	UpcomingAscending bool
	ArchivedAscending bool
	SortDayByTime     bool
}

// BookingsHandler serves the booking form submissions and the two views.
type BookingsHandler struct {
	repo      *booking.Repository
	policy    booking.Policy
	view      ViewConfig
	metrics   *metrics.BookingMetrics
	notifier  *notify.Service
	snapshots *archive.Snapshotter
	logger    *logging.Logger

	// now supplies the default cutoff; overridable in tests.
	now func() time.Time
}

// NewBookingsHandler creates the handler. Metrics, notifier and snapshotter
// may be nil.
func NewBookingsHandler(
	repo *booking.Repository,
	policy booking.Policy,
	view ViewConfig,
	m *metrics.BookingMetrics,
	notifier *notify.Service,
	snapshots *archive.Snapshotter,
	logger *logging.Logger,
) *BookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingsHandler{
		repo:      repo,
		policy:    policy,
		view:      view,
		metrics:   m,
		notifier:  notifier,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateBookingRequest is the submit payload from the booking form.
type CreateBookingRequest struct {
	PatientName string `json:"patient_name"`
	ApptDate    string `json:"appointment_date"`
	ApptTime    string `json:"appointment_time"`
	Payment     string `json:"payment"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Create handles POST /bookings: validate against the freshly loaded table,
// append, then run the post-save hooks (refresh broadcast happens inside the
// repository, snapshot and operator email here).
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json", Message: "request body must be JSON"})
		return
	}

	candidate := booking.New(
		strings.TrimSpace(req.PatientName),
		strings.TrimSpace(req.ApptDate),
		strings.TrimSpace(req.ApptTime),
		strings.TrimSpace(req.Payment),
	)

	existing, err := h.loadAll(r)
	if err != nil {
		h.logger.Error("failed to load bookings before validation", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "store_unavailable", Message: "could not read the booking store"})
		return
	}

	if err := booking.Validate(candidate, existing, h.policy); err != nil {
		reason := booking.Reason(err)
		h.metrics.ObserveRejected(reason)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: reason, Message: err.Error()})
		return
	}

	start := time.Now()
	if err := h.repo.Append(r.Context(), candidate); err != nil {
		h.logger.Error("failed to append booking", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "store_unavailable", Message: "could not save the appointment"})
		return
	}
	h.metrics.ObserveStoreOp("append", time.Since(start).Seconds())
	h.metrics.ObserveSaved()

	h.afterSave(r, candidate, existing)

	writeJSON(w, http.StatusCreated, candidate)
}

// afterSave runs the best-effort post-save hooks. The append is already
// durable, so failures here are logged and swallowed.
func (h *BookingsHandler) afterSave(r *http.Request, saved booking.Booking, before []booking.Booking) {
	ctx := r.Context()

	if h.snapshots.Enabled() {
		schema := h.repo.Schema()
		rows := make([][]string, 0, len(before)+1)
		for _, b := range before {
			rows = append(rows, schema.Encode(b))
		}
		rows = append(rows, schema.Encode(saved))
		if err := h.snapshots.SnapshotTable(ctx, schema.Header(), rows); err != nil {
			h.logger.Warn("table snapshot failed", "error", err)
		}
	}

	if h.notifier.Enabled() {
		if err := h.notifier.NotifyBookingSaved(ctx, saved); err != nil {
			h.logger.Warn("operator notification failed", "error", err)
		}
	}
}

// Upcoming handles GET /bookings/upcoming.
func (h *BookingsHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, true)
}

// Archived handles GET /bookings/archived.
func (h *BookingsHandler) Archived(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, false)
}

type dayGroupResponse struct {
	Date  string               `json:"date"`
	Label string               `json:"label"`
	Rows  []booking.DisplayRow `json:"rows"`
}

type viewResponse struct {
	View    string             `json:"view"`
	Cutoff  string             `json:"cutoff"`
	Days    []dayGroupResponse `json:"days"`
	Count   int                `json:"count"`
	Message string             `json:"message,omitempty"`
}

func (h *BookingsHandler) serveView(w http.ResponseWriter, r *http.Request, upcoming bool) {
	cutoff := h.now()
	if raw := r.URL.Query().Get("cutoff"); raw != "" {
		parsed, ok := booking.ParseDate(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_cutoff", Message: "cutoff must be a yyyy-mm-dd date"})
			return
		}
		cutoff = parsed
	}

	all, err := h.loadAll(r)
	if err != nil {
		h.logger.Error("failed to load bookings for view", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "store_unavailable", Message: "could not read the booking store"})
		return
	}

	up, ar := booking.Partition(all, cutoff, h.view.InclusiveCutoff)

	var (
		name      string
		subset    []booking.Booking
		ascending bool
		emptyMsg  string
	)
	if upcoming {
		name, subset, ascending = "upcoming", up, h.view.UpcomingAscending
		emptyMsg = "No upcoming appointments booked."
	} else {
		name, subset, ascending = "archived", ar, h.view.ArchivedAscending
		emptyMsg = "No archived appointments found."
	}

	groups := booking.GroupByDay(subset, ascending, h.view.SortDayByTime)
	resp := viewResponse{
		View:   name,
		Cutoff: cutoff.Format(booking.DateLayout),
		Days:   make([]dayGroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Days = append(resp.Days, dayGroupResponse{
			Date:  g.Day.Format(booking.DateLayout),
			Label: g.Day.Format(dayLabelLayout),
			Rows:  g.Rows,
		})
		resp.Count += len(g.Rows)
	}
	if resp.Count == 0 {
		resp.Message = emptyMsg
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (h *BookingsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *BookingsHandler) loadAll(r *http.Request) ([]booking.Booking, error) {
	start := time.Now()
	all, err := h.repo.Load(r.Context())
	if err != nil {
		return nil, err
	}
	h.metrics.ObserveStoreOp("load", time.Since(start).Seconds())
	return all, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

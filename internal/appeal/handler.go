package appeal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Publisher records an appeal.created event after a successful create.
// Publish failures are logged and never fail the request.
type Publisher interface {
	AppealCreated(ctx context.Context, rec Record) error
}

type Handler struct {
	Log    *slog.Logger
	Store  Store
	Events Publisher

	// CreatedTotal counts successful creates by intake kind. Optional.
	CreatedTotal *prometheus.CounterVec
}

// Root is the liveness endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Сервис обращений абонентов работает"})
}

func (h *Handler) CreateAppeal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var req CreateAppealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	h.create(w, r, req.Appeal(), "single")
}

func (h *Handler) CreateAppealMultiple(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var req CreateAppealMultipleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	h.create(w, r, req.Appeal(), "multiple")
}

// CreateSimpleAppeal adapts flat query-style fields onto the same
// single-problem validation path.
func (h *Handler) CreateSimpleAppeal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", "malformed parameters")
		return
	}

	birthDate, err := ParseDate(r.Form.Get("birth_date"))
	if err != nil {
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	detectedAt, err := ParseDateTime(r.Form.Get("detection_datetime"))
	if err != nil {
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	req := CreateAppealRequest{
		LastName:  r.Form.Get("last_name"),
		FirstName: r.Form.Get("first_name"),
		BirthDate: birthDate,
		Phone:     r.Form.Get("phone"),
		Email:     r.Form.Get("email"),
		Problem: Problem{
			ProblemType:       r.Form.Get("problem_type"),
			DetectionDatetime: detectedAt,
		},
	}

	if err := req.Validate(); err != nil {
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	h.create(w, r, req.Appeal(), "simple")
}

func (h *Handler) GetAppeal(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	if id == "" {
		WriteErrorR(w, r, http.StatusNotFound, "not_found", "appeal not found")
		return
	}

	rec, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			WriteErrorR(w, r, http.StatusNotFound, "not_found", "appeal not found")
			return
		}
		h.Log.Error("appeal_get_failed", slog.String("id", id), slog.String("err", err.Error()))
		WriteErrorR(w, r, http.StatusInternalServerError, "storage_error", "failed to read appeal")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, a Appeal, kind string) {
	rec, err := h.Store.Create(r.Context(), a)
	if err != nil {
		h.Log.Error("appeal_create_failed", slog.String("err", err.Error()))
		WriteErrorR(w, r, http.StatusInternalServerError, "storage_error", "failed to save appeal")
		return
	}

	h.Log.Info("appeal_created", slog.String("id", rec.ID), slog.String("kind", kind))
	if h.CreatedTotal != nil {
		h.CreatedTotal.WithLabelValues(kind).Inc()
	}

	if h.Events != nil {
		if err := h.Events.AppealCreated(r.Context(), rec); err != nil {
			h.Log.Error("appeal_event_failed", slog.String("id", rec.ID), slog.String("err", err.Error()))
		}
	}

	if kind == "simple" {
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":      rec.ID,
			"message": "Обращение успешно создано",
			"data":    rec.Appeal,
		})
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// decodeBody reads a JSON body into dst and writes the 400 itself when the
// body is unusable. Date parse failures inside the payload surface their
// own message instead of a generic one.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		msg := "invalid json"
		var verr ValidationError
		switch {
		case errors.As(err, &verr):
			msg = verr.Error()
		case errors.Is(err, io.EOF):
			msg = "empty body"
		}
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", msg)
		return false
	}

	if dec.More() {
		WriteErrorR(w, r, http.StatusBadRequest, "validation_error", "invalid json")
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/abonentdesk/appeal-service/internal/appeal"
)

// NewRouter wires the appeal intake surface plus the service endpoints.
// Metrics are optional so tests can run without a registry.
func NewRouter(log *slog.Logger, appealH *appeal.Handler) http.Handler {
	return NewRouterWithMetrics(log, appealH, nil, nil)
}

func NewRouterWithMetrics(log *slog.Logger, appealH *appeal.Handler, m *Metrics, metricsH http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if metricsH != nil {
		mux.Handle("/metrics", metricsH)
	}

	mux.Handle("/appeal", WithRoute("/appeal", http.HandlerFunc(appealH.CreateAppeal)))
	mux.Handle("/appeal/multiple", WithRoute("/appeal/multiple", http.HandlerFunc(appealH.CreateAppealMultiple)))
	mux.Handle("/appeal/simple", WithRoute("/appeal/simple", http.HandlerFunc(appealH.CreateSimpleAppeal)))

	mux.Handle("/appeal/", WithRoute("/appeal/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/appeal/")
		appealH.GetAppeal(w, r, id)
	})))

	mux.Handle("/", WithRoute("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			appeal.WriteError(w, http.StatusNotFound, "not_found", "not found")
			return
		}
		appealH.Root(w, r)
	})))

	var h http.Handler = mux
	h = Recover(log)(h)
	if m != nil {
		h = m.Middleware(h)
	}
	h = RequestID(h)
	h = AccessLog(log)(h)

	return h
}

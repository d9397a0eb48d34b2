// Package httpapi mounts the todo service behind its REST surface: the five
// collection operations, a liveness root, the embedded OpenAPI document, and
// optional metrics endpoints. Error responses share a single JSON envelope
// whose kind mirrors the domain error taxonomy.
package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todocore/docs/schema/openapi"
	"todocore/internal/core"
	"todocore/pkg/domain"
)

// Handler serves the todo REST surface on top of a core service.
type Handler struct {
	svc    *core.Service
	logger core.Logger
}

type options struct {
	logger   core.Logger
	registry *prometheus.Registry
	expvars  bool
}

// Option customises handler construction.
type Option func(*options)

// WithLogger routes request logs and internal failures through logger. Nil
// loggers are ignored.
func WithLogger(logger core.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRegistry mounts GET /metrics for reg and records per-request
// counters and latencies into it. Nil registries are ignored.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithExpvar mounts GET /debug/vars, exposing expvar-published state such as
// the expvar metrics recorder.
func WithExpvar() Option {
	return func(o *options) {
		o.expvars = true
	}
}

// New builds the full HTTP handler: routed endpoints wrapped in request id,
// request logging, and CORS middleware. The CORS policy is permissive, the
// same stance the upstream API takes.
func New(svc *core.Service, opts ...Option) http.Handler {
	cfg := options{logger: core.NopLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Handler{svc: svc, logger: cfg.logger}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handleUnknownRoute)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	r.Methods(http.MethodGet).Path("/").HandlerFunc(h.handleRoot)
	r.Methods(http.MethodGet).Path("/openapi.yaml").HandlerFunc(handleOpenAPI)

	// The upstream API serves the collection under /todos/; accept the bare
	// path too so clients need not care about the trailing slash.
	for _, path := range []string{"/todos", "/todos/"} {
		r.Methods(http.MethodGet).Path(path).HandlerFunc(h.handleList)
		r.Methods(http.MethodPost).Path(path).HandlerFunc(h.handleCreate)
	}
	r.Methods(http.MethodGet).Path("/todos/{id}").HandlerFunc(h.handleGet)
	r.Methods(http.MethodPut).Path("/todos/{id}").HandlerFunc(h.handleUpdate)
	r.Methods(http.MethodDelete).Path("/todos/{id}").HandlerFunc(h.handleDelete)

	if cfg.registry != nil {
		r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{}))
		r.Use(requestMetrics(cfg.registry))
	}
	if cfg.expvars {
		r.Methods(http.MethodGet).Path("/debug/vars").Handler(expvar.Handler())
	}

	// Request id and logging wrap the router itself so unknown routes and
	// method mismatches are logged too; mux middleware only runs on matches.
	var chain http.Handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
	)(r)
	chain = requestLogging(cfg.logger)(chain)
	chain = requestID(chain)
	return chain
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "todocore", "status": "ok"})
}

func handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openapi.Spec())
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if todos == nil {
		// An empty collection is encoded as [], never null.
		todos = []core.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	todo, err := h.svc.GetTodo(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input core.CreateInput
	if !decodeBody(w, r, &input) {
		return
	}
	todo, err := h.svc.CreateTodo(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input core.UpdateInput
	if !decodeBody(w, r, &input) {
		return
	}
	todo, err := h.svc.UpdateTodo(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTodo(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func handleUnknownRoute(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, domain.KindNotFound, "no such endpoint")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, kindMethodNotAllowed, "method not allowed")
}

// pathID extracts the {id} route variable. A non-integer id is a validation
// error, not a missing record.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.KindValidation, "id must be an integer")
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body into dst. An empty body is accepted
// and leaves dst at its zero value; field validation decides what that means.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, domain.KindValidation, "invalid JSON payload")
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		writeError(w, http.StatusBadRequest, domain.KindValidation, err.Error())
	case domain.KindNotFound:
		writeError(w, http.StatusNotFound, domain.KindNotFound, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
	}
}

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/debtguard/internal/application/analysis"
	appcitations "github.com/bryanwahyu/debtguard/internal/application/citations"
	appcollector "github.com/bryanwahyu/debtguard/internal/application/collector"
	appresources "github.com/bryanwahyu/debtguard/internal/application/resources"
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	domai "github.com/bryanwahyu/debtguard/internal/domain/ai"
	domcollector "github.com/bryanwahyu/debtguard/internal/domain/collector"
	"github.com/bryanwahyu/debtguard/internal/domain/documents"
	domhistory "github.com/bryanwahyu/debtguard/internal/domain/history"
	domresources "github.com/bryanwahyu/debtguard/internal/domain/resources"
	domain "github.com/bryanwahyu/debtguard/internal/domain/session"
	"github.com/bryanwahyu/debtguard/internal/middleware"
)

type Router struct {
	sessionsSvc  *appsessions.Service
	analysisSvc  *appanalysis.Service
	collectorSvc *appcollector.Service
	resourcesSvc *appresources.Service
	citationsSvc *appcitations.Service
	historyRepo  domhistory.Repository
	checkers     map[string]middleware.HealthChecker
}

func NewRouter(
	sessionsSvc *appsessions.Service,
	analysisSvc *appanalysis.Service,
	collectorSvc *appcollector.Service,
	resourcesSvc *appresources.Service,
	citationsSvc *appcitations.Service,
	historyRepo domhistory.Repository,
	checkers map[string]middleware.HealthChecker,
) http.Handler {
	r := &Router{
		sessionsSvc:  sessionsSvc,
		analysisSvc:  analysisSvc,
		collectorSvc: collectorSvc,
		resourcesSvc: resourcesSvc,
		citationsSvc: citationsSvc,
		historyRepo:  historyRepo,
		checkers:     checkers,
	}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(r.checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/sessions", r.wrap(r.handleCreateSession))
		rt.Get("/sessions/{sid}", r.wrap(r.handleGetSession))

		rt.Post("/sessions/{sid}/documents/{kind}", r.wrap(r.handleUpload))
		rt.Post("/sessions/{sid}/analyses/{kind}", r.wrap(r.handleAnalyze))
		rt.Get("/sessions/{sid}/analyses/{kind}/citations", r.wrap(r.handleSegments))
		rt.Post("/sessions/{sid}/letters/{kind}", r.wrap(r.handleLetter))

		rt.Post("/sessions/{sid}/collector/suggest", r.wrap(r.handleSuggest))
		rt.Post("/sessions/{sid}/collector/entries", r.wrap(r.handleAddEntry))
		rt.Get("/sessions/{sid}/collector/entries", r.wrap(r.handleEntries))

		rt.Get("/sessions/{sid}/resources", r.wrap(r.handleResources))
		rt.Post("/sessions/{sid}/resources", r.wrap(r.handleAddResource))

		rt.Post("/sessions/{sid}/citations/{id}/explain", r.wrap(r.handleExplain))

		rt.Get("/history", r.wrap(r.handleHistory))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, domain.ErrBusy):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, domain.ErrMissingInput),
				errors.Is(err, documents.ErrUnknownKind),
				errors.Is(err, documents.ErrUnsupportedType),
				errors.Is(err, documents.ErrEmptyFile),
				errors.Is(err, domcollector.ErrMissingField),
				errors.Is(err, domresources.ErrMissingField):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, domai.ErrUnavailable):
				http.Error(w, "the AI service could not complete the request, please try again", http.StatusBadGateway)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/sessions
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
	sess := r.sessionsSvc.Create()
	return writeJSON(w, http.StatusCreated, map[string]any{
		"id":         sess.ID,
		"created_at": sess.CreatedAt,
	})
}

// GET /v1/sessions/{sid}
func (r *Router) handleGetSession(w http.ResponseWriter, req *http.Request) error {
	sess, err := r.sessionsSvc.Get(chi.URLParam(req, "sid"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess.Snapshot())
}

// POST /v1/sessions/{sid}/documents/{kind}
// multipart form, field "file"; the part's declared Content-Type is
// validated against the allow-list before anything else happens.
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	sid := chi.URLParam(req, "sid")
	kind := chi.URLParam(req, "kind")

	file, header, err := req.FormFile("file")
	if err != nil {
		return errors.Join(domain.ErrMissingInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	doc, err := r.analysisSvc.Upload(req.Context(), sid, kind, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		middleware.IncrementUploadsRejected()
		return err
	}

	middleware.IncrementUploads()
	return writeJSON(w, http.StatusCreated, map[string]any{
		"name":        doc.Name,
		"mime_type":   doc.MimeType,
		"size":        len(doc.Data),
		"uploaded_at": doc.UploadedAt,
		"archive_url": doc.ArchiveURL,
	})
}

// POST /v1/sessions/{sid}/analyses/{kind}
// Body: {"details": "<optional free text>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	sid := chi.URLParam(req, "sid")
	kind := chi.URLParam(req, "kind")

	var body struct {
		Details string `json:"details"`
	}
	if req.Body != nil && req.ContentLength != 0 {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return err
		}
	}

	middleware.IncrementAIActions()
	view, err := r.analysisSvc.Analyze(req.Context(), sid, kind, body.Details)
	if err != nil {
		middleware.IncrementAIActionsFailed()
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /v1/sessions/{sid}/analyses/{kind}/citations
func (r *Router) handleSegments(w http.ResponseWriter, req *http.Request) error {
	segments, err := r.citationsSvc.Segments(chi.URLParam(req, "sid"), chi.URLParam(req, "kind"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"segments": segments})
}

// POST /v1/sessions/{sid}/letters/{kind}
func (r *Router) handleLetter(w http.ResponseWriter, req *http.Request) error {
	middleware.IncrementAIActions()
	view, err := r.analysisSvc.Letter(req.Context(), chi.URLParam(req, "sid"), chi.URLParam(req, "kind"))
	if err != nil {
		middleware.IncrementAIActionsFailed()
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// POST /v1/sessions/{sid}/collector/suggest
func (r *Router) handleSuggest(w http.ResponseWriter, req *http.Request) error {
	var draft domcollector.Draft
	if err := json.NewDecoder(req.Body).Decode(&draft); err != nil {
		return err
	}

	middleware.IncrementAIActions()
	view, err := r.collectorSvc.Suggest(req.Context(), chi.URLParam(req, "sid"), draft)
	if err != nil {
		middleware.IncrementAIActionsFailed()
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// POST /v1/sessions/{sid}/collector/entries
func (r *Router) handleAddEntry(w http.ResponseWriter, req *http.Request) error {
	var draft domcollector.Draft
	if err := json.NewDecoder(req.Body).Decode(&draft); err != nil {
		return err
	}

	entry, err := r.collectorSvc.AddEntry(chi.URLParam(req, "sid"), draft)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, entry)
}

// GET /v1/sessions/{sid}/collector/entries
func (r *Router) handleEntries(w http.ResponseWriter, req *http.Request) error {
	entries, err := r.collectorSvc.Entries(chi.URLParam(req, "sid"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// GET /v1/sessions/{sid}/resources?q=
func (r *Router) handleResources(w http.ResponseWriter, req *http.Request) error {
	groups, total, err := r.resourcesSvc.List(chi.URLParam(req, "sid"), req.URL.Query().Get("q"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"total":  total,
	})
}

// POST /v1/sessions/{sid}/resources
func (r *Router) handleAddResource(w http.ResponseWriter, req *http.Request) error {
	var res domresources.Resource
	if err := json.NewDecoder(req.Body).Decode(&res); err != nil {
		return err
	}

	if err := r.resourcesSvc.Add(chi.URLParam(req, "sid"), res); err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, res)
}

// POST /v1/sessions/{sid}/citations/{id}/explain
func (r *Router) handleExplain(w http.ResponseWriter, req *http.Request) error {
	result, err := r.citationsSvc.Toggle(req.Context(), chi.URLParam(req, "sid"), chi.URLParam(req, "id"))
	if err != nil {
		if !result.Removed && result.CitationID != "" {
			middleware.IncrementAIActionsFailed()
		}
		return err
	}
	if !result.Removed {
		middleware.IncrementAIActions()
	}
	return writeJSON(w, http.StatusOK, result)
}

// GET /v1/history?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.historyRepo.Paginate(req.Context(), page, size)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domhistory.Record{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"data":     list,
		"page":     page,
		"pageSize": size,
	})
}

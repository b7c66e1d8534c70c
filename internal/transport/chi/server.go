package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	docpatch "github.com/kailas-cloud/piecedex/internal/domain/document/patch"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/piecedex/internal/usecase/health"
	textpieceuc "github.com/kailas-cloud/piecedex/internal/usecase/textpiece"
)

// Path parameter names.
const (
	paramDocumentID   = "document_id"
	paramPieceID      = "piece_id"
	paramCollectionID = "collection_id"
)

// Server serves the piecedex HTTP API.
type Server struct {
	documents     DocumentService
	pieces        TextPieceService
	index         IndexService
	search        SearchService
	health        HealthService
	logger        *zap.Logger
	maxFilters    int
	errorHandlers []errorHandler
}

// Option configures a Server.
type Option func(*Server)

// WithMaxFilters caps the number of filters accepted per search.
func WithMaxFilters(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxFilters = n
		}
	}
}

// NewServer creates an HTTP API server.
func NewServer(
	documents DocumentService,
	pieces TextPieceService,
	index IndexService,
	search SearchService,
	health HealthService,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		documents:     documents,
		pieces:        pieces,
		index:         index,
		search:        search,
		health:        health,
		logger:        logger,
		maxFilters:    request.MaxFilters,
		errorHandlers: defaultErrorHandlers(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.CreateDocument)
		r.Get("/{document_id}", s.GetDocument)
		r.Patch("/{document_id}", s.PatchDocument)
		r.Delete("/{document_id}", s.DeleteDocument)
	})
	r.Route("/text_pieces", func(r chi.Router) {
		r.Post("/", s.CreateTextPiece)
		r.Get("/{piece_id}", s.GetTextPiece)
		r.Patch("/{piece_id}", s.PatchTextPiece)
		r.Delete("/{piece_id}", s.DeleteTextPiece)
	})
	r.Route("/index/{collection_id}", func(r chi.Router) {
		r.Put("/index", s.ReindexCollection)
		r.Post("/search", s.SearchCollection)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Handler returns a router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// CreateDocument handles POST /documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	doc, err := s.documents.Create(r.Context(), req.Name, req.Author)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, documentToResponse(doc))
}

// GetDocument handles GET /documents/{document_id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramDocumentID)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// PatchDocument handles PATCH /documents/{document_id}.
func (s *Server) PatchDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramDocumentID)
	if !ok {
		return
	}
	var req PatchDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := docpatch.New(req.Author)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	doc, err := s.documents.Patch(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// DeleteDocument handles DELETE /documents/{document_id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramDocumentID)
	if !ok {
		return
	}

	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTextPiece handles POST /text_pieces.
func (s *Server) CreateTextPiece(w http.ResponseWriter, r *http.Request) {
	var req CreateTextPieceRequest
	if !s.decode(w, r, &req) {
		return
	}

	tp, err := s.pieces.Create(r.Context(), textpieceuc.CreateInput{
		DocumentName: req.DocumentName,
		Type:         req.Type,
		Page:         req.Page,
		Text:         req.Text,
		MetaData:     req.MetaData,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, textPieceToResponse(tp))
}

// GetTextPiece handles GET /text_pieces/{piece_id}.
func (s *Server) GetTextPiece(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramPieceID)
	if !ok {
		return
	}

	tp, err := s.pieces.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, textPieceToResponse(tp))
}

// PatchTextPiece handles PATCH /text_pieces/{piece_id}.
func (s *Server) PatchTextPiece(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramPieceID)
	if !ok {
		return
	}
	var req PatchTextPieceRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := patchFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	tp, err := s.pieces.Patch(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, textPieceToResponse(tp))
}

// DeleteTextPiece handles DELETE /text_pieces/{piece_id}.
func (s *Server) DeleteTextPiece(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramPieceID)
	if !ok {
		return
	}

	if err := s.pieces.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReindexCollection handles PUT /index/{collection_id}/index.
// The collection id is the id of the document whose pieces are indexed.
func (s *Server) ReindexCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramCollectionID)
	if !ok {
		return
	}

	report, err := s.index.IndexDocument(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.logger.Info("collection reindexed",
		zap.Int64("collection_id", id),
		zap.String("run_id", report.RunID),
		zap.Int("cleared", report.Cleared),
		zap.Int("populated", report.Populated),
		zap.Duration("duration", report.Duration),
	)
	w.WriteHeader(http.StatusNoContent)
}

// SearchCollection handles POST /index/{collection_id}/search.
func (s *Server) SearchCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, paramCollectionID)
	if !ok {
		return
	}
	var req SearchRequest
	if !s.decode(w, r, &req) {
		return
	}

	q, err := queryFromRequest(req, s.maxFilters)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), id, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// pathID binds a positive integer path parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter "+name)
		return 0, false
	}
	if id <= 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tavares/listabot/internal/export"
	"github.com/tavares/listabot/internal/service"
)

// Server provides the HTTP JSON API. It is a thin presentation collaborator:
// it parses and validates input, dispatches to the service façade, and
// renders the refreshed data the façade returns.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// Lists
	s.mux.HandleFunc("GET /api/lists", s.handleGetLists)
	s.mux.HandleFunc("POST /api/lists", s.handleCreateList)
	s.mux.HandleFunc("POST /api/lists/{id}/delete", s.handleRequestDeleteList)
	s.mux.HandleFunc("PUT /api/lists/{id}/selected", s.handleToggleSelection)

	// Items
	s.mux.HandleFunc("GET /api/lists/{id}/items", s.handleGetItems)
	s.mux.HandleFunc("POST /api/lists/{id}/items", s.handleAddItem)
	s.mux.HandleFunc("PUT /api/items/{id}/purchased", s.handleToggleItem)
	s.mux.HandleFunc("POST /api/items/{id}/delete", s.handleRequestDeleteItem)

	// Deletion confirmations
	s.mux.HandleFunc("POST /api/confirmations/{token}/confirm", s.handleConfirmDelete)
	s.mux.HandleFunc("POST /api/confirmations/{token}/cancel", s.handleCancelDelete)

	// Selection & export
	s.mux.HandleFunc("GET /api/selection", s.handleGetSelection)
	s.mux.HandleFunc("POST /api/export", s.handleExport)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// pathToken extracts the {token} path value as a confirmation token.
func pathToken(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("token"))
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

type createListRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.ListsView(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		s.logger.WithError(err).Error("failed to get lists")
		s.respondError(w, http.StatusInternalServerError, "failed to get lists")
		return
	}

	s.respondJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.svc.CreateList(r.Context(), name)
	if err != nil {
		s.logger.WithError(err).Error("failed to create list")
		s.respondError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleRequestDeleteList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	s.respondJSON(w, http.StatusOK, s.svc.RequestDeleteList(id))
}

type toggleSelectionRequest struct {
	Selected bool `json:"selected"`
}

func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var req toggleSelectionRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	s.svc.ToggleSelection(id, req.Selected)
	s.respondJSON(w, http.StatusOK, map[string][]int64{"selected": s.svc.SelectedLists()})
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

type addItemRequest struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	view, err := s.svc.ItemsView(r.Context(), id, r.URL.Query().Get("filter"))
	if err != nil {
		s.logger.WithError(err).Error("failed to get items")
		s.respondError(w, http.StatusInternalServerError, "failed to get items")
		return
	}

	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var req addItemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	// Validation lives at the presentation boundary, the storage layer
	// persists what it is given.
	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity <= 0 {
		s.respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if req.UnitPrice <= 0 {
		s.respondError(w, http.StatusBadRequest, "unit_price must be positive")
		return
	}

	view, err := s.svc.AddItem(r.Context(), id, strings.TrimSpace(req.Name), req.Quantity, req.UnitPrice)
	if err != nil {
		s.logger.WithError(err).Error("failed to add item")
		s.respondError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	s.respondJSON(w, http.StatusCreated, view)
}

type toggleItemRequest struct {
	Purchased bool `json:"purchased"`
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var req toggleItemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	view, err := s.svc.ToggleItem(r.Context(), id, req.Purchased)
	if err != nil {
		s.logger.WithError(err).Error("failed to toggle item")
		s.respondError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}

	if view == nil {
		s.respondJSON(w, http.StatusNoContent, nil)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRequestDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	s.respondJSON(w, http.StatusOK, s.svc.RequestDeleteItem(id))
}

// ---------------------------------------------------------------------------
// Deletion confirmations
// ---------------------------------------------------------------------------

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	token, err := pathToken(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid confirmation token")
		return
	}

	if err := s.svc.ConfirmDelete(r.Context(), token); err != nil {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	token, err := pathToken(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid confirmation token")
		return
	}

	if !s.svc.CancelDelete(token) {
		s.respondError(w, http.StatusConflict, "unknown or already handled confirmation token")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

// ---------------------------------------------------------------------------
// Selection & export
// ---------------------------------------------------------------------------

type exportRequest struct {
	IDs    []int64 `json:"ids"`
	Format string  `json:"format"`
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]int64{"selected": s.svc.SelectedLists()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids := req.IDs
	if len(ids) == 0 {
		var hasSelection bool
		if ids, hasSelection = s.svc.ExportSelected(); !hasSelection {
			s.respondError(w, http.StatusBadRequest, "no lists selected for export")
			return
		}
	}

	result := s.svc.Export(r.Context(), ids, format)
	if !result.OK {
		s.respondJSON(w, http.StatusInternalServerError, result)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

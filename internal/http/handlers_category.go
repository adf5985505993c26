package http

import (
	"log/slog"
	"net/http"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	typ, err := parseCategoryType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := "all"
	if typ != "" {
		filter = string(typ)
	}

	page := parsePage(r)
	key := listKey(core.ResourceCategory, owner, page, filter)

	if cached, found := s.categoryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Category listing cache hit",
			applog.FieldOwnerID, owner, applog.FieldPage, page.Page, applog.FieldPageSize, page.PageSize)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.svc.Categories.List(r.Context(), owner, page, typ)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.categoryCache.Set(key, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpsertCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var in core.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}

	category, found, err := s.svc.Categories.Upsert(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceCategory, owner)
	status := http.StatusOK
	if in.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := s.svc.Categories.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceCategory, owner)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	page := parsePage(r)
	key := listKey(core.ResourceBudget, owner, page)

	if cached, found := s.budgetCache.Get(key); found {
		slog.DebugContext(r.Context(), "Budget listing cache hit",
			applog.FieldOwnerID, owner, applog.FieldPage, page.Page, applog.FieldPageSize, page.PageSize)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.svc.Budgets.List(r.Context(), owner, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.budgetCache.Set(key, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var in core.BudgetInput
	if !decodeBody(w, r, &in) {
		return
	}

	budget, found, err := s.svc.Budgets.Upsert(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceBudget, owner)
	status := http.StatusOK
	if in.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := s.svc.Budgets.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceBudget, owner)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleDuplicateBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	budget, found, err := s.svc.Budgets.Duplicate(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceBudget, owner)
	writeJSON(w, http.StatusCreated, budget)
}

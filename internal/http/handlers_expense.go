package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	dr, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dr = dr.OrDefault(time.Now())

	page := parsePage(r)
	key := listKey(core.ResourceExpense, owner, page, rangeKey(dr))

	if cached, found := s.expenseCache.Get(key); found {
		slog.DebugContext(r.Context(), "Expense listing cache hit",
			applog.FieldOwnerID, owner, applog.FieldPage, page.Page, applog.FieldPageSize, page.PageSize)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.svc.Expenses.List(r.Context(), owner, page, dr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.expenseCache.Set(key, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpsertExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var in core.ExpenseInput
	if !decodeBody(w, r, &in) {
		return
	}

	expense, found, err := s.svc.Expenses.Upsert(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceExpense, owner)
	status := http.StatusOK
	if in.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := s.svc.Expenses.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceExpense, owner)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleDuplicateExpense(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	expense, found, err := s.svc.Expenses.Duplicate(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceExpense, owner)
	writeJSON(w, http.StatusCreated, expense)
}

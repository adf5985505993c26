package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
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
	key := listKey(core.ResourceIncome, owner, page, rangeKey(dr))

	if cached, found := s.incomeCache.Get(key); found {
		slog.DebugContext(r.Context(), "Income listing cache hit",
			applog.FieldOwnerID, owner, applog.FieldPage, page.Page, applog.FieldPageSize, page.PageSize)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.svc.Incomes.List(r.Context(), owner, page, dr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.incomeCache.Set(key, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpsertIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var in core.IncomeInput
	if !decodeBody(w, r, &in) {
		return
	}

	income, found, err := s.svc.Incomes.Upsert(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceIncome, owner)
	status := http.StatusOK
	if in.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, income)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := s.svc.Incomes.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceIncome, owner)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleDuplicateIncome(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	income, found, err := s.svc.Incomes.Duplicate(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceIncome, owner)
	writeJSON(w, http.StatusCreated, income)
}

package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	purchased, err := parsePurchased(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := "all"
	if purchased != nil {
		filter = strconv.FormatBool(*purchased)
	}

	page := parsePage(r)
	key := listKey(core.ResourceWishlist, owner, page, filter)

	if cached, found := s.wishlistCache.Get(key); found {
		slog.DebugContext(r.Context(), "Wishlist listing cache hit",
			applog.FieldOwnerID, owner, applog.FieldPage, page.Page, applog.FieldPageSize, page.PageSize)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.svc.Wishlist.List(r.Context(), owner, page, purchased)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.wishlistCache.Set(key, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpsertWishlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var in core.WishlistInput
	if !decodeBody(w, r, &in) {
		return
	}

	item, found, err := s.svc.Wishlist.Upsert(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceWishlist, owner)
	status := http.StatusOK
	if in.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, item)
}

func (s *Server) handleDeleteWishlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	deleted, err := s.svc.Wishlist.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceWishlist, owner)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleDuplicateWishlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	item, found, err := s.svc.Wishlist.Duplicate(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceWishlist, owner)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var body struct {
		Purchased bool `json:"purchased"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	toggled, err := s.svc.Wishlist.TogglePurchased(r.Context(), owner, r.PathValue("id"), body.Purchased)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !toggled {
		writeNotFound(w)
		return
	}

	s.InvalidateResource(core.ResourceWishlist, owner)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

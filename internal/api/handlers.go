package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// pageName extracts the page name from the URL (everything after
// /api/pages/). Page names may contain slashes; encoded slashes from
// clients (e.g. projects%2Fansuz) are supported too.
func pageName(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, _ *http.Request) {
	pages, err := h.svc.PageList()
	if err != nil {
		slog.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: pages, Total: len(pages)})
}

// GetPage handles GET /api/pages/* and GET /api/pages/*/backlinks.
// Because page names themselves contain slashes, the backlinks form is
// recognized by suffix; a page literally named "<x>/backlinks" is
// shadowed by its parent's backlinks view.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	name := pageName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("page name is required"))
		return
	}
	if target, ok := strings.CutSuffix(name, "/backlinks"); ok {
		h.backlinks(w, target)
		return
	}

	page, err := h.svc.Page(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get page failed", slog.String("page", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) backlinks(w http.ResponseWriter, name string) {
	resp, err := h.svc.Backlinks(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("backlinks failed", slog.String("page", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Links handles GET /api/links.
func (h *Handler) Links(w http.ResponseWriter, _ *http.Request) {
	links, err := h.svc.Links()
	if err != nil {
		slog.Error("links failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, LinksResponse{Links: links, Total: len(links)})
}

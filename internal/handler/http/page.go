package http

import (
	"fmt"
	"io/fs"
	"net/http"
)

// PageHandler serves the HTML pages.
type PageHandler struct {
	index           []byte
	ownerDashboard  []byte
	walkerDashboard []byte
}

// NewPageHandler loads the pages from pages, typically web.Pages.
func NewPageHandler(pages fs.FS) (*PageHandler, error) {
	h := &PageHandler{}
	for name, dst := range map[string]*[]byte{
		"index.html":            &h.index,
		"owner-dashboard.html":  &h.ownerDashboard,
		"walker-dashboard.html": &h.walkerDashboard,
	} {
		b, err := fs.ReadFile(pages, name)
		if err != nil {
			return nil, fmt.Errorf("load page %s: %w", name, err)
		}
		*dst = b
	}
	return h, nil
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, h.index)
}

// OwnerDashboard handles GET /owner-dashboard
func (h *PageHandler) OwnerDashboard(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, h.ownerDashboard)
}

// WalkerDashboard handles GET /walker-dashboard
func (h *PageHandler) WalkerDashboard(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, h.walkerDashboard)
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FrontendHandler serves the static frontend build, falling back to the index
// document for client-side routes.
type FrontendHandler struct {
	staticPath string
	indexPath  string
}

func NewFrontendHandler(staticPath string, indexPath string) *FrontendHandler {
	return &FrontendHandler{staticPath: staticPath, indexPath: indexPath}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticPath, filepath.Clean("/"+strings.TrimPrefix(r.URL.Path, "/")))

	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}

package upstream

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var mimeTypes = map[string]string{
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
}

// NewStatic serves files under dir. Unknown paths get a 404, and
// directories are served through their index.html only.
func NewStatic(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		fullPath := filepath.Join(dir, filepath.FromSlash(name))

		info, err := os.Stat(fullPath)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if info.IsDir() {
			if _, err := os.Stat(filepath.Join(fullPath, "index.html")); err != nil {
				http.NotFound(w, r)
				return
			}
		}

		if ct, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
			w.Header().Set("Content-Type", ct)
		}
		fs.ServeHTTP(w, r)
	})
}

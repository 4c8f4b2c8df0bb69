package upstream

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewProxy forwards every request to target, joining target's path with
// the inbound one.
func NewProxy(target *url.URL) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("Upstream %s unreachable for %s %s: %v", target.Host, r.Method, r.URL.Path, err)
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		},
	}
}

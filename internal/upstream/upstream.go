// Package upstream builds the handler that authenticated requests are
// forwarded to: a reverse proxy when UPSTREAM_URL is set, otherwise a
// static file tree.
package upstream

import (
	"net/http"

	"authgate/internal/config"
)

func New(cfg *config.Config) (http.Handler, error) {
	target, err := cfg.Upstream()
	if err != nil {
		return nil, err
	}
	if target != nil {
		return NewProxy(target), nil
	}
	return NewStatic(cfg.StaticDir), nil
}

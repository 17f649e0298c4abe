package observability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern keeps metric labels bounded by using the chi pattern
// ("/v1/vendas") instead of the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

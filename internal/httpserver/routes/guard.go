package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/mw"
)

// api restricts r to allowed networks and Host headers.
func api(r chi.Router, d deps.Deps) chi.Router {
	return r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
}

// writes adds the per-client rate limit used by mutating routes.
func writes(r chi.Router, d deps.Deps) chi.Router {
	return api(r, d).With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RatePerMin,
		TrustProxy:        d.TrustProxy,
	}))
}

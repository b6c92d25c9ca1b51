package submissionhandlers

import (
	submissionjwt "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/jwt"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the submission API on r. Only score submission needs a
// player token. The health check bypasses limiter, which may be nil.
func RegisterRoutes(r chi.Router, h Handlers, tokens submissionjwt.Provider, limiter *IPRateLimiter) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(RateLimitMiddleware(limiter))
			}

			r.Get("/leaderboards/seed/{seed}/rank", h.HandleGetRank)

			r.Group(func(r chi.Router) {
				r.Use(BearerAuthMiddleware(tokens))
				r.Post("/scores/submit", h.HandleSubmitScore)
			})
		})
	})
}

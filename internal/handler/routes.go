package handler

import "net/http"

// RouterConfig carries the gateway-level settings that are not owned by a
// single handler.
type RouterConfig struct {
	AdminUsername string
	AdminPassword string
}

// NewRouter assembles the full middleware chain and route table. The rate
// limiter runs first, ahead of routing; the CSRF presence check applies to
// every state-changing method; Basic auth wraps only the admin routes.
func NewRouter(base *Handler, contact *ContactHandler, admin *AdminHandler, rl *RateLimiter, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", base.Health)
	mux.HandleFunc("GET /api/csrf-token", base.CSRFToken)
	mux.HandleFunc("POST /api/contact", contact.Submit)

	adminAuth := BasicAuth(cfg.AdminUsername, cfg.AdminPassword)
	mux.Handle("GET /api/admin/submissions", adminAuth(http.HandlerFunc(admin.List)))
	mux.Handle("PATCH /api/admin/submissions/{id}", adminAuth(http.HandlerFunc(admin.UpdateStatus)))
	mux.Handle("DELETE /api/admin/submissions/{id}", adminAuth(http.HandlerFunc(admin.Delete)))
	mux.Handle("POST /api/admin/reply/{id}", adminAuth(http.HandlerFunc(admin.Reply)))

	var root http.Handler = mux
	root = RequireCSRFToken(root)
	root = base.CORS(root)
	root = RequestLogger(root)
	root = SecurityHeaders(root)
	root = rl.Middleware(root)
	return root
}

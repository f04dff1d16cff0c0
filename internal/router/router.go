package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cyberblog/internal/config"
	"cyberblog/internal/handler"
	"cyberblog/internal/middleware"
	"cyberblog/internal/model"
)

type Handlers struct {
	Health *handler.HealthHandler
	Auth   *handler.AuthHandler
	CSRF   *handler.CSRFHandler
	Post   *handler.PostHandler
	Blog   *handler.BlogHandler
}

// New wires the route tree. Protected routes run the gate in a fixed
// order: rate limit, credential presence/verify, role, CSRF (state-changing
// methods only), then the handler. Public blog reads skip the gate.
func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	csrfMiddleware *middleware.CSRFMiddleware,
	handlers Handlers,
) http.Handler {
	r := chi.NewRouter()

	loginLimiter := middleware.NewRateLimiter(middleware.Policy{
		Window:  cfg.LoginRateWindow,
		Max:     cfg.LoginRateMax,
		Message: "Too many login attempts. Please try again later.",
	})
	adminLimiter := middleware.NewRateLimiter(middleware.Policy{
		Window:  cfg.AdminRateWindow,
		Max:     cfg.AdminRateMax,
		Message: "Too many admin requests. Please slow down.",
	})
	apiLimiter := middleware.NewRateLimiter(middleware.Policy{
		Window:  cfg.APIRateWindow,
		Max:     cfg.APIRateMax,
		Message: "Too many API requests. Please slow down.",
	})

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", handlers.Health.Check)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/blog", func(blog chi.Router) {
			blog.Get("/posts", handlers.Blog.List)
			blog.Get("/posts/{slug}", handlers.Blog.GetBySlug)
			blog.Get("/tags/{tag}", handlers.Blog.ListByTag)
			blog.Get("/search", handlers.Blog.Search)
		})

		api.With(loginLimiter.Handler).Post("/auth/login", handlers.Auth.Login)
		api.With(apiLimiter.Handler).Post("/auth/logout", handlers.Auth.Logout)

		api.With(
			apiLimiter.Handler,
			authMiddleware.RequireAuth,
			authMiddleware.RequireRoles(model.RoleAdmin),
		).Get("/csrf", handlers.CSRF.Issue)

		api.Route("/admin/posts", func(admin chi.Router) {
			admin.Use(adminLimiter.Handler)
			admin.Use(authMiddleware.RequireAuth)
			admin.Use(authMiddleware.RequireRoles(model.RoleAdmin))
			admin.Use(csrfMiddleware.Guard)

			admin.Get("/", handlers.Post.List)
			admin.Post("/", handlers.Post.Create)
			admin.Get("/{id}", handlers.Post.Get)
			admin.Patch("/{id}", handlers.Post.Update)
			admin.Delete("/{id}", handlers.Post.Delete)
		})
	})

	return r
}

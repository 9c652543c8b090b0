package routes

import (
	"fmt"
	"net/http"

	"recipebox/auth"
	"recipebox/metrics"
	"recipebox/middleware"
	"recipebox/profile"
	"recipebox/ratelim"
	"recipebox/recipes"
	"recipebox/saved"

	"github.com/julienschmidt/httprouter"
)

// Deps are the handlers and middleware the router mounts.
type Deps struct {
	Auth     *auth.Handlers
	Profile  *profile.Handlers
	Saved    *saved.Handlers
	Recipes  *recipes.Handlers
	Resolver *middleware.Resolver
	// RateLimiter guards /register and /login when set.
	RateLimiter *ratelim.RateLimiter

	UploadDir          string
	LegacyProfileRoute bool
}

func handle(router *httprouter.Router, method, path string, h httprouter.Handle) {
	router.Handle(method, path, metrics.Instrument(path, h))
}

func (d Deps) limited(h httprouter.Handle) httprouter.Handle {
	if d.RateLimiter == nil {
		return h
	}
	return d.RateLimiter.Limit(h)
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	handle(router, http.MethodPost, "/register", d.limited(d.Auth.Register))
	handle(router, http.MethodPost, "/login", d.limited(d.Auth.Login))
	handle(router, http.MethodPost, "/logout", d.Auth.Logout)
	handle(router, http.MethodGet, "/current-user", d.Resolver.OptionalAuth(d.Auth.CurrentUser))
}

func AddProfileRoutes(router *httprouter.Router, d Deps) {
	handle(router, http.MethodGet, "/profile", d.Resolver.Authenticate(d.Profile.GetProfile))
	handle(router, http.MethodPost, "/profile/update", d.Resolver.Authenticate(d.Profile.UpdateProfile))
	if d.LegacyProfileRoute {
		handle(router, http.MethodGet, "/profile/:email", d.Profile.ByEmail)
	}
}

func AddSavedRoutes(router *httprouter.Router, d Deps) {
	handle(router, http.MethodPost, "/save", d.Resolver.Authenticate(d.Saved.Save))
	handle(router, http.MethodGet, "/saved", d.Resolver.Authenticate(d.Saved.List))
	handle(router, http.MethodDelete, "/saved", d.Resolver.Authenticate(d.Saved.Remove))
	handle(router, http.MethodGet, "/saved/export", d.Resolver.Authenticate(d.Saved.Export))
}

func AddRecipeRoutes(router *httprouter.Router, d Deps) {
	handle(router, http.MethodGet, "/recipes", d.Recipes.Search)
}

func AddStaticRoutes(router *httprouter.Router, d Deps) {
	if d.UploadDir != "" {
		router.ServeFiles("/uploads/*filepath", http.Dir(d.UploadDir))
	}
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

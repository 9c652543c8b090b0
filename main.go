package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipebox/accounts"
	"recipebox/auth"
	"recipebox/config"
	"recipebox/db"
	"recipebox/filemgr"
	"recipebox/middleware"
	"recipebox/profile"
	"recipebox/ratelim"
	"recipebox/rdx"
	"recipebox/recipes"
	"recipebox/routes"
	"recipebox/saved"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

// openStore connects the configured account store. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (accounts.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		conn, err := db.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return accounts.NewPostgresStore(conn), func() { conn.Close() }, nil

	case config.StoreMemory:
		log.Println("Using in-memory account store; data is lost on restart")
		return accounts.NewMemoryStore(), func() {}, nil

	default:
		m, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		store := accounts.NewMongoStore(m.Users)
		if err := store.EnsureIndexes(ctx); err != nil {
			m.Close(context.Background())
			return nil, nil, err
		}
		closeFn := func() {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(cctx); err != nil {
				log.Printf("mongo disconnect: %v", err)
			}
		}
		return store, closeFn, nil
	}
}

func openCache(ctx context.Context, cfg *config.Config) (rdx.Cache, func()) {
	if cfg.RedisAddr == "" {
		return rdx.NewMemoryCache(), func() {}
	}
	c, err := rdx.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Printf("Redis unavailable at %s, caching disabled: %v", cfg.RedisAddr, err)
		return rdx.NopCache{}, func() {}
	}
	return c, func() { c.Close() }
}

func openAvatarStore(ctx context.Context, cfg *config.Config) (filemgr.Store, error) {
	if cfg.AvatarStore == config.AvatarS3 {
		return filemgr.NewS3Store(ctx, filemgr.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	}
	return filemgr.NewLocalStore(cfg.UploadDir), nil
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, closeStore, err := openStore(startCtx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer closeStore()

	cache, closeCache := openCache(startCtx, cfg)
	defer closeCache()

	avatarStore, err := openAvatarStore(startCtx, cfg)
	if err != nil {
		return fmt.Errorf("open avatar store: %w", err)
	}

	var tokens *auth.Tokens
	resolver := middleware.NewHeaderResolver(store)
	if cfg.AuthMode == config.AuthToken {
		tokens = auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
		resolver = middleware.NewTokenResolver(store, tokens)
	} else {
		log.Println("AUTH_MODE=header: callers are identified by the X-User-Email header")
	}

	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	router := routes.NewRouter(routes.Deps{
		Auth:               auth.NewHandlers(auth.NewService(store, tokens)),
		Profile:            profile.NewHandlers(profile.NewService(store, filemgr.NewAvatars(avatarStore), cache, cfg.CacheTTL)),
		Saved:              saved.NewHandlers(saved.NewService(store, cfg.RecipePageURL)),
		Recipes:            recipes.NewHandlers(recipes.NewClient(cfg.RecipeAPIURL, cfg.RecipeAPITimeout, cache, cfg.CacheTTL)),
		Resolver:           resolver,
		RateLimiter:        rateLimiter,
		UploadDir:          cfg.UploadDir,
		LegacyProfileRoute: cfg.LegacyProfileRoute,
	})

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-Email"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           loggingMiddleware(securityHeaders(corsHandler)),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Println("Server stopped cleanly")
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}

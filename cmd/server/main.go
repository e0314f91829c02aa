package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/cart"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/wishlist"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("❌ Initialisation logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.JWTSecret == "" {
		zlog.Fatal("❌ JWT_SECRET manquant dans .env")
	}
	if cfg.SessionSecret == "" {
		zlog.Fatal("❌ SESSION_SECRET manquant dans .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conns, err := connect(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Connexion aux bases de données", zap.Error(err))
	}
	defer conns.Close(zlog)

	h, limiter := wire(cfg, conns, zlog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(zlog))

	tmpl, err := handlers.Templates()
	if err != nil {
		zlog.Fatal("❌ Chargement des templates", zap.Error(err))
	}
	r.SetHTMLTemplate(tmpl)

	routes.RegisterRoutes(r, h, routes.Options{
		Auth:         middleware.NewAuth([]byte(cfg.JWTSecret), h.Sessions, zlog),
		Limiter:      limiter,
		APIRateLimit: cfg.APIRateLimit,
		CORSOrigins:  cfg.CORSOrigins,
		CSRF: middleware.CSRFOptions{
			Key:            csrfKey(cfg.CSRFSecret, zlog),
			Secure:         cfg.IsProduction(),
			TrustedOrigins: cfg.CSRFOrigins,
		},
		Log: zlog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zlog.Info("🚀 Serveur storefront lancé", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("❌ Serveur HTTP", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("🛑 Arrêt demandé")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("❌ Arrêt du serveur HTTP", zap.Error(err))
	}
	zlog.Info("👋 Bye")
}

// csrfKey dérive une clé de 32 octets de CSRF_KEY, ou en tire une au hasard.
func csrfKey(secret string, zlog *zap.Logger) []byte {
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		return sum[:]
	}
	zlog.Warn("⚠️ CSRF_KEY absent, clé aléatoire : les formulaires ouverts deviennent invalides au redémarrage")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		zlog.Fatal("❌ Génération de la clé CSRF", zap.Error(err))
	}
	return key
}

// connect ouvre ScyllaDB et Redis (sauf STORE_BACKEND=memory), puis Elasticsearch et MinIO s'ils sont configurés.
func connect(ctx context.Context, cfg config.Config, zlog *zap.Logger) (*database.Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conns := &database.Connections{}
	var err error

	if cfg.StoreBackend != config.BackendMemory {
		if conns.Scylla, err = database.ConnectScylla(ctx, cfg.Scylla, zlog); err != nil {
			return nil, err
		}
		if conns.Redis, err = database.ConnectRedis(ctx, cfg.Redis, zlog); err != nil {
			conns.Close(zlog)
			return nil, err
		}
	}

	if cfg.Elastic.URL != "" {
		if conns.Elastic, err = database.ConnectElastic(cfg.Elastic, zlog); err != nil {
			conns.Close(zlog)
			return nil, err
		}
	} else {
		zlog.Warn("⚠️ ELASTIC_URL absent, recherche par nom uniquement")
	}

	if cfg.MinIO.Endpoint != "" {
		if conns.MinIO, err = database.ConnectMinIO(ctx, cfg.MinIO, zlog); err != nil {
			conns.Close(zlog)
			return nil, err
		}
	} else {
		zlog.Warn("⚠️ MINIO_ENDPOINT absent, upload d'images désactivé")
	}

	return conns, nil
}

func wire(cfg config.Config, conns *database.Connections, zlog *zap.Logger) (*handlers.Handler, middleware.Limiter) {
	var (
		catalogRepo  catalog.Repository
		cartRepo     cart.Repository
		wishlistRepo wishlist.Repository
		users        auth.UserRepository
		trail        *audit.Trail
		limiter      middleware.Limiter
		checks       = map[string]func(context.Context) error{}
	)

	if conns.Scylla == nil {
		store := repository.NewMemoryStore()
		catalogRepo, cartRepo, wishlistRepo, users = store, store, store, store
		trail = audit.NewTrail(store, zlog)
		zlog.Warn("⚠️ STORE_BACKEND=memory, les données sont perdues à l'arrêt")
	} else {
		store := repository.NewScylla(conns.Scylla)
		catalogRepo, cartRepo, wishlistRepo, users = store, store, store, store
		trail = audit.NewTrail(store, zlog)
		checks["scylla"] = func(ctx context.Context) error {
			return conns.Scylla.Query("SELECT now() FROM system.local").WithContext(ctx).Exec()
		}
	}

	if conns.Redis != nil {
		catalogRepo = cache.NewCatalog(catalogRepo, conns.Redis, zlog)
		wishlistRepo = cache.NewWishlist(wishlistRepo, conns.Redis, zlog)
		limiter = cache.NewRateLimiter(conns.Redis)
		if cfg.CartBackend == config.BackendRedis {
			cartRepo = repository.NewRedisCart(conns.Redis)
			zlog.Info("🛒 Paniers stockés dans Redis")
		}
		checks["redis"] = func(ctx context.Context) error { return conns.Redis.Ping(ctx).Err() }
	}

	opts := catalog.Options{MaxConcurrent: cfg.ShopConcurrency, Logger: zlog}
	if conns.Elastic != nil {
		opts.Index = services.NewProductIndex(conns.Elastic, cfg.Elastic.Index)
	}
	if conns.MinIO != nil {
		opts.Images = services.NewImageStore(conns.MinIO, cfg.MinIO.Bucket)
	}
	catalogSvc := catalog.NewService(catalogRepo, opts)

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))

	h := &handlers.Handler{
		Catalog:  catalogSvc,
		Cart:     cart.NewService(cartRepo, catalogSvc),
		Wishlist: wishlist.NewService(wishlistRepo, catalogSvc),
		Auth: auth.NewService(users, auth.Options{
			Secret:      []byte(cfg.JWTSecret),
			TTL:         cfg.JWTTTL,
			AdminEmails: cfg.AdminEmails,
			Logger:      zlog,
		}),
		Audit:         trail,
		Sessions:      store,
		Log:           zlog,
		Checks:        checks,
		SecureCookies: cfg.IsProduction(),
	}
	return h, limiter
}

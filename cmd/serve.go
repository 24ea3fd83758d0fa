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

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	log.Printf("Redis ping succeeded")

	creds, closeCreds, err := openCredentialRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCreds()

	signer, err := auth.NewJWTSigner(cfg.JWTSecret)
	if err != nil {
		return err
	}
	authService := auth.NewService(
		repository.NewBreakerRepository(creds, repository.BreakerSettings{Name: "credentials"}),
		auth.NewBcryptHasher(cfg.BcryptCost),
		signer,
		auth.NewRedisRevocationList(redisClient),
	)

	products, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer products.Close()

	var pub publisher.OrderPublisher = publisher.LogPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
		log.Printf("Publishing orders to kafka at %v", cfg.KafkaBrokers)
	}

	m := metrics.New()
	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)
	accounts := service.NewAccountService(authService, sessions, m)
	carts := service.NewCartService(sessions, pub, m)
	defer func() {
		carts.Wait()
		if err := pub.Close(); err != nil {
			log.Printf("publisher close error: %v \n", err)
		}
	}()

	router := h.NewRouter(h.RouterConfig{
		Carts:          carts,
		Accounts:       accounts,
		Identities:     accounts,
		Catalog:        catalog.NewService(products, catalog.NewRedisCache(redisClient)),
		Metrics:        m.Handler(),
		RequestTimeout: cfg.RequestTimeout,
		SessionTTL:     cfg.SessionTTL,
		Cookies:        session.CookieOptions{Secure: cfg.CookieSecure},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// openCredentialRepository connects the configured user store and brings its
// schema (postgres) or unique index (mongo) up to date.
func openCredentialRepository(ctx context.Context, cfg *config.Config) (repository.CredentialRepository, func(), error) {
	switch cfg.CredentialStore {
	case "postgres":
		db, err := repository.ConnectPostgres(ctx, &repository.Credentials{
			Host:              cfg.Postgres.Host,
			Port:              cfg.Postgres.Port,
			User:              cfg.Postgres.User,
			Password:          cfg.Postgres.Password,
			DBName:            cfg.Postgres.DBName,
			MigrationsDirPath: cfg.Postgres.Migrations,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgresRepository(db)
		if err := repo.RunMigrations(cfg.Postgres.Migrations); err != nil {
			repo.Close()
			return nil, nil, err
		}
		log.Printf("Connected to Postgres at %s:%d", cfg.Postgres.Host, cfg.Postgres.Port)
		return repo, func() { repo.Close() }, nil
	default:
		mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMongoRepository(mongoDB)
		if err := repo.CreateIndexes(ctx); err != nil {
			mongoDB.Client().Disconnect(ctx)
			return nil, nil, err
		}
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
		return repo, func() { mongoDB.Client().Disconnect(context.Background()) }, nil
	}
}

func openCatalog(cfg *config.Config) (*catalog.Repository, error) {
	repo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		return nil, err
	}
	if err := repo.RunMigrations(cfg.CatalogMigrations); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

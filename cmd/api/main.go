package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Pratham-05/FarmNav-Website-Backend/handlers"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/auth"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/consul"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/notify"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/orders"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/products"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/sessions"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/stores/kafka"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/stores/postgres"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/users"
	"github.com/Pratham-05/FarmNav-Website-Backend/middleware"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/logkey"
)

func main() {
	if err := run(); err != nil {
		slog.Error("service exited", slog.String(logkey.Error, err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	dbCfg := postgres.Config{
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "1234"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Name:     getEnv("DB_NAME", "farmconnect"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	if err := postgres.Migrate(dbCfg); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("database connected", slog.String("database", dbCfg.Name))

	userStore, err := users.NewConf(pool)
	if err != nil {
		return err
	}
	productStore, err := products.NewConf(pool)
	if err != nil {
		return err
	}
	orderStore, err := orders.NewConf(pool, productStore)
	if err != nil {
		return err
	}
	sessionStore, err := sessions.NewConf(pool)
	if err != nil {
		return err
	}

	keys, err := auth.NewKeys(getEnv("SESSION_SECRET", "your-strong-secret-key"))
	if err != nil {
		return err
	}

	var dispatcher notify.Dispatcher
	if host := os.Getenv("SMTP_HOST"); host != "" {
		d, err := notify.NewSMTPDispatcher(notify.SMTPConfig{
			Host:       host,
			Port:       getEnv("SMTP_PORT", "587"),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getEnv("SMTP_FROM", "no-reply@farmnav.in"),
			AdminEmail: getEnv("ADMIN_EMAIL", "farmnav2024@gmail.com"),
		})
		if err != nil {
			return err
		}
		dispatcher = d
	} else {
		slog.Warn("SMTP_HOST not set, order confirmation emails disabled")
	}

	var producer handlers.EventProducer
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		k, err := kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			return err
		}
		defer k.Close()
		producer = k
	}

	m, err := middleware.NewMid(keys, sessionStore)
	if err != nil {
		return err
	}

	h := handlers.NewHandler(userStore, productStore, orderStore, sessionStore,
		dispatcher, producer, pool, keys)

	port, err := strconv.Atoi(getEnv("HTTP_PORT", "5000"))
	if err != nil {
		return err
	}

	if consulAddr := os.Getenv("CONSUL_HTTP_ADDR"); consulAddr != "" {
		client, err := consul.NewClient(consulAddr)
		if err != nil {
			return err
		}
		if err := consul.RegisterService(client, getEnv("SERVICE_ADDRESS", "localhost"), port); err != nil {
			return err
		}
		slog.Info("registered with consul", slog.String("address", consulAddr))
	}

	// Expired sessions are swept hourly, matching the old deployment's
	// prune interval.
	pruneCtx, stopPruner := context.WithCancel(ctx)
	defer stopPruner()
	go pruneSessions(pruneCtx, sessionStore)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: handlers.API(h, m),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-shutdown:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return err
		}
	}
	return nil
}

func pruneSessions(ctx context.Context, store *sessions.Conf) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned, err := store.PruneExpired(ctx)
			if err != nil {
				slog.Error("session pruning failed", slog.String(logkey.Error, err.Error()))
				continue
			}
			if pruned > 0 {
				slog.Info("pruned expired sessions", slog.Int64("count", pruned))
			}
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

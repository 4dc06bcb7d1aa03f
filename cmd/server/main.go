package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taxmantraa/backend/internal/config"
	"github.com/taxmantraa/backend/internal/handler"
	"github.com/taxmantraa/backend/internal/logging"
	"github.com/taxmantraa/backend/internal/notify"
	"github.com/taxmantraa/backend/internal/repository"
	"github.com/taxmantraa/backend/internal/service"
)

// store bundles whichever backend DATABASE_URL selected.
type store struct {
	db        repository.DB
	contacts  repository.ContactRepository
	inquiries repository.ServiceInquiryRepository
	close     func()
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	if cfg.UsesMongo() {
		ms, err := repository.ConnectMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(context.Background())
			return nil, err
		}
		slog.Info("using mongodb backend", "database", cfg.MongoDatabase)
		return &store{
			db:        ms,
			contacts:  repository.NewMongoContactRepository(ms),
			inquiries: repository.NewMongoServiceInquiryRepository(ms),
			close:     func() { _ = ms.Close(context.Background()) },
		}, nil
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("using postgres backend")
	return &store{
		db:        pool,
		contacts:  repository.NewPgContactRepository(pool),
		inquiries: repository.NewPgServiceInquiryRepository(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStore(startCtx, cfg)
	cancelStart()
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer st.close()

	contactService := service.NewContactService(st.contacts)
	inquiryService := service.NewServiceInquiryService(st.inquiries)

	dispatcher := notify.NewDispatcher(cfg.Mail, nil)
	if !dispatcher.Configured() {
		slog.Warn("EMAIL_USER/EMAIL_PASS not set, contact notifications disabled")
	} else if cfg.Mail.Verify {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := dispatcher.Verify(ctx); err != nil {
				slog.Warn("smtp verification failed", "error", err, "reason", notify.Classify(err).Message)
				return
			}
			slog.Info("smtp connection verified", "host", cfg.Mail.Host)
		}()
	}
	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set, admin API disabled")
	}

	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Close()

	router := handler.NewRouter(handler.Routes{
		Core:       handler.New(st.db, cfg.FrontendURL),
		Contacts:   handler.NewContactHandler(contactService, dispatcher),
		Inquiries:  handler.NewServiceInquiryHandler(inquiryService),
		Email:      handler.NewEmailHandler(dispatcher),
		AdminToken: cfg.AdminToken,
		Limiter:    limiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      40 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	// let in-flight notifications finish so their delivery flags get recorded
	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(notify.DefaultTimeout):
		slog.Warn("notification drain timed out")
	}
	slog.Info("server stopped")
}

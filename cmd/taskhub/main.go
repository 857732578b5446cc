package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhub/internal/config"
	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/server"
	"taskhub/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewStore(db)
	userSvc := service.NewUserService(store.Users)
	categorySvc := service.NewCategoryService(store)
	taskSvc := service.NewTaskService(store)
	counter := service.NewCategoryCounter(store.Categories)

	scheduler := service.NewScheduler(time.Local)
	reconcile := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		repaired, err := counter.Reconcile(jobCtx)
		if err != nil {
			log.Printf("reconcile: %v", err)
			return
		}
		if repaired > 0 {
			log.Printf("reconcile: repaired %d category counts", repaired)
		}
	}
	switch {
	case cfg.ReconcileInterval > 0:
		if _, err := scheduler.ScheduleInterval(cfg.ReconcileInterval, reconcile); err != nil {
			log.Fatalf("schedule reconcile: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	case cfg.ReconcileAt != "":
		if _, err := scheduler.ScheduleDaily(cfg.ReconcileAt, reconcile); err != nil {
			log.Fatalf("schedule reconcile: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Token verification is out of scope here: the bearer token is treated
	// as the opaque user identifier and resolved through the identity
	// service. A real token scheme plugs in behind the same resolver.
	resolver := func(ctx context.Context, token string) (*model.User, error) {
		return userSvc.GetByID(ctx, token)
	}

	srv := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     server.New(userSvc, taskSvc, categorySvc, resolver).Routes(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("taskhub listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

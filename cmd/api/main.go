package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tracklog.org/internal/audit"
	"tracklog.org/internal/bus"
	"tracklog.org/internal/config"
	"tracklog.org/internal/dbx"
	"tracklog.org/internal/dbx/edge"
	"tracklog.org/internal/dbx/pg"
	"tracklog.org/internal/httpapi"
	"tracklog.org/internal/mail"
	"tracklog.org/internal/obs"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

var version = "0.3.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("TRACKLOG_COMMIT"))

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		driver dbx.Driver
		ready  func(context.Context) error
	)
	if cfg.PostgresDSN != "" {
		pgDriver, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		driver = pgDriver
		ready = pgDriver.DB().PingContext
	} else {
		edgeDriver := edge.New(cfg.EdgeURL, cfg.EdgeToken)
		driver = edgeDriver
		ready = func(ctx context.Context) error {
			_, err := edgeDriver.Query(ctx, "SELECT 1", nil)
			return err
		}
	}
	defer driver.Close()

	codec, err := token.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	st := store.New(driver)

	var mailer mail.Mailer
	if cfg.MailEndpoint != "" {
		mailer = &mail.HTTPMailer{
			Endpoint:    cfg.MailEndpoint,
			APIKey:      cfg.MailAPIKey,
			From:        cfg.MailFrom,
			FrontendURL: cfg.FrontendURL,
		}
	} else {
		mailer = &mail.LogMailer{FrontendURL: cfg.FrontendURL}
	}

	api := httpapi.New(cfg, codec, st, bus.New(cfg.BusCapacity),
		audit.NewRecorder(st.ActivityLogs), mailer, ready, version)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting tracklog-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}

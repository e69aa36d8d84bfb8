// Command stubserver runs the in-memory telemedicine backend stand-in for
// local development. State lives in memory only and is lost on exit.
package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/telemedhq/telemed/internal/logger"
	"github.com/telemedhq/telemed/internal/stubserver"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	var (
		addr     string
		secret   string
		logLevel string
	)
	flag.StringVar(&addr, "addr", cmp.Or(os.Getenv("STUB_ADDR"), ":8080"), "listen address")
	flag.StringVar(&secret, "secret", cmp.Or(os.Getenv("STUB_SECRET"), "dev-secret"), "token signing secret")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log, err := logger.New(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	srv := &http.Server{
		Addr:    addr,
		Handler: stubserver.New(log, []byte(secret)).Handler(),
	}

	go func() {
		log.Info("starting stub backend", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("stopped")
}

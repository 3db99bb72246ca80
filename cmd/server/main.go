// Package main serves risk predictions from a trained artifact bundle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Lemiti/credit-risk-model/internal/artifact"
	"github.com/Lemiti/credit-risk-model/internal/server"
)

func main() {
	loadEnvFile()

	artifactPath := flag.String("artifact", os.Getenv("MODEL_ARTIFACT"), "Path to model artifact JSON")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *artifactPath == "" {
		logger.Fatal("--artifact is required")
	}

	bundle, err := artifact.Load(*artifactPath)
	if err != nil {
		logger.WithError(err).Fatal("load artifact")
	}
	logger.WithFields(logrus.Fields{
		"model":    bundle.ModelName,
		"artifact": bundle.ArtifactID,
		"features": bundle.FeatureCount(),
		"created":  bundle.CreatedAt,
	}).Info("artifact loaded")

	srv, err := server.New(bundle, log.New(logger.Writer(), "", 0))
	if err != nil {
		logger.WithError(err).Fatal("build server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig.String()).Info("shutting down")
		cancel()
	}()

	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		logger.WithError(err).Fatal("server error")
	}
	logger.Info("shutdown complete")
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

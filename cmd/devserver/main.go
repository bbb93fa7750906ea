package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/flowershop/internal/devserver"
)

func main() {
	addr := getEnv("FLOWERSHOP_DEV_ADDR", ":3000")
	secret := getEnv("FLOWERSHOP_DEV_SECRET", "")

	server, err := devserver.New(devserver.Options{Secret: secret})
	if err != nil {
		log.Fatalf("[DevServer] Failed to initialize: %v", err)
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	go func() {
		log.Println("[DevServer] ========================================")
		log.Printf("[DevServer] Flower shop dev backend on %s", addr)
		log.Printf("[DevServer] Demo login: %s / %s", devserver.DemoEmail, devserver.DemoPassword)
		log.Println("[DevServer] ========================================")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[DevServer] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[DevServer] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

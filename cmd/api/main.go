package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schemabridge/internal/server"
)

func main() {
	srv, err := server.New()
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	go func() {
		srv.Log.Printf("Server listening on %s", srv.HTTP.Addr)
		if err := srv.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("http server error: %s", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	srv.Log.Println("Shutting down server gracefully ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		srv.Log.Println("Server Shutdown:", err)
	}
	srv.Log.Println("Server exiting")
}

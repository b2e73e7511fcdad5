package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhafner/sportmate_api/config"
	deps "github.com/jhafner/sportmate_api/internal/debs"
	api "github.com/jhafner/sportmate_api/internal/http/rest"
	smtp "github.com/jhafner/sportmate_api/util/email"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	deps := deps.New(cfg)

	mailer := smtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	a := &api.API{
		Config: cfg,
		Deps:   deps,
		Mailer: mailer,
		DB:     deps.Pool(),
	}

	// Every messages change addressed to a connected user triggers a
	// fresh server-side recount pushed over the same socket.
	deps.Realtime.UnreadCount = a.CountUnreadRepo
	go deps.Realtime.Run()

	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")

	deps.DB.Close()
	log.Println("Database connections closed.")

	log.Fatal(a.Shutdown())
}

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/crimepatrol/backend/config"
	"github.com/crimepatrol/backend/db"
	"github.com/crimepatrol/backend/mailingservices"
	"github.com/crimepatrol/backend/services"
)

type Server struct {
	Config           *config.Config
	AuthRepository   db.AuthRepository
	AuthService      services.AuthService
	ReportService    services.ReportService
	MediaService     services.MediaService
	EmergencyService services.EmergencyService
	ExportService    services.ExportService
	StationRepo      db.StationRepository
	Mail             *mailingservices.Mailgun
	Hub              *Hub
}

func (s *Server) Start() {
	go s.Hub.Run()

	r := s.setupRouter()
	PORT := fmt.Sprintf(":%s", os.Getenv("PORT"))
	if PORT == ":" {
		if s.Config.Port != 0 {
			PORT = fmt.Sprintf(":%d", s.Config.Port)
		} else {
			PORT = ":8080"
		}
	}
	srv := &http.Server{
		Addr:    PORT,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	log.Printf("server started on %s", PORT)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	log.Println("server exiting")
}

package main

import (
	"log"

	"github.com/crimepatrol/backend/config"
	"github.com/crimepatrol/backend/db"
	"github.com/crimepatrol/backend/mailingservices"
	"github.com/crimepatrol/backend/server"
	"github.com/crimepatrol/backend/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	redisClient := db.GetRedis(conf)

	mail := &mailingservices.Mailgun{}
	mail.Init()

	authRepo := db.NewAuthRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	mediaRepo := db.NewMediaRepo(gormDB)
	emergencyRepo := db.NewEmergencyRepo(gormDB, redisClient)
	stationRepo := db.NewStationRepo(gormDB)

	hub := server.NewHub()
	notifier := services.NewNotificationService(hub, conf.DashboardWebhookURL)

	authService := services.NewAuthService(authRepo, conf, mail)
	reportService := services.NewReportService(reportRepo, notifier)
	mediaService := services.NewMediaService(mediaRepo, conf.MediaBucketName)
	emergencyService := services.NewEmergencyService(emergencyRepo, stationRepo, notifier, mail, conf.DispatchEmail)
	exportService := services.NewExportService(reportRepo)

	s := &server.Server{
		Config:           conf,
		AuthRepository:   authRepo,
		AuthService:      authService,
		ReportService:    reportService,
		MediaService:     mediaService,
		EmergencyService: emergencyService,
		ExportService:    exportService,
		StationRepo:      stationRepo,
		Mail:             mail,
		Hub:              hub,
	}
	s.Start()
}

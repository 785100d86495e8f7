package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/crimepatrol/backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := gin.ReleaseMode
	if s.Config.Debug {
		ginMode = gin.DebugMode
	}
	gin.SetMode(ginMode)

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if s.Config.AccessControlAllowOrigin != "" {
		corsConfig.AllowOrigins = []string{s.Config.AccessControlAllowOrigin}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	s.defineRoutes(r)
	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", s.handleWS())

	apirouter := router.Group("/api/v1")

	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/auth/forgot-password", rateLimiter(5, time.Hour), s.handleForgotPassword())
	apirouter.POST("/auth/reset-password", s.handleResetPassword())

	apirouter.POST("/reports", s.handleCreateReport())
	apirouter.GET("/reports", s.handleListReports())
	apirouter.GET("/reports/markers", s.handleReportMarkers())
	apirouter.GET("/reports/:id", s.handleGetReport())

	apirouter.POST("/media/upload", s.handleUploadMedia())

	apirouter.POST("/emergency/ping", rateLimiter(30, time.Minute), s.handleEmergencyPing())

	apirouter.GET("/stations", s.handleListStations())
	apirouter.GET("/stations/nearest", s.handleNearestStations())
	apirouter.GET("/stations/:id", s.handleGetStation())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.POST("/auth/logout", s.handleLogout())
	authorized.GET("/me", s.handleMe())

	dashboard := authorized.Group("/")
	dashboard.Use(s.RequireRoles(models.RoleAdmin, models.RolePolice, models.RoleResponder))
	dashboard.PATCH("/reports/:id/status", s.handleUpdateReportStatus())
	dashboard.DELETE("/reports/:id", s.handleDeleteReport())
	dashboard.GET("/reports/export", s.handleExportReports())
	dashboard.GET("/reports/stats", s.handleReportStats())
	dashboard.GET("/emergency/pings", s.handleListPings())
	dashboard.PATCH("/emergency/pings/:id/status", s.handleUpdatePingStatus())

	log.Println("routes registered")
}

package services

import (
	"log"
	"time"

	"github.com/crimepatrol/backend/models"
	"github.com/go-resty/resty/v2"
)

// Broadcaster pushes an event to every connected websocket client. The
// hub in the server package implements it.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// NotificationService fans report and emergency events out to the
// dashboard. Delivery is best effort, at most once, and always after the
// authoritative database write.
type NotificationService interface {
	NotifyReportStatus(report *models.Report)
	NotifyEmergencyPing(ping *models.EmergencyPing)
	NotifyEmergencyPingUpdated(ping *models.EmergencyPing)
}

type notificationService struct {
	hub        Broadcaster
	client     *resty.Client
	webhookURL string
}

func NewNotificationService(hub Broadcaster, webhookURL string) NotificationService {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &notificationService{
		hub:        hub,
		client:     client,
		webhookURL: webhookURL,
	}
}

func (n *notificationService) NotifyReportStatus(report *models.Report) {
	if n.hub != nil {
		n.hub.Broadcast("report-status", report)
	}
	n.postWebhook(map[string]interface{}{
		"event":     "report-status",
		"report_id": report.ID,
		"status":    report.Status,
	})
}

func (n *notificationService) NotifyEmergencyPing(ping *models.EmergencyPing) {
	if n.hub != nil {
		n.hub.Broadcast("emergency-ping", ping)
	}
	n.postWebhook(map[string]interface{}{
		"event":   "emergency-ping",
		"ping_id": ping.ID,
		"status":  ping.Status,
	})
}

func (n *notificationService) NotifyEmergencyPingUpdated(ping *models.EmergencyPing) {
	if n.hub != nil {
		n.hub.Broadcast("emergency-ping-updated", ping)
	}
}

func (n *notificationService) postWebhook(payload map[string]interface{}) {
	if n.webhookURL == "" {
		return
	}
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(n.webhookURL)
	if err != nil {
		log.Printf("dashboard webhook failed: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("dashboard webhook returned %d", resp.StatusCode())
	}
}

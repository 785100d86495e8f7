package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type Mailgun struct {
	Client *mailgun.MailgunImpl
	Domain string
	Sender string
}

func (m *Mailgun) Init() {
	domain := os.Getenv("MG_DOMAIN")
	apiKey := os.Getenv("MG_PUBLIC_API_KEY")
	sender := os.Getenv("EMAIL_FROM")
	if domain == "" || apiKey == "" {
		log.Println("mailgun credentials not set, outbound email disabled")
		return
	}
	m.Client = mailgun.NewMailgun(domain, apiKey)
	m.Domain = domain
	m.Sender = sender
}

func (m *Mailgun) send(recipient, subject, body string) error {
	if m.Client == nil {
		return fmt.Errorf("mailgun client not initialised")
	}

	message := m.Client.NewMessage(m.Sender, subject, body, recipient)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	log.Printf("email queued, id: %s", id)
	return nil
}

// SendEmergencyDispatch notifies the dispatch desk of a new emergency ping.
func (m *Mailgun) SendEmergencyDispatch(recipient string, pingID string, lat, lng float64, contact string) error {
	subject := "Emergency ping received"
	body := fmt.Sprintf(
		"An emergency ping was received.\n\nPing ID: %s\nLocation: %f, %f\nEmergency contact: %s\n\nRespond via the dispatch dashboard.",
		pingID, lat, lng, contact,
	)
	return m.send(recipient, subject, body)
}

// SendResetPassword mails a password reset link to the user.
func (m *Mailgun) SendResetPassword(recipient string, link string) error {
	subject := "Reset your password"
	body := fmt.Sprintf("A password reset was requested for your account.\n\nFollow this link to choose a new password:\n%s\n\nThe link expires in 30 minutes. If you did not request this, ignore this email.", link)
	return m.send(recipient, subject, body)
}

// SendWelcome mails new users after signup.
func (m *Mailgun) SendWelcome(recipient string, firstName string) error {
	subject := "Welcome to Crime Patrol"
	body := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now file and track crime reports from the app.", firstName)
	return m.send(recipient, subject, body)
}

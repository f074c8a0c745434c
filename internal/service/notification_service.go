package service

import (
	"context"
	"fmt"
	"time"

	"healthcare-plus-api/config"
	"healthcare-plus-api/internal/domain/entity"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// EmailSender sends a single email. Implementations can be swapped without
// changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}

// SendGridSender sends emails via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender returns nil when no API key is configured, which the
// notification service treats as "notifications disabled".
func NewSendGridSender(cfg config.MailConfig) *SendGridSender {
	if cfg.SendGridAPIKey == "" {
		return nil
	}
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "HealthCare Plus"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	body := msg.Body
	if body == "" {
		body = msg.Subject
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, body, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

// NotificationService sends booking emails to patients. It is strictly
// best-effort: every failure is logged and swallowed, a booking or
// cancellation never fails because mail could not be delivered.
type NotificationService struct {
	sender EmailSender
	log    *logrus.Logger
}

func NewNotificationService(sender EmailSender, log *logrus.Logger) *NotificationService {
	return &NotificationService{
		sender: sender,
		log:    log,
	}
}

const notifyTimeout = 10 * time.Second

// NotifyConfirmation informs the patient that the appointment was booked.
// Intended to be called in a goroutine after the booking committed.
func (s *NotificationService) NotifyConfirmation(appointment *entity.Appointment, email string) {
	s.deliver(appointment, email, "Appointment Confirmation - HealthCare Plus", confirmationHTML(appointment))
}

// NotifyCancellation informs the patient that the appointment was cancelled.
func (s *NotificationService) NotifyCancellation(appointment *entity.Appointment, email string) {
	s.deliver(appointment, email, "Appointment Cancellation - HealthCare Plus", cancellationHTML(appointment))
}

func (s *NotificationService) deliver(appointment *entity.Appointment, email, subject, html string) {
	if s.sender == nil || email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	msg := EmailMessage{
		To:      email,
		ToName:  appointment.PatientName,
		Subject: subject,
		HTML:    html,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		// Never propagated: the booking already committed.
		s.log.Warnf("Failed to send notification email to %s: %+v", email, err)
		return
	}
	s.log.Infof("Notification email sent: to=%s, subject=%q", email, subject)
}

func confirmationHTML(a *entity.Appointment) string {
	return fmt.Sprintf(`<div>
<p>Dear %s,</p>
<p>Your appointment has been successfully scheduled with the following details:</p>
<ul>
<li><strong>Doctor:</strong> %s</li>
<li><strong>Department:</strong> %s</li>
<li><strong>Date:</strong> %s</li>
<li><strong>Time:</strong> %s</li>
</ul>
<p>Please arrive 15 minutes before your scheduled time. If you need to
reschedule, please do so at least 24 hours in advance.</p>
<p>Best regards,<br>HealthCare Plus Team</p>
</div>`, a.PatientName, a.DoctorName, a.Department, a.Date, a.Time)
}

func cancellationHTML(a *entity.Appointment) string {
	return fmt.Sprintf(`<div>
<p>Dear %s,</p>
<p>Your appointment has been cancelled:</p>
<ul>
<li><strong>Doctor:</strong> %s</li>
<li><strong>Department:</strong> %s</li>
<li><strong>Date:</strong> %s</li>
<li><strong>Time:</strong> %s</li>
</ul>
<p>If you would like to reschedule, please visit the patient portal.</p>
<p>Best regards,<br>HealthCare Plus Team</p>
</div>`, a.PatientName, a.DoctorName, a.Department, a.Date, a.Time)
}

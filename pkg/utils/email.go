package utils

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"
	"time"
)

const companyName = "RentMyRide"

const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #1e6fd9; margin: 0;">RentMyRide</h2>
		</div>
`

const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
		</div>
	</div>
</body>
</html>
`

type MailerConfig struct {
	Host     string
	Port     string
	From     string
	Password string
	BaseURL  string
}

// Mailer sends HTML mail over SMTP
type Mailer struct {
	cfg  MailerConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != "" && m.cfg.From != ""
}

func (m *Mailer) sendEmail(to []string, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("email configuration not set")
	}

	var auth smtp.Auth
	if m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	}
	msg := buildMessage(m.cfg.From, to, subject, body)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, to, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", companyName, from),
		"To":           strings.Join(to, ","),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
		"X-Mailer":     "RentMyRide-Mailer",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// BookingEmail holds what the booking mails show
type BookingEmail struct {
	CustomerName string
	Vehicle      string
	StartDate    time.Time
	EndDate      time.Time
	TotalPrice   float64
	BookingID    string
}

func (m *Mailer) SendBookingConfirmedEmail(customerEmail string, b BookingEmail) error {
	subject := "Booking Confirmed - " + companyName
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking Confirmed</h1>
					<p>Hello %s,</p>
					<p>Your booking of the <strong>%s</strong> from <strong>%s</strong> to <strong>%s</strong> has been approved.</p>
					<p>Total: <strong>$%.2f</strong>. Complete the payment to activate the rental.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/bookings/%s" style="background-color: #1e6fd9; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Booking</a>
					</div>
				</div>`+emailFooter,
		b.CustomerName, b.Vehicle, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"),
		b.TotalPrice, m.cfg.BaseURL, b.BookingID)

	return m.sendEmail([]string{customerEmail}, subject, body)
}

func (m *Mailer) SendBookingCancelledEmail(customerEmail string, b BookingEmail) error {
	subject := "Booking Cancelled - " + companyName
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking Cancelled</h1>
					<p>Hello %s,</p>
					<p>Your booking of the <strong>%s</strong> from <strong>%s</strong> to <strong>%s</strong> was cancelled.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/cars" style="background-color: #1e6fd9; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Find Another Car</a>
					</div>
				</div>`+emailFooter,
		b.CustomerName, b.Vehicle, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"),
		m.cfg.BaseURL)

	return m.sendEmail([]string{customerEmail}, subject, body)
}

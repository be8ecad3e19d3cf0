package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		logrus.Warn("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: منصة نائبك <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			logrus.WithError(err).WithField("to", to).Error("failed to send email")
		}
	}()
}

// SendNotificationEmail mirrors an in-app notification to the user's inbox.
func (s *MailService) SendNotificationEmail(email, title, message, complaintRef string) {
	link := ""
	if complaintRef != "" {
		link = fmt.Sprintf(`<p><a href="%s/c/%s">عرض الشكوى</a></p>`, os.Getenv("BASE_URL"), complaintRef)
	}
	body := fmt.Sprintf(`<div dir="rtl"><h3>%s</h3><p>%s</p>%s</div>`, title, message, link)
	s.sendAsync([]string{email}, title, body)
}

// SendWelcomeEmail greets a new account.
func (s *MailService) SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`<div dir="rtl"><h3>أهلاً %s</h3><p>تم إنشاء حسابك على منصة نائبك بنجاح. يمكنك الآن تقديم الشكاوى ومتابعة نوابك.</p></div>`, name)
	s.sendAsync([]string{email}, "مرحباً بك في منصة نائبك", body)
}

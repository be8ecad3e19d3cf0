package services

import (
	"naebak/internal/db"
	"naebak/internal/models"

	"github.com/sirupsen/logrus"
)

// NotifyService persists notifications consumed by the notifications UI.
// Sends are fire-and-forget: a lost notification never fails the workflow
// operation that triggered it.
type NotifyService struct {
	mail *MailService
	log  *logrus.Entry
}

func NewNotifyService(mail *MailService) *NotifyService {
	return &NotifyService{
		mail: mail,
		log:  logrus.WithField("component", "notify"),
	}
}

func (s *NotifyService) Send(userID uint, ntype models.NotificationType, title, message, complaintRef string) {
	go func() {
		n := models.Notification{
			UserID:       userID,
			Type:         ntype,
			Title:        title,
			Message:      message,
			ComplaintRef: complaintRef,
		}
		if err := db.DB.Create(&n).Error; err != nil {
			s.log.WithField("user", userID).WithError(err).Warn("failed to persist notification")
			return
		}

		if s.mail == nil {
			return
		}
		var user models.User
		if err := db.DB.First(&user, userID).Error; err != nil {
			return
		}
		s.mail.SendNotificationEmail(user.Email, title, message, complaintRef)
	}()
}

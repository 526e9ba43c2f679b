// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ecorecettes/pantry-api/internal/apperrors"
	"github.com/ecorecettes/pantry-api/internal/config"
	"github.com/ecorecettes/pantry-api/internal/expiration"
	"github.com/ecorecettes/pantry-api/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, apperrors.Store("list notifications", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return apperrors.Store("mark notification read", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return apperrors.Store("mark all notifications read", err)
	}
	return nil
}

// ScanExpiringProducts walks a user's inventory and records one alert per
// product that is expired or inside the reminder window, skipping products
// already alerted at the same status. It returns the number of new alerts.
func (s *NotificationService) ScanExpiringProducts(ctx context.Context, user *models.User, soonDays int) (int, error) {
	if !user.WantsNotifications() {
		return 0, nil
	}
	if soonDays <= 0 {
		soonDays = s.config.Inventory.ExpiringSoonDays
	}

	now := time.Now()
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expiry_date <= ?", user.ID, now.AddDate(0, 0, soonDays)).
		Order("expiry_date asc").
		Find(&products).Error
	if err != nil {
		return 0, apperrors.Store("scan expiring products", err)
	}

	created := 0
	for _, p := range products {
		c := expiration.Classify(p.ExpiryDate, now)

		var notifType models.NotificationType
		var priority models.NotificationPriority
		var title string
		switch c.Status {
		case expiration.StatusExpired:
			notifType = models.NotificationProductExpired
			priority = models.PriorityHigh
			title = fmt.Sprintf("%s has expired", p.Name)
		case expiration.StatusExpiresToday:
			notifType = models.NotificationProductExpiring
			priority = models.PriorityHigh
			title = fmt.Sprintf("%s expires today", p.Name)
		case expiration.StatusExpiresSoon:
			notifType = models.NotificationProductExpiring
			priority = models.PriorityMedium
			title = fmt.Sprintf("%s expires soon", p.Name)
		default:
			continue
		}

		// One alert per product and status; a rescan must not duplicate,
		// but a product moving from expires-soon to expires-today alerts
		// again.
		var existing int64
		s.db.WithContext(ctx).Model(&models.Notification{}).
			Where("user_id = ? AND type = ? AND data->>'product_id' = ? AND data->>'status' = ?",
				user.ID, notifType, p.ID.String(), string(c.Status)).
			Count(&existing)
		if existing > 0 {
			continue
		}

		notification := &models.Notification{
			UserID:   user.ID,
			Type:     notifType,
			Title:    title,
			Message:  c.Message,
			Priority: priority,
			Data: models.JSONB{
				"product_id":   p.ID.String(),
				"product_name": p.Name,
				"expiry_date":  p.ExpiryDate.Format(time.RFC3339),
				"status":       string(c.Status),
			},
		}
		if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
			logrus.WithError(err).Warn("failed to create expiry notification")
			continue
		}
		created++
	}

	if created > 0 {
		go s.sendExpiryDigestEmail(user, created)
	}

	return created, nil
}

func (s *NotificationService) sendExpiryDigestEmail(user *models.User, alertCount int) {
	tmpl := s.getEmailTemplate("expiry_digest")

	data := map[string]interface{}{
		"DisplayName":  user.DisplayName,
		"AlertCount":   alertCount,
		"InventoryURL": fmt.Sprintf("%s/inventory", s.config.Frontend.BaseURL),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("failed to render expiry digest email")
		return
	}

	if err := s.sendEmail(user.Email, tmpl.Subject, body); err != nil {
		logrus.WithError(err).Error("failed to send expiry digest email")
	}
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if !s.config.Email.Enabled {
		logrus.WithField("to", to).Debug("email sending disabled")
		return nil
	}
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithField("to", to).Infof("Email would be sent: %s", subject)
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"expiry_digest": {
			Subject: "Products in your pantry need attention",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.DisplayName}},</h2>
	<p>{{.AlertCount}} product(s) in your inventory are expired or expiring soon.</p>
	<p>Use them before they go to waste!</p>
	<a href="{{.InventoryURL}}">Open your inventory</a>
	<p>Bon appétit,<br>The EcoRecettes Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}

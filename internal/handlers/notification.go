// internal/handlers/notification.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecorecettes/pantry-api/internal/i18n"
	"github.com/ecorecettes/pantry-api/internal/services"
	"github.com/ecorecettes/pantry-api/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	authService         *services.AuthService
}

func NewNotificationHandler(notificationService *services.NotificationService, authService *services.AuthService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		authService:         authService,
	}
}

// GET /notifications?unread=true
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	unreadOnly := false
	if unreadStr := c.Query("unread"); unreadStr != "" {
		unreadOnly, _ = strconv.ParseBool(unreadStr)
	}

	notifications, err := h.notificationService.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		utils.HandleServiceError(c, "notification", err)
		return
	}

	utils.SuccessResponse(c, notifications)
}

// PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid notification id", nil)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		utils.HandleServiceError(c, "notification", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNotificationRead),
	})
}

// PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, "notification", err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "ok"})
}

// POST /notifications/expiry-scan
// Runs the expiry scan for the calling user and reports how many new alerts
// were created.
func (h *NotificationHandler) ScanExpiringProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.HandleServiceError(c, "user", err)
		return
	}

	days := 0
	if daysStr := c.Query("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil {
			days = parsed
		}
	}

	created, err := h.notificationService.ScanExpiringProducts(c.Request.Context(), user, days)
	if err != nil {
		utils.HandleServiceError(c, "notification", err)
		return
	}

	utils.SuccessResponse(c, gin.H{"created": created})
}

package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lifeconnect/response-engine/internal/domain"
)

type NotificationService interface {
	ListForRecipient(ctx context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{service: service}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService) error {
	h, err := NewNotificationHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/notifications", h.ListNotifications)
	v1.Post("/notifications/:id/read", h.MarkNotificationRead)

	return nil
}

type notificationResponse struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	RecipientID     string    `json:"recipientId"`
	RelatedEntityID string    `json:"relatedEntityId"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	category, err := domain.ParseServiceCategoryFromString(c.Query("category"))
	if err != nil {
		return toHTTPError(err)
	}
	recipientID := strings.TrimSpace(c.Query("recipientId"))

	notifications, err := h.service.ListForRecipient(c.Context(), category, recipientID)
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notificationResponse{
			ID:              n.ID,
			Category:        n.RecipientCategory.String(),
			RecipientID:     n.RecipientID,
			RelatedEntityID: n.RelatedEntityID,
			Title:           n.Title,
			Message:         n.Message,
			Status:          n.Status.String(),
			CreatedAt:       n.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": responses})
}

func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.MarkRead(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notificationId": id,
		"status":         domain.NotificationRead.String(),
	})
}

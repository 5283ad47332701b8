package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/service"
)

type ReportService interface {
	Submit(ctx context.Context, actorID string, report *domain.IncidentReport) (*service.SubmitReportResult, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.IncidentReport, error)
}

type ReportHandler struct {
	service ReportService
}

func NewReportHandler(service ReportService) (*ReportHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("report service is required")
	}
	return &ReportHandler{service: service}, nil
}

func RegisterReportRoutes(router fiber.Router, service ReportService) error {
	h, err := NewReportHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/reports", h.SubmitReport)
	v1.Get("/reports", h.ListReports)

	return nil
}

type submitReportRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description"`
	Contact     string  `json:"contact"`
	ImageRef    string  `json:"imageRef,omitempty"`
}

type categoryCountItem struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type dispatchFailureItem struct {
	Category    string `json:"category"`
	RecipientID string `json:"recipientId"`
	Reason      string `json:"reason"`
}

type dispatchSummaryResponse struct {
	TotalNotified int                   `json:"totalNotified"`
	Counts        []categoryCountItem   `json:"counts"`
	Failures      []dispatchFailureItem `json:"failures,omitempty"`
}

type submitReportResponse struct {
	ReportID string                   `json:"reportId"`
	Summary  *dispatchSummaryResponse `json:"summary,omitempty"`
	Warning  string                   `json:"warning,omitempty"`
}

type reportResponse struct {
	ID          string    `json:"id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Contact     string    `json:"contact"`
	ImageRef    string    `json:"imageRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *ReportHandler) SubmitReport(c *fiber.Ctx) error {
	actorID, err := requestActorID(c)
	if err != nil {
		return toHTTPError(err)
	}

	var req submitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	report := domain.IncidentReport{
		Coordinate:   domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude},
		LocationText: strings.TrimSpace(req.Location),
		Description:  strings.TrimSpace(req.Description),
		Contact:      strings.TrimSpace(req.Contact),
		ImageRef:     strings.TrimSpace(req.ImageRef),
	}

	result, err := h.service.Submit(actorContext(c, actorID), actorID, &report)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(submitReportResponse{
		ReportID: result.ReportID,
		Summary:  toDispatchSummaryResponse(result.Summary),
		Warning:  result.Warning,
	})
}

func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	actorID, err := requestActorID(c)
	if err != nil {
		return toHTTPError(err)
	}

	reports, err := h.service.ListByReporter(c.Context(), actorID)
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, reportResponse{
			ID:          report.ID,
			Latitude:    report.Coordinate.Latitude,
			Longitude:   report.Coordinate.Longitude,
			Location:    report.LocationText,
			Description: report.Description,
			Contact:     report.Contact,
			ImageRef:    report.ImageRef,
			CreatedAt:   report.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": responses})
}

func toDispatchSummaryResponse(summary *domain.DispatchSummary) *dispatchSummaryResponse {
	if summary == nil {
		return nil
	}

	counts := make([]categoryCountItem, 0, len(summary.CountsByCategory))
	for _, category := range domain.ServiceCategories() {
		counts = append(counts, categoryCountItem{
			Category: category.String(),
			Count:    summary.NotifiedInCategory(category),
		})
	}

	failures := make([]dispatchFailureItem, 0, len(summary.Failures))
	for _, failure := range summary.Failures {
		failures = append(failures, dispatchFailureItem{
			Category:    failure.Category.String(),
			RecipientID: failure.RecipientID,
			Reason:      failure.Reason,
		})
	}

	return &dispatchSummaryResponse{
		TotalNotified: summary.TotalNotified,
		Counts:        counts,
		Failures:      failures,
	}
}

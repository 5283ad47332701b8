package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/gateway"
	"github.com/lifeconnect/response-engine/internal/observability"
	"github.com/lifeconnect/response-engine/internal/service"
)

const userIDHeader = "X-User-ID"

type BloodRequestService interface {
	Submit(ctx context.Context, actorID string, req *domain.BloodRequest) (*service.SubmitRequestResult, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error)
	Respond(ctx context.Context, requestID string, accept bool) error
	SendDirectSOS(ctx context.Context, donorID string, requestID string) error
}

type BloodRequestHandler struct {
	service BloodRequestService
}

func NewBloodRequestHandler(service BloodRequestService) (*BloodRequestHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("blood request service is required")
	}
	return &BloodRequestHandler{service: service}, nil
}

func RegisterBloodRequestRoutes(router fiber.Router, service BloodRequestService) error {
	h, err := NewBloodRequestHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/blood-requests", h.SubmitRequest)
	v1.Get("/blood-requests", h.ListRequests)
	v1.Post("/blood-requests/:id/respond", h.RespondToRequest)
	v1.Post("/blood-requests/sos", h.SendSOS)

	return nil
}

type submitRequestRequest struct {
	BloodType    string `json:"bloodType"`
	UnitsNeeded  int    `json:"unitsNeeded"`
	NeededBy     string `json:"neededBy,omitempty"`
	LocationText string `json:"location"`
}

type donorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BloodType string `json:"bloodType"`
	Contact   string `json:"contact"`
	Location  string `json:"location,omitempty"`
}

type submitRequestResponse struct {
	RequestID     string          `json:"requestId"`
	Status        string          `json:"status"`
	MatchedDonors []donorResponse `json:"matchedDonors"`
}

type bloodRequestResponse struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requesterId"`
	BloodType   string    `json:"bloodType"`
	UnitsNeeded int       `json:"unitsNeeded"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

type sosRequest struct {
	DonorID   string `json:"donorId"`
	RequestID string `json:"requestId"`
}

func (h *BloodRequestHandler) SubmitRequest(c *fiber.Ctx) error {
	actorID, err := requestActorID(c)
	if err != nil {
		return toHTTPError(err)
	}

	var req submitRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	bloodType, err := domain.ParseBloodTypeFromString(req.BloodType)
	if err != nil {
		return toHTTPError(err)
	}

	domainReq := domain.BloodRequest{
		BloodType:    bloodType,
		UnitsNeeded:  req.UnitsNeeded,
		LocationText: strings.TrimSpace(req.LocationText),
	}
	if trimmed := strings.TrimSpace(req.NeededBy); trimmed != "" {
		neededBy, err := time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return toHTTPError(fmt.Errorf("%w: neededBy must be RFC3339", domain.ErrValidation))
		}
		domainReq.NeededBy = neededBy
	}

	result, err := h.service.Submit(actorContext(c, actorID), actorID, &domainReq)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(submitRequestResponse{
		RequestID:     result.RequestID,
		Status:        domain.RequestStatusPending.String(),
		MatchedDonors: toDonorResponses(result.MatchedDonors),
	})
}

func (h *BloodRequestHandler) ListRequests(c *fiber.Ctx) error {
	status := domain.RequestStatusPending
	if rawStatus := strings.TrimSpace(c.Query("status")); rawStatus != "" {
		parsed, err := domain.ParseRequestStatusFromString(rawStatus)
		if err != nil {
			return toHTTPError(err)
		}
		status = parsed
	}

	requests, err := h.service.ListByStatus(c.Context(), status)
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]bloodRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, bloodRequestResponse{
			ID:          req.ID,
			RequesterID: req.RequesterID,
			BloodType:   req.BloodType.String(),
			UnitsNeeded: req.UnitsNeeded,
			Location:    req.LocationText,
			Status:      req.Status.String(),
			CreatedAt:   req.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": responses})
}

func (h *BloodRequestHandler) RespondToRequest(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	var req respondRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Respond(c.Context(), id, req.Accept); err != nil {
		return toHTTPError(err)
	}

	status := domain.RequestStatusDeclined
	if req.Accept {
		status = domain.RequestStatusAccepted
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"requestId": id,
		"status":    status.String(),
	})
}

func (h *BloodRequestHandler) SendSOS(c *fiber.Ctx) error {
	actorID, err := requestActorID(c)
	if err != nil {
		return toHTTPError(err)
	}

	var req sosRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SendDirectSOS(actorContext(c, actorID), req.DonorID, req.RequestID); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"donorId": strings.TrimSpace(req.DonorID),
		"sent":    true,
	})
}

func toDonorResponses(donors []domain.Donor) []donorResponse {
	responses := make([]donorResponse, 0, len(donors))
	for _, donor := range donors {
		responses = append(responses, donorResponse{
			ID:        donor.ID,
			Name:      donor.Name,
			BloodType: donor.BloodType.String(),
			Contact:   donor.Contact,
			Location:  donor.LocationText,
		})
	}
	return responses
}

func requestActorID(c *fiber.Ctx) (string, error) {
	actorID := strings.TrimSpace(c.Get(userIDHeader))
	if actorID == "" {
		return "", fmt.Errorf("%w: %s header is required", domain.ErrValidation, userIDHeader)
	}
	return actorID, nil
}

func actorContext(c *fiber.Ctx, actorID string) context.Context {
	return observability.WithActorID(c.Context(), actorID)
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case gateway.IsTransient(err):
		// The SMS gateway hiccuped; the same send may work on a retry.
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return err
	}
}

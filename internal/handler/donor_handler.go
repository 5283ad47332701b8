package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lifeconnect/response-engine/internal/domain"
)

type DonorService interface {
	Register(ctx context.Context, donor *domain.Donor) (*domain.Donor, error)
	List(ctx context.Context) ([]domain.Donor, error)
}

type DonorHandler struct {
	service DonorService
}

func NewDonorHandler(service DonorService) (*DonorHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("donor service is required")
	}
	return &DonorHandler{service: service}, nil
}

func RegisterDonorRoutes(router fiber.Router, service DonorService) error {
	h, err := NewDonorHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/donors", h.RegisterDonor)
	v1.Get("/donors", h.ListDonors)

	return nil
}

type registerDonorRequest struct {
	Name      string `json:"name"`
	BloodType string `json:"bloodType"`
	Contact   string `json:"contact"`
	Location  string `json:"location,omitempty"`
}

func (h *DonorHandler) RegisterDonor(c *fiber.Ctx) error {
	var req registerDonorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	bloodType, err := domain.ParseBloodTypeFromString(req.BloodType)
	if err != nil {
		return toHTTPError(err)
	}

	donor, err := h.service.Register(c.Context(), &domain.Donor{
		Name:         strings.TrimSpace(req.Name),
		BloodType:    bloodType,
		Contact:      strings.TrimSpace(req.Contact),
		LocationText: strings.TrimSpace(req.Location),
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(donorResponse{
		ID:        donor.ID,
		Name:      donor.Name,
		BloodType: donor.BloodType.String(),
		Contact:   donor.Contact,
		Location:  donor.LocationText,
	})
}

func (h *DonorHandler) ListDonors(c *fiber.Ctx) error {
	donors, err := h.service.List(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": toDonorResponses(donors)})
}

package repository

import (
	"time"

	"github.com/lifeconnect/response-engine/internal/domain"
)

// DonorModel is the persistence model for the blood_donors table.
type DonorModel struct {
	ID           string           `gorm:"type:uuid;primaryKey"`
	Name         string           `gorm:"type:varchar(255);not null"`
	BloodType    domain.BloodType `gorm:"type:varchar(3);not null"`
	Contact      string           `gorm:"type:varchar(32);not null"`
	LocationText string           `gorm:"type:varchar(255)"`
	RegisteredAt time.Time
}

func (DonorModel) TableName() string {
	return "blood_donors"
}

// BloodRequestModel is the persistence model for blood_requests.
type BloodRequestModel struct {
	ID           string               `gorm:"type:uuid;primaryKey"`
	RequesterID  string               `gorm:"type:varchar(255);not null"`
	BloodType    domain.BloodType     `gorm:"type:varchar(3);not null"`
	UnitsNeeded  int                  `gorm:"not null"`
	NeededBy     time.Time            `gorm:"type:timestamptz"`
	LocationText string               `gorm:"type:varchar(255)"`
	Status       domain.RequestStatus `gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time
}

func (BloodRequestModel) TableName() string {
	return "blood_requests"
}

// IncidentReportModel is the persistence model for accident_reports. The
// dispatch outcome columns are written once after the notification fan-out.
type IncidentReportModel struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	ReporterID    string  `gorm:"type:varchar(255);not null"`
	Latitude      float64 `gorm:"not null"`
	Longitude     float64 `gorm:"not null"`
	LocationText  string  `gorm:"type:varchar(255)"`
	Description   string  `gorm:"type:text;not null"`
	Contact       string  `gorm:"type:varchar(32);not null"`
	ImageRef      string  `gorm:"type:varchar(512)"`
	NotifiedCount *int    `gorm:"type:int"`
	FailedCount   *int    `gorm:"type:int"`
	CreatedAt     time.Time
}

func (IncidentReportModel) TableName() string {
	return "accident_reports"
}

// EmergencyServiceModel is the persistence model for emergency_services.
type EmergencyServiceModel struct {
	ID       string                 `gorm:"type:uuid;primaryKey"`
	Category domain.ServiceCategory `gorm:"type:varchar(10);not null"`
	Name     string                 `gorm:"type:varchar(255);not null"`
	Contact  string                 `gorm:"type:varchar(32)"`
	Position string                 `gorm:"type:varchar(64)"`
}

func (EmergencyServiceModel) TableName() string {
	return "emergency_services"
}

// NotificationModel is the persistence model for notifications.
type NotificationModel struct {
	ID                string                    `gorm:"type:uuid;primaryKey"`
	RecipientCategory domain.ServiceCategory    `gorm:"type:varchar(10);not null"`
	RecipientID       string                    `gorm:"type:uuid;not null"`
	RelatedEntityID   string                    `gorm:"type:uuid;not null"`
	Title             string                    `gorm:"type:varchar(255);not null"`
	Message           string                    `gorm:"type:text;not null"`
	Status            domain.NotificationStatus `gorm:"type:varchar(10);not null"`
	CreatedAt         time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func donorModelFromDomain(d *domain.Donor) *DonorModel {
	if d == nil {
		return nil
	}

	return &DonorModel{
		ID:           d.ID,
		Name:         d.Name,
		BloodType:    d.BloodType,
		Contact:      d.Contact,
		LocationText: d.LocationText,
		RegisteredAt: d.RegisteredAt,
	}
}

func donorModelToDomain(m *DonorModel) *domain.Donor {
	if m == nil {
		return nil
	}

	return &domain.Donor{
		ID:           m.ID,
		Name:         m.Name,
		BloodType:    m.BloodType,
		Contact:      m.Contact,
		LocationText: m.LocationText,
		RegisteredAt: m.RegisteredAt,
	}
}

func requestModelFromDomain(r *domain.BloodRequest) *BloodRequestModel {
	if r == nil {
		return nil
	}

	return &BloodRequestModel{
		ID:           r.ID,
		RequesterID:  r.RequesterID,
		BloodType:    r.BloodType,
		UnitsNeeded:  r.UnitsNeeded,
		NeededBy:     r.NeededBy,
		LocationText: r.LocationText,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}

func requestModelToDomain(m *BloodRequestModel) *domain.BloodRequest {
	if m == nil {
		return nil
	}

	return &domain.BloodRequest{
		ID:           m.ID,
		RequesterID:  m.RequesterID,
		BloodType:    m.BloodType,
		UnitsNeeded:  m.UnitsNeeded,
		NeededBy:     m.NeededBy,
		LocationText: m.LocationText,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
	}
}

func reportModelFromDomain(r *domain.IncidentReport) *IncidentReportModel {
	if r == nil {
		return nil
	}

	return &IncidentReportModel{
		ID:           r.ID,
		ReporterID:   r.ReporterID,
		Latitude:     r.Coordinate.Latitude,
		Longitude:    r.Coordinate.Longitude,
		LocationText: r.LocationText,
		Description:  r.Description,
		Contact:      r.Contact,
		ImageRef:     r.ImageRef,
		CreatedAt:    r.CreatedAt,
	}
}

func reportModelToDomain(m *IncidentReportModel) *domain.IncidentReport {
	if m == nil {
		return nil
	}

	return &domain.IncidentReport{
		ID:           m.ID,
		ReporterID:   m.ReporterID,
		Coordinate:   domain.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude},
		LocationText: m.LocationText,
		Description:  m.Description,
		Contact:      m.Contact,
		ImageRef:     m.ImageRef,
		CreatedAt:    m.CreatedAt,
	}
}

func serviceModelToDomain(m *EmergencyServiceModel) *domain.EmergencyService {
	if m == nil {
		return nil
	}

	return &domain.EmergencyService{
		ID:       m.ID,
		Category: m.Category,
		Name:     m.Name,
		Contact:  m.Contact,
		Position: m.Position,
	}
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:                n.ID,
		RecipientCategory: n.RecipientCategory,
		RecipientID:       n.RecipientID,
		RelatedEntityID:   n.RelatedEntityID,
		Title:             n.Title,
		Message:           n.Message,
		Status:            n.Status,
		CreatedAt:         n.CreatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}

	return &domain.Notification{
		ID:                m.ID,
		RecipientCategory: m.RecipientCategory,
		RecipientID:       m.RecipientID,
		RelatedEntityID:   m.RelatedEntityID,
		Title:             m.Title,
		Message:           m.Message,
		Status:            m.Status,
		CreatedAt:         m.CreatedAt,
	}
}

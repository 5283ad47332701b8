package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/lifeconnect/response-engine/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_blood_donors",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.DonorModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE UNIQUE INDEX IF NOT EXISTS idx_blood_donors_contact ON blood_donors (contact)`,
					`CREATE INDEX IF NOT EXISTS idx_blood_donors_blood_type ON blood_donors (blood_type)`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.DonorModel{})
			},
		},
		{
			ID: "000002_create_blood_requests",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.BloodRequestModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_blood_requests_status_created ON blood_requests (status, created_at)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.BloodRequestModel{})
			},
		},
		{
			ID: "000003_create_accident_reports",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.IncidentReportModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_accident_reports_reporter ON accident_reports (reporter_id, created_at)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.IncidentReportModel{})
			},
		},
		{
			ID: "000004_create_emergency_services",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.EmergencyServiceModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_emergency_services_category ON emergency_services (category)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.EmergencyServiceModel{})
			},
		},
		{
			ID: "000005_create_notifications",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.NotificationModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_category, recipient_id, created_at)`,
					`CREATE INDEX IF NOT EXISTS idx_notifications_related_entity ON notifications (related_entity_id)`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.NotificationModel{})
			},
		},
	})

	return m.Migrate()
}

package repository

import (
	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreatmentPlanRepository interface {
	Create(db *gorm.DB, plan *entity.TreatmentPlan) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TreatmentPlan, error)
	FindByPatient(db *gorm.DB, patientID uuid.UUID, status *entity.PlanStatus) ([]entity.TreatmentPlan, error)
	FindByTherapist(db *gorm.DB, therapistID uuid.UUID, status *entity.PlanStatus) ([]entity.TreatmentPlan, error)
	// Update saves plan only while its stored status is still expected.
	Update(db *gorm.DB, plan *entity.TreatmentPlan, expected entity.PlanStatus) (int64, error)
}

package repository

import (
	"errors"

	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type treatmentPlanRepository struct{}

func NewTreatmentPlanRepository() domainRepo.TreatmentPlanRepository {
	return &treatmentPlanRepository{}
}

func (r *treatmentPlanRepository) Create(db *gorm.DB, plan *entity.TreatmentPlan) error {
	return db.Create(plan).Error
}

func (r *treatmentPlanRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TreatmentPlan, error) {
	var plan entity.TreatmentPlan
	err := db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *treatmentPlanRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID, status *entity.PlanStatus) ([]entity.TreatmentPlan, error) {
	return r.findBy(db, "patient_id", patientID, status)
}

func (r *treatmentPlanRepository) FindByTherapist(db *gorm.DB, therapistID uuid.UUID, status *entity.PlanStatus) ([]entity.TreatmentPlan, error) {
	return r.findBy(db, "therapist_id", therapistID, status)
}

func (r *treatmentPlanRepository) findBy(db *gorm.DB, column string, id uuid.UUID, status *entity.PlanStatus) ([]entity.TreatmentPlan, error) {
	var plans []entity.TreatmentPlan
	query := db.Where(column+" = ?", id)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Update writes every mutable column while the stored status still equals expected.
// Returns affected rows: 0 means the plan moved on concurrently.
func (r *treatmentPlanRepository) Update(db *gorm.DB, plan *entity.TreatmentPlan, expected entity.PlanStatus) (int64, error) {
	result := db.Model(plan).
		Where("status = ?", expected).
		Select("*").
		Omit("id", "therapist_id", "patient_id", "created_at").
		Updates(plan)
	return result.RowsAffected, result.Error
}

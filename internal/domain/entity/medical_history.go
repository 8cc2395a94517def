package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MedicalHistory stores a patient's intake document.
type MedicalHistory struct {
	UserID      uuid.UUID              `gorm:"type:uuid;primaryKey" json:"user_id"`
	HistoryData MedicalHistoryDocument `gorm:"type:jsonb;not null" json:"history_data"`
	CreatedAt   time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MedicalHistory) TableName() string {
	return "medical_histories"
}

type MedicalHistoryDocument struct {
	Snapshot          Snapshot          `json:"snapshot"`
	Conditions        []Condition       `json:"conditions" validate:"omitempty,dive"`
	Medications       []Medication      `json:"medications" validate:"omitempty,dive"`
	Allergies         []Allergy         `json:"allergies" validate:"omitempty,dive"`
	Vitals            Vitals            `json:"vitals"`
	Consent           Consent           `json:"consent"`
	Contraindications Contraindications `json:"contraindications"`
	IsSetupComplete   bool              `json:"isSetupComplete"`
	LastUpdated       *time.Time        `json:"lastUpdated"`
}

type Snapshot struct {
	BloodType        string            `json:"bloodType,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Height           *float64          `json:"height,omitempty" validate:"omitempty,gte=0,lte=300"`
	Weight           *float64          `json:"weight,omitempty" validate:"omitempty,gte=0,lte=500"`
	DateOfBirth      string            `json:"dateOfBirth,omitempty" validate:"omitempty,date_ymd"`
	Gender           string            `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Relationship string `json:"relationship,omitempty" validate:"omitempty,max=50"`
}

type Condition struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name" validate:"required,max=100"`
	DiagnosisDate string `json:"diagnosisDate,omitempty" validate:"omitempty,date_ymd"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=active resolved chronic"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type Medication struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name" validate:"required,max=100"`
	Dosage        string `json:"dosage,omitempty" validate:"omitempty,max=50"`
	Frequency     string `json:"frequency,omitempty" validate:"omitempty,max=50"`
	StartDate     string `json:"startDate,omitempty" validate:"omitempty,date_ymd"`
	EndDate       string `json:"endDate,omitempty" validate:"omitempty,date_ymd"`
	Anticoagulant bool   `json:"anticoagulant"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type Allergy struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"required,max=100"`
	Severity string `json:"severity,omitempty" validate:"omitempty,oneof=mild moderate severe"`
	Reaction string `json:"reaction,omitempty" validate:"omitempty,max=200"`
	Notes    string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type Vitals struct {
	BloodPressure *BloodPressure `json:"bloodPressure,omitempty"`
	HeartRate     *float64       `json:"heartRate,omitempty" validate:"omitempty,gte=0,lte=300"`
	Temperature   *float64       `json:"temperature,omitempty" validate:"omitempty,gte=30,lte=45"`
}

type BloodPressure struct {
	Systolic  *float64 `json:"systolic,omitempty" validate:"omitempty,gte=0,lte=300"`
	Diastolic *float64 `json:"diastolic,omitempty" validate:"omitempty,gte=0,lte=200"`
}

type Consent struct {
	ConsentToTreatment       bool   `json:"consentToTreatment"`
	ConsentDate              string `json:"consentDate,omitempty" validate:"omitempty,date_ymd"`
	WitnessName              string `json:"witnessName,omitempty" validate:"omitempty,max=100"`
	EmergencyContactInformed bool   `json:"emergencyContactInformed"`
}

type Contraindications struct {
	Absolute []string `json:"absolute,omitempty" validate:"omitempty,dive,max=200"`
	Relative []string `json:"relative,omitempty" validate:"omitempty,dive,max=200"`
}

// EmptyMedicalHistory is returned for patients without a stored document.
func EmptyMedicalHistory() MedicalHistoryDocument {
	return MedicalHistoryDocument{
		Conditions:  []Condition{},
		Medications: []Medication{},
		Allergies:   []Allergy{},
	}
}

// CheckDates rejects dates in the future and medications that end before they start.
func (d *MedicalHistoryDocument) CheckDates(now time.Time) error {
	today := now.Format(DateLayout)
	past := func(field, value string) error {
		if value != "" && value > today {
			return fmt.Errorf("%s cannot be in the future", field)
		}
		return nil
	}
	if err := past("dateOfBirth", d.Snapshot.DateOfBirth); err != nil {
		return err
	}
	if err := past("consentDate", d.Consent.ConsentDate); err != nil {
		return err
	}
	for _, c := range d.Conditions {
		if err := past("diagnosisDate", c.DiagnosisDate); err != nil {
			return err
		}
	}
	for _, m := range d.Medications {
		if err := past("startDate", m.StartDate); err != nil {
			return err
		}
		if m.StartDate != "" && m.EndDate != "" && m.EndDate < m.StartDate {
			return errors.New("endDate must not be before startDate")
		}
	}
	return nil
}

// Warning severities
const (
	WarningSeverityHigh     = "high"
	WarningSeverityCritical = "critical"
)

type MedicalWarning struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Warnings lists the clinical alerts a therapist should see before a session.
func (d *MedicalHistoryDocument) Warnings() []MedicalWarning {
	warnings := []MedicalWarning{}

	var anticoagulants []string
	for _, m := range d.Medications {
		if m.Anticoagulant {
			anticoagulants = append(anticoagulants, m.Name)
		}
	}
	if len(anticoagulants) > 0 {
		warnings = append(warnings, MedicalWarning{
			Type:     "medication",
			Message:  "Patient on anticoagulants: " + strings.Join(anticoagulants, ", "),
			Severity: WarningSeverityHigh,
		})
	}

	if len(d.Contraindications.Absolute) > 0 {
		warnings = append(warnings, MedicalWarning{
			Type:     "contraindication",
			Message:  "Absolute contraindications: " + strings.Join(d.Contraindications.Absolute, ", "),
			Severity: WarningSeverityCritical,
		})
	}

	var severe []string
	for _, a := range d.Allergies {
		if a.Severity == "severe" {
			severe = append(severe, a.Name)
		}
	}
	if len(severe) > 0 {
		warnings = append(warnings, MedicalWarning{
			Type:     "allergy",
			Message:  "Severe allergies: " + strings.Join(severe, ", "),
			Severity: WarningSeverityHigh,
		})
	}

	return warnings
}

func (d MedicalHistoryDocument) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *MedicalHistoryDocument) Scan(value interface{}) error {
	if value == nil {
		*d = EmptyMedicalHistory()
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, d)
}

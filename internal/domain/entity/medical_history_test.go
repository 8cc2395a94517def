package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMedicalHistory_CheckDates(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		doc     MedicalHistoryDocument
		wantErr string
	}{
		{"empty", MedicalHistoryDocument{}, ""},
		{"today is fine", MedicalHistoryDocument{Consent: Consent{ConsentDate: "2030-06-01"}}, ""},
		{"future birth date", MedicalHistoryDocument{Snapshot: Snapshot{DateOfBirth: "2030-06-02"}}, "dateOfBirth cannot be in the future"},
		{"future diagnosis", MedicalHistoryDocument{Conditions: []Condition{{Name: "asthma", DiagnosisDate: "2031-01-01"}}}, "diagnosisDate cannot be in the future"},
		{"end before start", MedicalHistoryDocument{Medications: []Medication{{Name: "ibuprofen", StartDate: "2030-05-01", EndDate: "2030-04-01"}}}, "endDate must not be before startDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.CheckDates(now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestMedicalHistory_Warnings(t *testing.T) {
	doc := MedicalHistoryDocument{
		Medications: []Medication{
			{Name: "Warfarin", Anticoagulant: true},
			{Name: "Paracetamol"},
			{Name: "Heparin", Anticoagulant: true},
		},
		Allergies: []Allergy{{Name: "Latex", Severity: "severe"}},
	}

	warnings := doc.Warnings()

	assert.Equal(t, []MedicalWarning{
		{Type: "medication", Message: "Patient on anticoagulants: Warfarin, Heparin", Severity: WarningSeverityHigh},
		{Type: "allergy", Message: "Severe allergies: Latex", Severity: WarningSeverityHigh},
	}, warnings)

	empty := EmptyMedicalHistory()
	assert.NotNil(t, empty.Warnings())
	assert.Empty(t, empty.Warnings())
}

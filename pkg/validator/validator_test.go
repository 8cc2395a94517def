package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Date  string `validate:"required,date_ymd"`
	Time  string `validate:"required,slot_time"`
	Email string `validate:"omitempty,email"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  slotRequest
		want map[string]string
	}{
		{"valid", slotRequest{Date: "2030-01-15", Time: "09:00"}, nil},
		{"missing", slotRequest{}, map[string]string{"Date": "Date is required", "Time": "Time is required"}},
		{"bad date", slotRequest{Date: "15/01/2030", Time: "09:00"}, map[string]string{"Date": "Date must be a date in YYYY-MM-DD format"}},
		{"unpadded time", slotRequest{Date: "2030-01-15", Time: "9:00"}, map[string]string{"Time": "Time must be a time in HH:MM format"}},
		{"bad email", slotRequest{Date: "2030-01-15", Time: "09:00", Email: "sara"}, map[string]string{"Email": "Email must be a valid email address"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, v.FormatValidationErrors(err))
		})
	}
}

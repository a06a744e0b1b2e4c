package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct {
	Title     string `json:"title" validate:"required,notblank"`
	Date      string `json:"date" validate:"required,ymd"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		s := sl.Current().Interface().(slot)
		ValidateTimeRange(sl, s.StartTime, s.EndTime)
	}, slot{})

	tests := []struct {
		name string
		in   slot
		want map[string]string
	}{
		{
			name: "valid",
			in:   slot{Title: "Maths", Date: "2024-05-01", StartTime: "09:00", EndTime: "10:00"},
		},
		{
			name: "missing",
			in:   slot{},
			want: map[string]string{
				"title":     "this field is required",
				"date":      "this field is required",
				"startTime": "this field is required",
				"endTime":   "this field is required",
			},
		},
		{
			name: "blank title & bad formats",
			in:   slot{Title: "   ", Date: "01/05/2024", StartTime: "9am", EndTime: "10:00"},
			want: map[string]string{
				"title":     "title must not be blank",
				"date":      "date must be a date formatted as YYYY-MM-DD",
				"startTime": "startTime must be a time formatted as HH:MM",
			},
		},
		{
			name: "end before start",
			in:   slot{Title: "Maths", Date: "2024-05-01", StartTime: "10:00", EndTime: "09:00"},
			want: map[string]string{"endTime": "endTime must be after startTime"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "expected validator.ValidationErrors, got %T", err)

			got := make(map[string]string)
			for _, fe := range verrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

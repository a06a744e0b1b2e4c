package recommend

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scorerFunc func(ctx context.Context, m Metrics) (Result, error)

func (f scorerFunc) Score(ctx context.Context, m Metrics) (Result, error) { return f(ctx, m) }

func TestMetricsJSON(t *testing.T) {
	var m Metrics
	body := `{"Hours_Studied": 4.5, "Attendance": 88, "Tutoring_Sessions": 1, "Physical_Activity": 3, "Sleep_Hours": 7, "Motivation_Level": "High"}`
	require.NoError(t, json.Unmarshal([]byte(body), &m))

	assert.Equal(t, 4.5, m.HoursStudied)
	assert.Equal(t, 88.0, m.Attendance)
	assert.Equal(t, 1, m.TutoringSessions)
	assert.Equal(t, map[string]interface{}{"Motivation_Level": "High"}, m.Extra)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(b))

	var empty Metrics
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.Extra)
}

func TestMetricsValidate(t *testing.T) {
	validate := validator.New()
	tests := []struct {
		name    string
		m       Metrics
		wantErr bool
	}{
		{name: "zero", m: Metrics{}},
		{name: "bounds", m: Metrics{HoursStudied: 24, Attendance: 100, TutoringSessions: 100, PhysicalActivity: 7, SleepHours: 24}},
		{name: "negative hours", m: Metrics{HoursStudied: -1}, wantErr: true},
		{name: "attendance", m: Metrics{Attendance: 101}, wantErr: true},
		{name: "activity", m: Metrics{PhysicalActivity: 8}, wantErr: true},
		{name: "sleep", m: Metrics{SleepHours: 25}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	svc := NewService(scorerFunc(func(context.Context, Metrics) (Result, error) {
		return Result{Success: true, ClusterName: "Night Owl", Recommendations: []string{"Sleep more"}}, nil
	}))
	res, err := svc.Recommend(ctx, Metrics{})
	require.NoError(t, err)
	assert.Equal(t, "Night Owl", res.ClusterName)

	svc = NewService(scorerFunc(func(context.Context, Metrics) (Result, error) {
		return Result{Success: false, Error: "model file missing"}, nil
	}))
	res, err = svc.Recommend(ctx, Metrics{})
	assert.Equal(t, ErrUpstreamFailure, errors.Cause(err))
	assert.Equal(t, "model file missing", res.Error, "unsuccessful results are still returned")

	boom := errors.New("boom")
	svc = NewService(scorerFunc(func(context.Context, Metrics) (Result, error) { return Result{}, boom }))
	_, err = svc.Recommend(ctx, Metrics{})
	assert.Equal(t, boom, err)
}

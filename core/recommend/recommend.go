package recommend

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrUpstreamFailure = errors.New("recommendation engine failed")
)

// Metrics are the study habits sent to the scorer. Extra holds any other field the client sent.
type Metrics struct {
	HoursStudied     float64 `json:"Hours_Studied" validate:"min=0,max=24"`
	Attendance       float64 `json:"Attendance" validate:"min=0,max=100"`
	TutoringSessions int     `json:"Tutoring_Sessions" validate:"min=0,max=100"`
	PhysicalActivity float64 `json:"Physical_Activity" validate:"min=0,max=7"`
	SleepHours       float64 `json:"Sleep_Hours" validate:"min=0,max=24"`

	Extra map[string]interface{} `json:"-"`
}

var knownFields = []string{"Hours_Studied", "Attendance", "Tutoring_Sessions", "Physical_Activity", "Sleep_Hours"}

func (m *Metrics) UnmarshalJSON(b []byte) error {
	type metrics Metrics // drops methods
	var known metrics
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	var all map[string]interface{}
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, f := range knownFields {
		delete(all, f)
	}
	*m = Metrics(known)
	if len(all) > 0 {
		m.Extra = all
	}
	return nil
}

// MarshalJSON flattens Extra next to the known fields.
func (m Metrics) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Extra)+len(knownFields))
	for k, v := range m.Extra {
		out[k] = v
	}
	out["Hours_Studied"] = m.HoursStudied
	out["Attendance"] = m.Attendance
	out["Tutoring_Sessions"] = m.TutoringSessions
	out["Physical_Activity"] = m.PhysicalActivity
	out["Sleep_Hours"] = m.SleepHours
	return json.Marshal(out)
}

func (m *Metrics) Validate(validate *validator.Validate) error {
	return validate.Struct(m)
}

// Result is the scorer output. Raw keeps the exact bytes so they can be relayed untouched.
type Result struct {
	Success         bool     `json:"success"`
	ClusterID       int      `json:"cluster_id"`
	ClusterName     string   `json:"cluster_name"`
	Recommendations []string `json:"recommendations"`
	Error           string   `json:"error,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// Scorer turns study metrics into recommendations.
type Scorer interface {
	Score(ctx context.Context, m Metrics) (Result, error)
}

type Service struct {
	scorer Scorer
}

func NewService(scorer Scorer) *Service {
	return &Service{scorer: scorer}
}

// Recommend fails with ErrUpstreamFailure when the scorer reports an unsuccessful run;
// the returned Result still carries what the scorer said.
func (svc *Service) Recommend(ctx context.Context, m Metrics) (Result, error) {
	res, err := svc.scorer.Score(ctx, m)
	if err != nil {
		return Result{}, err
	}
	if !res.Success {
		return res, errors.Wrap(ErrUpstreamFailure, res.Error)
	}
	return res, nil
}

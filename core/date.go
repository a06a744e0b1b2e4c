package core

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var errInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Date is a calendar date serialized as "YYYY-MM-DD".
// RFC 3339 timestamps are accepted on input and truncated to their UTC date.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t.UTC()), nil
	}
	return Date{}, errInvalidDate
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// OptionalDate tells an absent JSON field (Set=false) apart from an explicit null or "" (Set=true, Valid=false).
type OptionalDate struct {
	Set   bool
	Valid bool
	Date  Date
}

func (o *OptionalDate) UnmarshalJSON(b []byte) error {
	o.Set = true
	if s := string(b); s == "null" || s == `""` {
		o.Valid = false
		return nil
	}
	if err := o.Date.UnmarshalJSON(b); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o OptionalDate) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return o.Date.MarshalJSON()
}

// Ptr returns the date, or nil when it is unset or null.
func (o OptionalDate) Ptr() *Date {
	if !o.Valid {
		return nil
	}
	d := o.Date
	return &d
}

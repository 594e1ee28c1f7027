package appeal

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	// detection_datetime accepts a full RFC 3339 stamp or the zone-less
	// form many clients send.
	dateTimeLayoutLocal = "2006-01-02T15:04:05"
)

// Date is a calendar date carried as "YYYY-MM-DD" in JSON.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ValidationError(fmt.Sprintf("birth_date must be a date in YYYY-MM-DD form, got %q", s))
	}
	return Date{Time: t}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// DateTime is an ISO-8601 timestamp in JSON.
type DateTime struct {
	time.Time
}

func ParseDateTime(s string) (DateTime, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateTime{Time: t}, nil
	}
	if t, err := time.Parse(dateTimeLayoutLocal, s); err == nil {
		return DateTime{Time: t}, nil
	}
	return DateTime{}, ValidationError(fmt.Sprintf("detection_datetime must be an ISO-8601 timestamp, got %q", s))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

// Problem is one reported issue: a category from the fixed set plus the
// moment the subscriber noticed it.
type Problem struct {
	ProblemType       string   `json:"problem_type"`
	DetectionDatetime DateTime `json:"detection_datetime"`
}

// Appeal is a validated complaint submission. Exactly one of Problem or
// Problems is set, depending on which intake route produced it.
type Appeal struct {
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	BirthDate Date      `json:"birth_date"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Problem   *Problem  `json:"problem,omitempty"`
	Problems  []Problem `json:"problems,omitempty"`
}

// Record is the persisted, identifier-bearing form of an appeal.
// Created once, never mutated.
type Record struct {
	ID        string    `json:"id"`
	Appeal    Appeal    `json:"appeal_data"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateAppealRequest struct {
	LastName  string  `json:"last_name"`
	FirstName string  `json:"first_name"`
	BirthDate Date    `json:"birth_date"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Problem   Problem `json:"problem"`
}

func (r CreateAppealRequest) Validate() error {
	if err := validateCommon(r.LastName, r.FirstName, r.Phone, r.Email); err != nil {
		return err
	}
	if r.BirthDate.IsZero() {
		return ValidationError("birth_date is required")
	}
	if r.Problem.ProblemType == "" {
		return ValidationError("problem is required")
	}
	if err := ValidateProblemType(r.Problem.ProblemType); err != nil {
		return err
	}
	if r.Problem.DetectionDatetime.IsZero() {
		return ValidationError("detection_datetime is required")
	}
	return nil
}

// Appeal builds the validated appeal with the phone in cleaned form.
func (r CreateAppealRequest) Appeal() Appeal {
	p := r.Problem
	return Appeal{
		LastName:  r.LastName,
		FirstName: r.FirstName,
		BirthDate: r.BirthDate,
		Phone:     CleanPhone(r.Phone),
		Email:     r.Email,
		Problem:   &p,
	}
}

type CreateAppealMultipleRequest struct {
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	BirthDate Date      `json:"birth_date"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Problems  []Problem `json:"problems"`
}

func (r CreateAppealMultipleRequest) Validate() error {
	if err := validateCommon(r.LastName, r.FirstName, r.Phone, r.Email); err != nil {
		return err
	}
	if r.BirthDate.IsZero() {
		return ValidationError("birth_date is required")
	}
	if len(r.Problems) == 0 {
		return ValidationError("problems must contain at least one problem")
	}
	for _, p := range r.Problems {
		if err := ValidateProblemType(p.ProblemType); err != nil {
			return err
		}
		if p.DetectionDatetime.IsZero() {
			return ValidationError("detection_datetime is required")
		}
	}
	return ValidateUniqueProblems(r.Problems)
}

func (r CreateAppealMultipleRequest) Appeal() Appeal {
	return Appeal{
		LastName:  r.LastName,
		FirstName: r.FirstName,
		BirthDate: r.BirthDate,
		Phone:     CleanPhone(r.Phone),
		Email:     r.Email,
		Problems:  r.Problems,
	}
}

func validateCommon(lastName, firstName, phone, email string) error {
	if err := ValidateName(lastName); err != nil {
		return ValidationError("last_name: " + err.Error())
	}
	if err := ValidateName(firstName); err != nil {
		return ValidationError("first_name: " + err.Error())
	}
	if _, err := ValidatePhone(phone); err != nil {
		return err
	}
	return ValidateEmail(email)
}

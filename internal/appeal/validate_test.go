package appeal

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	valid := []string{"Иванов", "Анна", "Ё", "Ёлкина", "Щербаков"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	// lowercase first letter, Latin, digits, spaces, punctuation, all-caps
	invalid := []string{
		"",
		"иванов",
		"Ivanov",
		"Иванов3",
		"Иван ов",
		"Иванов-Петров",
		"ИВАНОВ",
	}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		in      string
		cleaned string
	}{
		{"+7 (916) 123-45-67", "+79161234567"},
		{"89161234567", "89161234567"},
		{"79161234567", "79161234567"},
		{"9161234567", "9161234567"},
		{"8 800 555-35-35", "88005553535"},
	}
	for _, c := range cases {
		got, err := ValidatePhone(c.in)
		if err != nil {
			t.Errorf("ValidatePhone(%q) = %v, want nil", c.in, err)
			continue
		}
		if got != c.cleaned {
			t.Errorf("ValidatePhone(%q) = %q, want %q", c.in, got, c.cleaned)
		}
	}

	invalid := []string{"123", "+1234567890", "", "abc", "+7916"}
	for _, in := range invalid {
		if _, err := ValidatePhone(in); err == nil {
			t.Errorf("ValidatePhone(%q) = nil, want error", in)
		}
	}
}

func TestValidateProblemType(t *testing.T) {
	for _, v := range AllowedProblemTypes {
		if err := ValidateProblemType(v); err != nil {
			t.Errorf("ValidateProblemType(%q) = %v, want nil", v, err)
		}
	}

	err := ValidateProblemType("сломался роутер")
	if err == nil {
		t.Fatalf("expected error for unknown problem type")
	}
	for _, v := range AllowedProblemTypes {
		if !strings.Contains(err.Error(), v) {
			t.Errorf("error %q does not list allowed value %q", err.Error(), v)
		}
	}
}

func TestValidateUniqueProblems(t *testing.T) {
	t1, _ := ParseDateTime("2024-01-01T10:00:00")
	t2, _ := ParseDateTime("2024-01-02T10:00:00")

	dup := []Problem{
		{ProblemType: "нет доступа к сети", DetectionDatetime: t1},
		{ProblemType: "нет доступа к сети", DetectionDatetime: t2},
	}
	if err := ValidateUniqueProblems(dup); err == nil {
		t.Fatalf("expected error for duplicated problem types")
	}

	distinct := []Problem{
		{ProblemType: "нет доступа к сети", DetectionDatetime: t1},
		{ProblemType: "не работает телефон", DetectionDatetime: t2},
	}
	if err := ValidateUniqueProblems(distinct); err != nil {
		t.Fatalf("ValidateUniqueProblems(distinct) = %v, want nil", err)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "ivan.petrov@mail.ru", "a@b.co"}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", e, err)
		}
	}

	invalid := []string{"", "user", "user@", "@example.com", "user@localhost", "user example.com"}
	for _, e := range invalid {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("1990-05-17"); err != nil {
		t.Fatalf("ParseDate(valid) = %v, want nil", err)
	}

	for _, in := range []string{"", "17.05.1990", "1990-13-01", "not-a-date"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) = nil, want error", in)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	for _, in := range []string{"2024-06-01T12:30:00Z", "2024-06-01T12:30:00+03:00", "2024-06-01T12:30:00"} {
		if _, err := ParseDateTime(in); err != nil {
			t.Errorf("ParseDateTime(%q) = %v, want nil", in, err)
		}
	}

	for _, in := range []string{"", "2024-06-01", "12:30:00", "garbage"} {
		if _, err := ParseDateTime(in); err == nil {
			t.Errorf("ParseDateTime(%q) = nil, want error", in)
		}
	}
}

func TestCreateAppealRequestRequiredFields(t *testing.T) {
	t1, _ := ParseDateTime("2024-01-01T10:00:00")
	birth, _ := ParseDate("1990-05-17")

	valid := CreateAppealRequest{
		LastName:  "Иванов",
		FirstName: "Иван",
		BirthDate: birth,
		Phone:     "89161234567",
		Email:     "ivan@example.com",
		Problem:   Problem{ProblemType: "не работает телефон", DetectionDatetime: t1},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	noBirth := valid
	noBirth.BirthDate = Date{}
	if err := noBirth.Validate(); err == nil || !strings.Contains(err.Error(), "birth_date") {
		t.Fatalf("expected birth_date error, got %v", err)
	}

	noDetected := valid
	noDetected.Problem.DetectionDatetime = DateTime{}
	if err := noDetected.Validate(); err == nil || !strings.Contains(err.Error(), "detection_datetime") {
		t.Fatalf("expected detection_datetime error, got %v", err)
	}
}

func TestCreateAppealMultipleRequestValidate(t *testing.T) {
	t1, _ := ParseDateTime("2024-01-01T10:00:00")
	birth, _ := ParseDate("1990-05-17")

	base := CreateAppealMultipleRequest{
		LastName:  "Иванов",
		FirstName: "Иван",
		BirthDate: birth,
		Phone:     "+7 916 123-45-67",
		Email:     "ivan@example.com",
	}

	empty := base
	if err := empty.Validate(); err == nil {
		t.Fatalf("expected error for empty problems list")
	}

	noDetected := base
	noDetected.Problems = []Problem{
		{ProblemType: "нет доступа к сети", DetectionDatetime: t1},
		{ProblemType: "не приходят письма"},
	}
	if err := noDetected.Validate(); err == nil || !strings.Contains(err.Error(), "detection_datetime") {
		t.Fatalf("expected detection_datetime error, got %v", err)
	}

	ok := base
	ok.Problems = []Problem{
		{ProblemType: "нет доступа к сети", DetectionDatetime: t1},
		{ProblemType: "не приходят письма", DetectionDatetime: t1},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if got := ok.Appeal().Phone; got != "+79161234567" {
		t.Fatalf("Appeal().Phone = %q, want cleaned %q", got, "+79161234567")
	}
}

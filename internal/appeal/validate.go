package appeal

import (
	"net/mail"
	"regexp"
	"strings"
)

// Allowed problem categories. The literal strings are the business rule;
// submissions are matched against them exactly, case-sensitively.
var AllowedProblemTypes = []string{
	"нет доступа к сети",
	"не работает телефон",
	"не приходят письма",
}

var (
	nameRe       = regexp.MustCompile(`^[А-ЯЁ][а-яё]*$`)
	phoneCleanRe = regexp.MustCompile(`[\s\-()]`)
	phoneRe      = regexp.MustCompile(`^(\+7|7|8)?[489]\d{9,10}$`)
)

// ValidateName accepts a single uppercase Cyrillic letter followed by zero
// or more lowercase Cyrillic letters. No digits, Latin letters, spaces or
// punctuation.
func ValidateName(v string) error {
	if !nameRe.MatchString(v) {
		return ValidationError("must be Cyrillic and start with an uppercase letter")
	}
	return nil
}

// CleanPhone strips whitespace, hyphens and parentheses.
func CleanPhone(v string) string {
	return phoneCleanRe.ReplaceAllString(v, "")
}

// ValidatePhone cleans the input and matches it against the Russian mobile
// format: optional +7/7/8 prefix, an operator digit from 4/8/9, then 9-10
// digits. Returns the cleaned string.
func ValidatePhone(v string) (string, error) {
	cleaned := CleanPhone(v)
	if !phoneRe.MatchString(cleaned) {
		return "", ValidationError("phone must be a Russian mobile number")
	}
	return cleaned, nil
}

// ValidateProblemType checks membership in the fixed category set.
func ValidateProblemType(v string) error {
	for _, allowed := range AllowedProblemTypes {
		if v == allowed {
			return nil
		}
	}
	return ValidationError("problem_type must be one of: " + strings.Join(AllowedProblemTypes, ", "))
}

// ValidateUniqueProblems rejects a list where any problem type repeats.
func ValidateUniqueProblems(problems []Problem) error {
	seen := make(map[string]struct{}, len(problems))
	for _, p := range problems {
		if _, dup := seen[p.ProblemType]; dup {
			return ValidationError("problem types must not repeat")
		}
		seen[p.ProblemType] = struct{}{}
	}
	return nil
}

// ValidateEmail checks standard address syntax. mail.ParseAddress accepts
// dotless domains, so the domain is additionally required to contain a dot.
func ValidateEmail(v string) error {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return ValidationError("email must be a valid address")
	}
	at := strings.LastIndex(v, "@")
	if !strings.Contains(v[at+1:], ".") {
		return ValidationError("email must be a valid address")
	}
	return nil
}

package challenges

import (
	"strings"

	"github.com/skillforge-app/skillforge-backend/internal/models"
)

// Validator decides whether submitted code solves a challenge. The
// default is a placeholder heuristic; a real grading sandbox would be
// plugged in here.
type Validator interface {
	Validate(code string, challenge *models.Challenge) bool
}

// MinLengthValidator passes any submission that is non-empty after
// trimming and longer than MinLength characters.
type MinLengthValidator struct {
	MinLength int
}

// Validate implements Validator.
func (v MinLengthValidator) Validate(code string, _ *models.Challenge) bool {
	trimmed := strings.TrimSpace(code)
	return trimmed != "" && len(trimmed) > v.MinLength
}

// DefaultValidator returns the stock length-check validator.
func DefaultValidator() Validator {
	return MinLengthValidator{MinLength: 20}
}

// Package types provides type definitions for structured data used throughout the review-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Seniority is the career level of the collaborator under review.
// Analysis prompts branch their evaluation criteria on it.
type Seniority string

// Supported seniority levels
const (
	SeniorityAnalista     Seniority = "Analista"
	SeniorityEspecialista Seniority = "Especialista"
	SeniorityLider        Seniority = "Líder"
	SeniorityGerente      Seniority = "Gerente"
)

// Seniorities returns every supported seniority level in display order.
func Seniorities() []Seniority {
	return []Seniority{SeniorityAnalista, SeniorityEspecialista, SeniorityLider, SeniorityGerente}
}

// IsLeadership reports whether the level is evaluated on leadership criteria.
func (s Seniority) IsLeadership() bool {
	return s == SeniorityLider || s == SeniorityGerente
}

// UserData identifies the collaborator whose documents are analyzed.
// It is immutable input to a session.
type UserData struct {
	Name      string    `json:"name" validate:"required,notblank"`
	Area      string    `json:"area" validate:"required,notblank"`
	Position  string    `json:"position" validate:"required,notblank"`
	Seniority Seniority `json:"seniority" validate:"required,oneof=Analista Especialista Líder Gerente"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("types: register notblank validation: %v", err))
	}
	return v
}

// Validate validates the UserData using the validator.
func (u *UserData) Validate() error {
	return validate.Struct(u)
}

// Document is one uploaded evaluation file.
type Document struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// EvaluationPeriod groups the documents of one labeled span of time.
type EvaluationPeriod struct {
	Year  string     `json:"year"`
	Files []Document `json:"files"`
}

// IsValid reports whether the period has a year label and at least one document.
func (p EvaluationPeriod) IsValid() bool {
	return strings.TrimSpace(p.Year) != "" && len(p.Files) > 0
}

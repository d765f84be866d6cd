package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateDocumentRequest represents a manually created CV or cover letter.
type CreateDocumentRequest struct {
	Title    string  `json:"title" validate:"required,min=1,max=200"`
	Content  string  `json:"content" validate:"required"`
	Sector   *string `json:"sector,omitempty"`
	Position *string `json:"position,omitempty"`
}

// UpdateDocumentRequest represents a partial update of a stored document.
// Nil fields are left unchanged.
type UpdateDocumentRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content  *string `json:"content,omitempty"`
	Sector   *string `json:"sector,omitempty"`
	Position *string `json:"position,omitempty"`
}

// WizardExperience is one work-experience entry collected by the CV wizard.
type WizardExperience struct {
	Company     string `json:"company" validate:"required"`
	Role        string `json:"role" validate:"required"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// WizardEducation is one education entry collected by the CV wizard.
type WizardEducation struct {
	School  string `json:"school" validate:"required"`
	Degree  string `json:"degree,omitempty"`
	Field   string `json:"field,omitempty"`
	EndYear string `json:"end_year,omitempty"`
}

// GenerateCVRequest carries the wizard payload sent to the AI generation endpoint.
type GenerateCVRequest struct {
	FullName    string             `json:"full_name" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Phone       string             `json:"phone,omitempty"`
	Sector      *string            `json:"sector,omitempty"`
	Position    *string            `json:"position,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	Experiences []WizardExperience `json:"experiences" validate:"required,min=1,dive"`
	Education   []WizardEducation  `json:"education,omitempty" validate:"dive"`
	Skills      []string           `json:"skills,omitempty"`
}

// GenerateCoverLetterRequest carries the payload for cover-letter generation.
type GenerateCoverLetterRequest struct {
	FullName       string  `json:"full_name" validate:"required"`
	Company        string  `json:"company" validate:"required"`
	Position       string  `json:"position" validate:"required"`
	Sector         *string `json:"sector,omitempty"`
	JobDescription string  `json:"job_description,omitempty"`
	CVContent      string  `json:"cv_content,omitempty"`
}

// Validate validates the CreateDocumentRequest using the validator.
func (r *CreateDocumentRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateDocumentRequest using the validator.
func (r *UpdateDocumentRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the GenerateCVRequest using the validator.
func (r *GenerateCVRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the GenerateCoverLetterRequest using the validator.
func (r *GenerateCoverLetterRequest) Validate() error {
	return validator.New().Struct(r)
}

package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("supported_note_file", validateNoteFileType)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Var validates a single value against a rule, e.g. an upload's MIME type
// against "supported_note_file".
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

func validateNoteFileType(fl validator.FieldLevel) bool {
	mimeType := fl.Field().String()
	supportedTypes := map[string]bool{
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"text/plain":    true,
		"text/markdown": true,
	}
	return supportedTypes[mimeType]
}

package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FieldType is the closed set of renderable form field types. Anything
// outside this set is rejected at form creation time rather than silently
// skipped at render time.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
	FieldFile     FieldType = "file"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldEmail, FieldPhone, FieldNumber, FieldTextarea,
		FieldSelect, FieldRadio, FieldCheckbox, FieldDate, FieldFile:
		return true
	}
	return false
}

type CustomForm struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Description *string    `db:"description" json:"description,omitempty"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedBy   *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`

	Fields []FormField `db:"-" json:"fields,omitempty"`
}

// FormField is one ordered field definition. ShowWhenField/ShowWhenValue form
// the optional visibility rule: show only while the answer for ShowWhenField
// equals ShowWhenValue.
type FormField struct {
	ID            uuid.UUID `db:"id" json:"id"`
	FormID        uuid.UUID `db:"form_id" json:"form_id"`
	Position      int       `db:"position" json:"position"`
	Type          FieldType `db:"type" json:"type"`
	Label         string    `db:"label" json:"label"`
	Required      bool      `db:"required" json:"required"`
	Options       []string  `db:"options" json:"options,omitempty"`
	ShowWhenField *string   `db:"show_when_field" json:"show_when_field,omitempty"`
	ShowWhenValue *string   `db:"show_when_value" json:"show_when_value,omitempty"`
}

// FormResponse stores one submitted answer set as a single JSON payload.
type FormResponse struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	FormID      uuid.UUID       `db:"form_id" json:"form_id"`
	Answers     json.RawMessage `db:"answers" json:"answers"`
	SubmittedAt time.Time       `db:"submitted_at" json:"submitted_at"`
}

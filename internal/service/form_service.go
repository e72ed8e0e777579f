package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type FormService struct {
	FormRepo repository.FormRepositoryInterface
	Log      *zap.Logger
}

// CreateForm validates the definition and persists the form with its
// ordered field set.
func (s *FormService) CreateForm(form *model.CustomForm) error {
	if err := validateFormDefinition(form); err != nil {
		return err
	}
	return s.FormRepo.Create(form)
}

// ReplaceFields validates and swaps a form's field set.
func (s *FormService) ReplaceFields(formID uuid.UUID, fields []model.FormField) error {
	form, err := s.FormRepo.GetByID(formID)
	if err != nil {
		return err
	}
	if form == nil {
		return appErrors.NewNotFound("form", formID.String())
	}
	form.Fields = fields
	if err := validateFormDefinition(form); err != nil {
		return err
	}
	return s.FormRepo.ReplaceFields(formID, fields)
}

func validateFormDefinition(form *model.CustomForm) error {
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Title) == "" {
		return appErrors.NewValidation("form name and title are required")
	}
	if !slugPattern.MatchString(form.Slug) {
		return appErrors.NewValidation("form slug must be lowercase letters, digits and hyphens")
	}

	ids := map[string]bool{}
	for _, fld := range form.Fields {
		if fld.ID != uuid.Nil {
			ids[fld.ID.String()] = true
		}
	}
	for i := range form.Fields {
		fld := &form.Fields[i]
		if !fld.Type.Valid() {
			return appErrors.NewValidation("unknown field type %q on field %q", fld.Type, fld.Label)
		}
		if strings.TrimSpace(fld.Label) == "" {
			return appErrors.NewValidation("field %d has no label", i)
		}
		switch fld.Type {
		case model.FieldSelect, model.FieldRadio, model.FieldCheckbox:
			if len(fld.Options) == 0 {
				return appErrors.NewValidation("field %q needs at least one option", fld.Label)
			}
		}
		if (fld.ShowWhenField == nil) != (fld.ShowWhenValue == nil) {
			return appErrors.NewValidation("field %q has an incomplete visibility rule", fld.Label)
		}
		if fld.ShowWhenField != nil && len(ids) > 0 && !ids[*fld.ShowWhenField] {
			return appErrors.NewValidation("field %q visibility rule references an unknown field", fld.Label)
		}
	}
	return nil
}

// VisibleFields evaluates conditional visibility against the in-progress
// answer set, keyed by field id. A field with no rule is always visible;
// a ruled field shows only while the controlling answer equals the
// configured value.
func VisibleFields(fields []model.FormField, answers map[string]any) []model.FormField {
	visible := make([]model.FormField, 0, len(fields))
	for _, fld := range fields {
		if fld.ShowWhenField == nil || fld.ShowWhenValue == nil {
			visible = append(visible, fld)
			continue
		}
		if answerString(answers[*fld.ShowWhenField]) == *fld.ShowWhenValue {
			visible = append(visible, fld)
		}
	}
	return visible
}

func answerString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// SubmitResponse stores one public submission for the form behind slug.
// Only required visible fields are checked; per-field typing is the
// renderer's concern, not the server's.
func (s *FormService) SubmitResponse(slug string, answers map[string]any) (*model.FormResponse, error) {
	form, err := s.FormRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if form == nil || !form.IsActive {
		return nil, appErrors.NewNotFound("form", slug)
	}

	for _, fld := range VisibleFields(form.Fields, answers) {
		if !fld.Required {
			continue
		}
		if answerString(answers[fld.ID.String()]) == "" {
			return nil, appErrors.NewValidation("required field %q is missing", fld.Label)
		}
	}

	payload, err := json.Marshal(answers)
	if err != nil {
		return nil, appErrors.NewValidation("answers are not serializable: %v", err)
	}

	resp := &model.FormResponse{FormID: form.ID, Answers: payload}
	if err := s.FormRepo.CreateResponse(resp); err != nil {
		return nil, err
	}

	s.Log.Info("form response submitted",
		zap.String("form", form.Slug),
		zap.String("response_id", resp.ID.String()))
	return resp, nil
}

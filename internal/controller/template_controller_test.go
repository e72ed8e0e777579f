package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

// stubTemplateRepo drives the delete guard without a database.
type stubTemplateRepo struct {
	emails    map[uuid.UUID]*model.EmailTemplate
	activeRef map[uuid.UUID]int

	cleared []uuid.UUID
	deleted []uuid.UUID
}

func (s *stubTemplateRepo) ListEmail(offset, limit int, search string) ([]model.EmailTemplate, error) {
	return nil, nil
}

func (s *stubTemplateRepo) GetEmailByID(id uuid.UUID) (*model.EmailTemplate, error) {
	return s.emails[id], nil
}

func (s *stubTemplateRepo) CreateEmail(t *model.EmailTemplate) error { return nil }

func (s *stubTemplateRepo) UpdateEmail(id uuid.UUID, patch *repository.EmailTemplatePatch) (*model.EmailTemplate, error) {
	return s.emails[id], nil
}

func (s *stubTemplateRepo) DeleteEmail(id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.emails, id)
	return nil
}

func (s *stubTemplateRepo) ListWhatsApp(offset, limit int, search string) ([]model.WhatsAppTemplate, error) {
	return nil, nil
}

func (s *stubTemplateRepo) GetWhatsAppByID(id uuid.UUID) (*model.WhatsAppTemplate, error) {
	return nil, nil
}

func (s *stubTemplateRepo) CreateWhatsApp(t *model.WhatsAppTemplate) error { return nil }

func (s *stubTemplateRepo) UpdateWhatsApp(id uuid.UUID, patch *repository.WhatsAppTemplatePatch) (*model.WhatsAppTemplate, error) {
	return nil, nil
}

func (s *stubTemplateRepo) DeleteWhatsApp(id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubTemplateRepo) CountCampaignsReferencing(templateID uuid.UUID, channel, status string) (int, error) {
	return s.activeRef[templateID], nil
}

func (s *stubTemplateRepo) ClearReferences(templateID uuid.UUID, channel string) error {
	s.cleared = append(s.cleared, templateID)
	return nil
}

var _ repository.TemplateRepositoryInterface = (*stubTemplateRepo)(nil)

func templateRouter(repo *stubTemplateRepo) http.Handler {
	c := &TemplateController{Repo: repo, Log: zap.NewNop()}
	r := chi.NewRouter()
	r.Delete("/templates/email/{id}", c.DeleteEmail)
	r.Post("/templates/email/{id}/preview", c.PreviewEmail)
	return r
}

func TestDeleteEmailTemplateGuardedByActiveCampaign(t *testing.T) {
	id := uuid.New()
	repo := &stubTemplateRepo{
		emails:    map[uuid.UUID]*model.EmailTemplate{id: {ID: id, Name: "reminder"}},
		activeRef: map[uuid.UUID]int{id: 2},
	}

	req := httptest.NewRequest(http.MethodDelete, "/templates/email/"+id.String(), nil)
	rec := httptest.NewRecorder()
	templateRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "active campaign")
	assert.Empty(t, repo.deleted)
	assert.Empty(t, repo.cleared)
}

func TestDeleteEmailTemplateClearsNonActiveReferences(t *testing.T) {
	id := uuid.New()
	repo := &stubTemplateRepo{
		emails:    map[uuid.UUID]*model.EmailTemplate{id: {ID: id, Name: "reminder"}},
		activeRef: map[uuid.UUID]int{},
	}

	req := httptest.NewRequest(http.MethodDelete, "/templates/email/"+id.String(), nil)
	rec := httptest.NewRecorder()
	templateRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.cleared, 1)
	require.Len(t, repo.deleted, 1)
	assert.Equal(t, id, repo.deleted[0])
}

func TestPreviewEmailTemplate(t *testing.T) {
	id := uuid.New()
	repo := &stubTemplateRepo{
		emails: map[uuid.UUID]*model.EmailTemplate{id: {
			ID: id, Name: "reminder",
			Subject: "Hi {vendor_name}", Body: "Code {vendor_code} at {location}",
		}},
	}

	body := `{"variables":{"vendor_name":"Acme","vendor_code":"V1"}}`
	req := httptest.NewRequest(http.MethodPost, "/templates/email/"+id.String()+"/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	templateRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hi Acme")
	// Unknown placeholders pass through untouched.
	assert.Contains(t, rec.Body.String(), "{location}")
}

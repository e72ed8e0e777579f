package controller

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
	"github.com/unclebandit/campaigncentral-backend/internal/service"
)

type TemplateController struct {
	Repo repository.TemplateRepositoryInterface
	Log  *zap.Logger
}

// ---------------------- Email templates ----------------------

func (c *TemplateController) ListEmail(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	templates, err := c.Repo.ListEmail(offset, limit, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (c *TemplateController) GetEmail(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid template id")
		return
	}
	tpl, err := c.Repo.GetEmailByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "email template not found"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (c *TemplateController) CreateEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string   `json:"name"`
		Subject   string   `json:"subject"`
		Body      string   `json:"body"`
		Variables []string `json:"variables"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.Name == "" || body.Subject == "" || body.Body == "" {
		writeValidation(w, "name, subject and body are required")
		return
	}

	tpl := &model.EmailTemplate{
		Name:      body.Name,
		Subject:   body.Subject,
		Body:      body.Body,
		Variables: body.Variables,
	}
	if tpl.Variables == nil {
		tpl.Variables = []string{}
	}
	if err := c.Repo.CreateEmail(tpl); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (c *TemplateController) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid template id")
		return
	}
	var body struct {
		Name      *string   `json:"name"`
		Subject   *string   `json:"subject"`
		Body      *string   `json:"body"`
		Variables *[]string `json:"variables"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	tpl, err := c.Repo.UpdateEmail(id, &repository.EmailTemplatePatch{
		Name: body.Name, Subject: body.Subject, Body: body.Body, Variables: body.Variables,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "email template not found"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (c *TemplateController) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	c.deleteTemplate(w, r, model.ChannelEmail)
}

// ---------------------- WhatsApp templates ----------------------

func (c *TemplateController) ListWhatsApp(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	templates, err := c.Repo.ListWhatsApp(offset, limit, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (c *TemplateController) GetWhatsApp(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid template id")
		return
	}
	tpl, err := c.Repo.GetWhatsAppByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "whatsapp template not found"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (c *TemplateController) CreateWhatsApp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string   `json:"name"`
		Content   string   `json:"content"`
		Variables []string `json:"variables"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.Name == "" || body.Content == "" {
		writeValidation(w, "name and content are required")
		return
	}

	tpl := &model.WhatsAppTemplate{
		Name:      body.Name,
		Content:   body.Content,
		Variables: body.Variables,
	}
	if tpl.Variables == nil {
		tpl.Variables = []string{}
	}
	if err := c.Repo.CreateWhatsApp(tpl); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (c *TemplateController) UpdateWhatsApp(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid template id")
		return
	}
	var body struct {
		Name      *string   `json:"name"`
		Content   *string   `json:"content"`
		Variables *[]string `json:"variables"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	tpl, err := c.Repo.UpdateWhatsApp(id, &repository.WhatsAppTemplatePatch{
		Name: body.Name, Content: body.Content, Variables: body.Variables,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "whatsapp template not found"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (c *TemplateController) DeleteWhatsApp(w http.ResponseWriter, r *http.Request) {
	c.deleteTemplate(w, r, model.ChannelWhatsApp)
}

// deleteTemplate enforces the referential guard shared by both channels: a
// template used by an Active campaign cannot be removed. References held by
// non-Active campaigns are detached first, then the row is deleted.
func (c *TemplateController) deleteTemplate(w http.ResponseWriter, r *http.Request, channel string) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid template id")
		return
	}

	active, err := c.Repo.CountCampaignsReferencing(id, channel, model.CampaignActive)
	if err != nil {
		writeError(w, err)
		return
	}
	if active > 0 {
		writeError(w, appErrors.NewGuard("template is used by %d active campaign(s) and cannot be deleted", active))
		return
	}

	if err := c.Repo.ClearReferences(id, channel); err != nil {
		writeError(w, err)
		return
	}
	if err := c.deleteByChannel(id, channel); err != nil {
		writeError(w, err)
		return
	}
	c.Log.Info("template deleted",
		zap.String("template_id", id.String()),
		zap.String("channel", channel))
	writeJSON(w, http.StatusOK, map[string]string{"message": "template deleted"})
}

func (c *TemplateController) deleteByChannel(id uuid.UUID, channel string) error {
	if channel == model.ChannelEmail {
		return c.Repo.DeleteEmail(id)
	}
	return c.Repo.DeleteWhatsApp(id)
}

// PreviewEmail renders an email template against caller-supplied variables.
func (c *TemplateController) PreviewEmail(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid template id")
		return
	}
	var body struct {
		Variables map[string]string `json:"variables"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	tpl, err := c.Repo.GetEmailByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "email template not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"subject": service.RenderTemplate(tpl.Subject, body.Variables),
		"body":    service.RenderTemplate(tpl.Body, body.Variables),
	})
}

// PreviewWhatsApp renders a whatsapp template against caller-supplied variables.
func (c *TemplateController) PreviewWhatsApp(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid template id")
		return
	}
	var body struct {
		Variables map[string]string `json:"variables"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	tpl, err := c.Repo.GetWhatsAppByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "whatsapp template not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": service.RenderTemplate(tpl.Content, body.Variables),
	})
}

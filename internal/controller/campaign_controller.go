package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/auth"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/queue"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
	"github.com/unclebandit/campaigncentral-backend/internal/service"
)

type CampaignController struct {
	Repo         repository.CampaignRepositoryInterface
	TemplateRepo repository.TemplateRepositoryInterface
	ResponseRepo repository.ResponseRepositoryInterface
	Service      *service.CampaignService
	Analytics    *service.AnalyticsService
	Queue        queue.Queue
	Log          *zap.Logger
}

func (c *CampaignController) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("search")

	campaigns, total, err := c.Repo.List(offset, limit, status, search)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaigns":  campaigns,
		"pagination": paginationMeta(offset, limit, total),
	})
}

func (c *CampaignController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	campaign, err := c.Repo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

type campaignRequest struct {
	Name               string     `json:"name"`
	Description        *string    `json:"description"`
	Status             *string    `json:"status"`
	EmailTemplateID    *uuid.UUID `json:"email_template_id"`
	WhatsAppTemplateID *uuid.UUID `json:"whatsapp_template_id"`
	FormID             *uuid.UUID `json:"form_id"`
	TargetVendors      *[]string  `json:"target_vendors"`
	Deadline           *time.Time `json:"deadline"`
}

// checkTemplateRefs verifies that referenced templates exist before a
// campaign is created or repointed at them.
func (c *CampaignController) checkTemplateRefs(emailID, waID *uuid.UUID) (string, bool) {
	if emailID != nil {
		tpl, err := c.TemplateRepo.GetEmailByID(*emailID)
		if err != nil || tpl == nil {
			return "email template not found: " + emailID.String(), false
		}
	}
	if waID != nil {
		tpl, err := c.TemplateRepo.GetWhatsAppByID(*waID)
		if err != nil || tpl == nil {
			return "whatsapp template not found: " + waID.String(), false
		}
	}
	return "", true
}

func (c *CampaignController) Create(w http.ResponseWriter, r *http.Request) {
	var body campaignRequest
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.Name == "" {
		writeValidation(w, "name is required")
		return
	}
	if msg, ok := c.checkTemplateRefs(body.EmailTemplateID, body.WhatsAppTemplateID); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
		return
	}

	campaign := &model.Campaign{
		Name:               body.Name,
		Description:        body.Description,
		EmailTemplateID:    body.EmailTemplateID,
		WhatsAppTemplateID: body.WhatsAppTemplateID,
		FormID:             body.FormID,
		Deadline:           body.Deadline,
	}
	if body.TargetVendors != nil {
		campaign.TargetVendors = *body.TargetVendors
	} else {
		campaign.TargetVendors = []string{}
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		campaign.CreatedBy = &claims.UserID
	}

	if err := c.Repo.Create(campaign); err != nil {
		writeError(w, err)
		return
	}
	c.Log.Info("campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("name", campaign.Name))
	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	var body campaignRequest
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.Status != nil {
		switch *body.Status {
		case model.CampaignDraft, model.CampaignActive, model.CampaignCompleted, model.CampaignCancelled:
		default:
			writeValidation(w, "unknown campaign status: "+*body.Status)
			return
		}
	}
	if msg, ok := c.checkTemplateRefs(body.EmailTemplateID, body.WhatsAppTemplateID); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
		return
	}

	patch := &repository.CampaignPatch{
		Description:        body.Description,
		Status:             body.Status,
		EmailTemplateID:    body.EmailTemplateID,
		WhatsAppTemplateID: body.WhatsAppTemplateID,
		FormID:             body.FormID,
		TargetVendors:      body.TargetVendors,
		Deadline:           body.Deadline,
	}
	if body.Name != "" {
		patch.Name = &body.Name
	}

	campaign, err := c.Repo.Update(id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	if campaign == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "campaign not found"})
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	if err := c.Repo.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}

// Execute runs the campaign inline and returns the full dispatch summary.
func (c *CampaignController) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	summary, err := c.Service.Execute(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Schedule enqueues the campaign for asynchronous execution by the worker.
func (c *CampaignController) Schedule(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	// Validate existence before queueing so the caller learns about a bad
	// id now rather than from the worker's logs.
	if _, err := c.Repo.GetByID(id); err != nil {
		writeError(w, err)
		return
	}
	if err := c.Queue.Publish(queue.CampaignExecutions, queue.ExecutionJob{CampaignID: id.String()}); err != nil {
		c.Log.Error("failed to enqueue campaign execution", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":     "campaign execution queued",
		"campaign_id": id.String(),
	})
}

// Preview renders the campaign's templates for one vendor without sending.
func (c *CampaignController) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	vendorID, err := urlUUID(r, "vendorID")
	if err != nil {
		writeValidation(w, "invalid vendor id")
		return
	}
	rendered, err := c.Service.Preview(id, vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

func (c *CampaignController) CampaignAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	stats, err := c.Analytics.CampaignAnalytics(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// SubmitResponse records a vendor's compliance form data against the
// response row created at execution time and moves it to Submitted.
func (c *CampaignController) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	vendorID, err := urlUUID(r, "vendorID")
	if err != nil {
		writeValidation(w, "invalid vendor id")
		return
	}
	var body struct {
		FormData json.RawMessage `json:"form_data"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if len(body.FormData) == 0 {
		writeValidation(w, "form_data is required")
		return
	}

	resp, err := c.ResponseRepo.GetByCampaignAndVendor(id, vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if resp == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no response row for this campaign and vendor"})
		return
	}
	if err := c.ResponseRepo.SubmitFormData(resp.ID, body.FormData); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "response submitted",
		"status":  model.ResponseSubmitted,
	})
}

// Responses lists every vendor response row for a campaign.
func (c *CampaignController) Responses(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid campaign id")
		return
	}
	responses, err := c.ResponseRepo.ListByCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": responses})
}

package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
	"github.com/unclebandit/campaigncentral-backend/internal/metrics"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/notify"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	VendorRepo   repository.VendorRepositoryInterface
	TemplateRepo repository.TemplateRepositoryInterface
	ResponseRepo repository.ResponseRepositoryInterface
	SendLogRepo  repository.SendLogRepositoryInterface
	Email        notify.EmailSender
	WhatsApp     notify.WhatsAppSender

	// Country prefix assumed when normalizing bare 10-digit numbers.
	CountryPrefix string

	Log *zap.Logger
}

// VendorDispatch is the outcome of one dispatch attempt for one vendor on
// one channel. Failures are values here, not control flow: the execution
// loop never aborts on a single vendor.
type VendorDispatch struct {
	VendorID   uuid.UUID `json:"vendor_id"`
	VendorName string    `json:"vendor_name"`
	Channel    string    `json:"channel"`
	Recipient  string    `json:"recipient"`
	Err        error     `json:"-"`
}

// DispatchError is the wire form of a failed dispatch.
type DispatchError struct {
	Vendor  string `json:"vendor"`
	Channel string `json:"channel"`
	Error   string `json:"error"`
}

// ExecutionSummary aggregates a full campaign run. Partial completion is a
// normal outcome; callers must treat this summary as authoritative.
type ExecutionSummary struct {
	CampaignID   uuid.UUID       `json:"campaign_id"`
	Status       string          `json:"status"`
	TotalVendors int             `json:"total_vendors"`
	EmailsSent   []string        `json:"emails_sent"`
	WhatsAppSent int             `json:"whatsapp_sent"`
	Errors       []DispatchError `json:"errors"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
}

// Execute runs the campaign synchronously: for every target vendor it
// ensures a pending response row exists, renders and dispatches each
// configured channel, and records a send log per successful dispatch.
// The campaign is marked Active after the loop regardless of delivery
// outcome: launching and delivering are separate concerns.
func (s *CampaignService) Execute(campaignID uuid.UUID) (*ExecutionSummary, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	vendors, err := s.resolveTargets(campaign)
	if err != nil {
		return nil, err
	}

	var emailTpl *model.EmailTemplate
	if campaign.EmailTemplateID != nil {
		emailTpl, err = s.TemplateRepo.GetEmailByID(*campaign.EmailTemplateID)
		if err != nil {
			return nil, err
		}
	}
	var waTpl *model.WhatsAppTemplate
	if campaign.WhatsAppTemplateID != nil {
		waTpl, err = s.TemplateRepo.GetWhatsAppByID(*campaign.WhatsAppTemplateID)
		if err != nil {
			return nil, err
		}
	}

	summary := &ExecutionSummary{
		CampaignID:   campaignID,
		TotalVendors: len(vendors),
		EmailsSent:   []string{},
		Errors:       []DispatchError{},
		StartedAt:    time.Now(),
	}

	var dispatches []VendorDispatch
	for i := range vendors {
		vendor := &vendors[i]

		if err := s.ensureResponseRow(campaignID, vendor.ID); err != nil {
			s.Log.Error("failed to ensure response row",
				zap.String("campaign_id", campaignID.String()),
				zap.String("vendor_id", vendor.ID.String()),
				zap.Error(err))
			dispatches = append(dispatches, VendorDispatch{
				VendorID: vendor.ID, VendorName: vendor.VendorName,
				Channel: "response", Err: err,
			})
			continue
		}

		if emailTpl != nil && vendor.Email != nil && *vendor.Email != "" {
			dispatches = append(dispatches, s.dispatchEmail(campaign, emailTpl, vendor))
		}
		if waTpl != nil && vendor.Phone != nil && *vendor.Phone != "" {
			dispatches = append(dispatches, s.dispatchWhatsApp(campaign, waTpl, vendor))
		}
	}

	for _, d := range dispatches {
		if d.Err != nil {
			summary.Errors = append(summary.Errors, DispatchError{
				Vendor:  d.VendorName,
				Channel: d.Channel,
				Error:   d.Err.Error(),
			})
			continue
		}
		switch d.Channel {
		case model.ChannelEmail:
			summary.EmailsSent = append(summary.EmailsSent, d.Recipient)
		case model.ChannelWhatsApp:
			summary.WhatsAppSent++
		}
	}

	if err := s.CampaignRepo.UpdateStatus(campaignID, model.CampaignActive); err != nil {
		return nil, err
	}
	summary.Status = model.CampaignActive
	summary.FinishedAt = time.Now()

	s.Log.Info("campaign execution finished",
		zap.String("campaign_id", campaignID.String()),
		zap.Int("total_vendors", summary.TotalVendors),
		zap.Int("emails_sent", len(summary.EmailsSent)),
		zap.Int("whatsapp_sent", summary.WhatsAppSent),
		zap.Int("errors", len(summary.Errors)))

	return summary, nil
}

// ensureResponseRow creates the (campaign, vendor) response row once.
// Lookup before insert; a pre-existing row is left untouched no matter how
// many times execution runs.
func (s *CampaignService) ensureResponseRow(campaignID, vendorID uuid.UUID) error {
	existing, err := s.ResponseRepo.GetByCampaignAndVendor(campaignID, vendorID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = s.ResponseRepo.Create(campaignID, vendorID)
	return err
}

func (s *CampaignService) dispatchEmail(campaign *model.Campaign, tpl *model.EmailTemplate, vendor *model.Vendor) VendorDispatch {
	d := VendorDispatch{
		VendorID:   vendor.ID,
		VendorName: vendor.VendorName,
		Channel:    model.ChannelEmail,
		Recipient:  *vendor.Email,
	}

	vars := vendor.TemplateVars()
	subject := RenderTemplate(tpl.Subject, vars)
	body := RenderTemplate(tpl.Body, vars)

	if err := s.Email.SendEmail(d.Recipient, subject, body); err != nil {
		metrics.RecordDispatch(model.ChannelEmail, "failed")
		d.Err = err
		return d
	}
	metrics.RecordDispatch(model.ChannelEmail, "sent")

	if err := s.SendLogRepo.Create(&model.SendLog{
		CampaignID: campaign.ID,
		VendorID:   vendor.ID,
		Channel:    model.ChannelEmail,
		Recipient:  d.Recipient,
	}); err != nil {
		// The message left the building; a failed log write is reported
		// but does not undo the send.
		s.Log.Error("failed to write email send log", zap.Error(err))
	}
	return d
}

func (s *CampaignService) dispatchWhatsApp(campaign *model.Campaign, tpl *model.WhatsAppTemplate, vendor *model.Vendor) VendorDispatch {
	d := VendorDispatch{
		VendorID:   vendor.ID,
		VendorName: vendor.VendorName,
		Channel:    model.ChannelWhatsApp,
	}

	phone := notify.NormalizePhone(*vendor.Phone, s.CountryPrefix)
	if phone == "" {
		d.Err = fmt.Errorf("vendor phone %q is not dialable", *vendor.Phone)
		return d
	}
	d.Recipient = phone

	message := RenderTemplate(tpl.Content, vendor.TemplateVars())
	if err := s.WhatsApp.SendMessage(phone, message); err != nil {
		metrics.RecordDispatch(model.ChannelWhatsApp, "failed")
		d.Err = err
		return d
	}
	metrics.RecordDispatch(model.ChannelWhatsApp, "sent")

	if err := s.SendLogRepo.Create(&model.SendLog{
		CampaignID: campaign.ID,
		VendorID:   vendor.ID,
		Channel:    model.ChannelWhatsApp,
		Recipient:  phone,
	}); err != nil {
		s.Log.Error("failed to write whatsapp send log", zap.Error(err))
	}
	return d
}

// resolveTargets turns the campaign's stored vendor id list into vendor rows.
// Ids that do not parse are rejected up front: a malformed target list is a
// campaign configuration problem, not a per-vendor dispatch failure.
func (s *CampaignService) resolveTargets(campaign *model.Campaign) ([]model.Vendor, error) {
	if len(campaign.TargetVendors) == 0 {
		return []model.Vendor{}, nil
	}
	ids := make([]uuid.UUID, 0, len(campaign.TargetVendors))
	for _, raw := range campaign.TargetVendors {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, appErrors.NewValidation("invalid vendor id in target list: %s", raw)
		}
		ids = append(ids, id)
	}
	return s.VendorRepo.GetByIDs(ids)
}

// Preview renders the campaign's templates against one vendor without
// sending anything.
func (s *CampaignService) Preview(campaignID, vendorID uuid.UUID) (map[string]string, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.VendorRepo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, appErrors.NewNotFound("vendor", vendorID.String())
	}

	out := map[string]string{}
	vars := vendor.TemplateVars()
	if campaign.EmailTemplateID != nil {
		tpl, err := s.TemplateRepo.GetEmailByID(*campaign.EmailTemplateID)
		if err != nil {
			return nil, err
		}
		if tpl != nil {
			out["email_subject"] = RenderTemplate(tpl.Subject, vars)
			out["email_body"] = RenderTemplate(tpl.Body, vars)
		}
	}
	if campaign.WhatsAppTemplateID != nil {
		tpl, err := s.TemplateRepo.GetWhatsAppByID(*campaign.WhatsAppTemplateID)
		if err != nil {
			return nil, err
		}
		if tpl != nil {
			out["whatsapp_message"] = RenderTemplate(tpl.Content, vars)
		}
	}
	return out, nil
}

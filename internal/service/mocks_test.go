package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

// In-memory repository doubles shared by the service tests.

type mockVendorRepo struct {
	vendors []model.Vendor

	bulkInserted [][]model.Vendor
}

func (m *mockVendorRepo) List(offset, limit int, search, msmeStatus string) ([]model.Vendor, int, error) {
	return m.vendors, len(m.vendors), nil
}

func (m *mockVendorRepo) ListAll() ([]model.Vendor, error) { return m.vendors, nil }

func (m *mockVendorRepo) GetByID(id uuid.UUID) (*model.Vendor, error) {
	for i := range m.vendors {
		if m.vendors[i].ID == id {
			return &m.vendors[i], nil
		}
	}
	return nil, nil
}

func (m *mockVendorRepo) GetByIDs(ids []uuid.UUID) ([]model.Vendor, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Vendor
	for _, v := range m.vendors {
		if want[v.ID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVendorRepo) GetByCode(code string) (*model.Vendor, error) {
	for i := range m.vendors {
		if m.vendors[i].VendorCode == code {
			return &m.vendors[i], nil
		}
	}
	return nil, nil
}

func (m *mockVendorRepo) ExistingCodes(codes []string) ([]string, error) {
	stored := map[string]bool{}
	for _, v := range m.vendors {
		stored[v.VendorCode] = true
	}
	var out []string
	for _, c := range codes {
		if stored[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockVendorRepo) Create(v *model.Vendor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.vendors = append(m.vendors, *v)
	return nil
}

func (m *mockVendorRepo) BulkInsert(vendors []model.Vendor) error {
	for i := range vendors {
		if vendors[i].ID == uuid.Nil {
			vendors[i].ID = uuid.New()
		}
	}
	m.bulkInserted = append(m.bulkInserted, vendors)
	m.vendors = append(m.vendors, vendors...)
	return nil
}

func (m *mockVendorRepo) Update(id uuid.UUID, patch *repository.VendorPatch) (*model.Vendor, error) {
	return m.GetByID(id)
}

func (m *mockVendorRepo) Delete(id uuid.UUID) error { return nil }

func (m *mockVendorRepo) BulkDelete(ids []uuid.UUID) (int64, error) { return int64(len(ids)), nil }

func (m *mockVendorRepo) Count() (int, error) { return len(m.vendors), nil }

type mockCampaignRepo struct {
	campaigns map[uuid.UUID]*model.Campaign

	statusUpdates map[uuid.UUID]string
}

func newMockCampaignRepo(campaigns ...*model.Campaign) *mockCampaignRepo {
	m := &mockCampaignRepo{
		campaigns:     map[uuid.UUID]*model.Campaign{},
		statusUpdates: map[uuid.UUID]string{},
	}
	for _, c := range campaigns {
		m.campaigns[c.ID] = c
	}
	return m
}

func (m *mockCampaignRepo) List(offset, limit int, status, search string) ([]model.Campaign, int, error) {
	var out []model.Campaign
	for _, c := range m.campaigns {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCampaignRepo) GetByID(id uuid.UUID) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewNotFound("campaign", id.String())
	}
	return c, nil
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepo) Update(id uuid.UUID, patch *repository.CampaignPatch) (*model.Campaign, error) {
	return m.campaigns[id], nil
}

func (m *mockCampaignRepo) UpdateStatus(id uuid.UUID, status string) error {
	m.statusUpdates[id] = status
	if c, ok := m.campaigns[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *mockCampaignRepo) Delete(id uuid.UUID) error { return nil }

func (m *mockCampaignRepo) CountByStatus() (map[string]int, error) {
	counts := map[string]int{}
	for _, c := range m.campaigns {
		counts[c.Status]++
	}
	return counts, nil
}

type mockTemplateRepo struct {
	emails   map[uuid.UUID]*model.EmailTemplate
	whatsapp map[uuid.UUID]*model.WhatsAppTemplate
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{
		emails:   map[uuid.UUID]*model.EmailTemplate{},
		whatsapp: map[uuid.UUID]*model.WhatsAppTemplate{},
	}
}

func (m *mockTemplateRepo) ListEmail(offset, limit int, search string) ([]model.EmailTemplate, error) {
	return nil, nil
}

func (m *mockTemplateRepo) GetEmailByID(id uuid.UUID) (*model.EmailTemplate, error) {
	return m.emails[id], nil
}

func (m *mockTemplateRepo) CreateEmail(t *model.EmailTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.emails[t.ID] = t
	return nil
}

func (m *mockTemplateRepo) UpdateEmail(id uuid.UUID, patch *repository.EmailTemplatePatch) (*model.EmailTemplate, error) {
	return m.emails[id], nil
}

func (m *mockTemplateRepo) DeleteEmail(id uuid.UUID) error {
	delete(m.emails, id)
	return nil
}

func (m *mockTemplateRepo) ListWhatsApp(offset, limit int, search string) ([]model.WhatsAppTemplate, error) {
	return nil, nil
}

func (m *mockTemplateRepo) GetWhatsAppByID(id uuid.UUID) (*model.WhatsAppTemplate, error) {
	return m.whatsapp[id], nil
}

func (m *mockTemplateRepo) CreateWhatsApp(t *model.WhatsAppTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.whatsapp[t.ID] = t
	return nil
}

func (m *mockTemplateRepo) UpdateWhatsApp(id uuid.UUID, patch *repository.WhatsAppTemplatePatch) (*model.WhatsAppTemplate, error) {
	return m.whatsapp[id], nil
}

func (m *mockTemplateRepo) DeleteWhatsApp(id uuid.UUID) error {
	delete(m.whatsapp, id)
	return nil
}

func (m *mockTemplateRepo) CountCampaignsReferencing(templateID uuid.UUID, channel, status string) (int, error) {
	return 0, nil
}

func (m *mockTemplateRepo) ClearReferences(templateID uuid.UUID, channel string) error { return nil }

type responseKey struct {
	campaign uuid.UUID
	vendor   uuid.UUID
}

type mockResponseRepo struct {
	mu      sync.Mutex
	rows    map[responseKey]*model.CampaignResponse
	creates int
}

func newMockResponseRepo() *mockResponseRepo {
	return &mockResponseRepo{rows: map[responseKey]*model.CampaignResponse{}}
}

func (m *mockResponseRepo) GetByCampaignAndVendor(campaignID, vendorID uuid.UUID) (*model.CampaignResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[responseKey{campaignID, vendorID}], nil
}

func (m *mockResponseRepo) Create(campaignID, vendorID uuid.UUID) (*model.CampaignResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	resp := &model.CampaignResponse{
		ID:         uuid.New(),
		CampaignID: campaignID,
		VendorID:   vendorID,
		Status:     model.ResponsePending,
	}
	m.rows[responseKey{campaignID, vendorID}] = resp
	return resp, nil
}

func (m *mockResponseRepo) SubmitFormData(id uuid.UUID, formData json.RawMessage) error { return nil }

func (m *mockResponseRepo) ListByCampaign(campaignID uuid.UUID) ([]model.CampaignResponse, error) {
	var out []model.CampaignResponse
	for _, r := range m.rows {
		if r.CampaignID == campaignID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockResponseRepo) CountByStatus(campaignID uuid.UUID) (map[string]int, error) {
	counts := map[string]int{}
	for _, r := range m.rows {
		if r.CampaignID == campaignID {
			counts[r.Status]++
		}
	}
	return counts, nil
}

type mockSendLogRepo struct {
	mu   sync.Mutex
	logs []model.SendLog
}

func (m *mockSendLogRepo) Create(log *model.SendLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockSendLogRepo) CountByChannel(campaignID uuid.UUID) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, l := range m.logs {
		if l.CampaignID == campaignID {
			counts[l.Channel]++
		}
	}
	return counts, nil
}

type mockUploadLogRepo struct {
	logs []model.UploadLog
}

func (m *mockUploadLogRepo) BulkCreate(logs []model.UploadLog) error {
	m.logs = append(m.logs, logs...)
	return nil
}

func (m *mockUploadLogRepo) List(offset, limit int) ([]model.UploadLog, int, error) {
	return m.logs, len(m.logs), nil
}

// Sender doubles. failFor makes a specific recipient fail, everything else
// succeeds.

type fakeEmailSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeEmailSender) SendEmail(to, subject, htmlBody string) error {
	if f.failFor[to] {
		return fmt.Errorf("smtp rejected %s", to)
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeWhatsAppSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeWhatsAppSender) SendMessage(phone, message string) error {
	if f.failFor[phone] {
		return fmt.Errorf("whatsapp rejected %s", phone)
	}
	f.sent = append(f.sent, phone)
	return nil
}

type mockFormRepo struct {
	forms     map[uuid.UUID]*model.CustomForm
	responses []model.FormResponse
}

func newMockFormRepo(forms ...*model.CustomForm) *mockFormRepo {
	m := &mockFormRepo{forms: map[uuid.UUID]*model.CustomForm{}}
	for _, f := range forms {
		m.forms[f.ID] = f
	}
	return m
}

func (m *mockFormRepo) List(offset, limit int) ([]model.CustomForm, int, error) {
	var out []model.CustomForm
	for _, f := range m.forms {
		out = append(out, *f)
	}
	return out, len(out), nil
}

func (m *mockFormRepo) GetByID(id uuid.UUID) (*model.CustomForm, error) { return m.forms[id], nil }

func (m *mockFormRepo) GetBySlug(slug string) (*model.CustomForm, error) {
	for _, f := range m.forms {
		if f.Slug == slug {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFormRepo) Create(f *model.CustomForm) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	for i := range f.Fields {
		if f.Fields[i].ID == uuid.Nil {
			f.Fields[i].ID = uuid.New()
		}
	}
	m.forms[f.ID] = f
	return nil
}

func (m *mockFormRepo) Update(id uuid.UUID, patch *repository.FormPatch) (*model.CustomForm, error) {
	return m.forms[id], nil
}

func (m *mockFormRepo) Delete(id uuid.UUID) error {
	delete(m.forms, id)
	return nil
}

func (m *mockFormRepo) ReplaceFields(formID uuid.UUID, fields []model.FormField) error {
	if f, ok := m.forms[formID]; ok {
		f.Fields = fields
	}
	return nil
}

func (m *mockFormRepo) CreateResponse(resp *model.FormResponse) error {
	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}
	m.responses = append(m.responses, *resp)
	return nil
}

func (m *mockFormRepo) ListResponses(formID uuid.UUID, offset, limit int) ([]model.FormResponse, int, error) {
	var out []model.FormResponse
	for _, r := range m.responses {
		if r.FormID == formID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

// Compile-time checks that the doubles satisfy the repository contracts.
var (
	_ repository.VendorRepositoryInterface    = (*mockVendorRepo)(nil)
	_ repository.CampaignRepositoryInterface  = (*mockCampaignRepo)(nil)
	_ repository.TemplateRepositoryInterface  = (*mockTemplateRepo)(nil)
	_ repository.ResponseRepositoryInterface  = (*mockResponseRepo)(nil)
	_ repository.SendLogRepositoryInterface   = (*mockSendLogRepo)(nil)
	_ repository.UploadLogRepositoryInterface = (*mockUploadLogRepo)(nil)
	_ repository.FormRepositoryInterface      = (*mockFormRepo)(nil)
)

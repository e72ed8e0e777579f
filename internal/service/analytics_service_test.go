package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

func TestCampaignAnalytics(t *testing.T) {
	vendorIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	campaign := &model.Campaign{
		ID:     uuid.New(),
		Name:   "Q3 compliance drive",
		Status: model.CampaignActive,
		TargetVendors: []string{
			vendorIDs[0].String(), vendorIDs[1].String(),
			vendorIDs[2].String(), vendorIDs[3].String(),
		},
	}

	responseRepo := newMockResponseRepo()
	for _, vid := range vendorIDs {
		_, err := responseRepo.Create(campaign.ID, vid)
		require.NoError(t, err)
	}
	responseRepo.rows[responseKey{campaign.ID, vendorIDs[0]}].Status = model.ResponseSubmitted
	responseRepo.rows[responseKey{campaign.ID, vendorIDs[1]}].Status = model.ResponseCompleted

	sendLogRepo := &mockSendLogRepo{}
	for _, vid := range vendorIDs {
		require.NoError(t, sendLogRepo.Create(&model.SendLog{
			CampaignID: campaign.ID, VendorID: vid, Channel: model.ChannelEmail,
		}))
	}
	require.NoError(t, sendLogRepo.Create(&model.SendLog{
		CampaignID: campaign.ID, VendorID: vendorIDs[0], Channel: model.ChannelWhatsApp,
	}))

	svc := &AnalyticsService{
		CampaignRepo: newMockCampaignRepo(campaign),
		VendorRepo:   &mockVendorRepo{},
		ResponseRepo: responseRepo,
		SendLogRepo:  sendLogRepo,
	}

	stats, err := svc.CampaignAnalytics(campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalVendors)
	assert.Equal(t, 4, stats.TotalResponses)
	assert.Equal(t, 2, stats.Responses[model.ResponsePending])
	assert.Equal(t, 1, stats.Responses[model.ResponseSubmitted])
	assert.Equal(t, 1, stats.Responses[model.ResponseCompleted])
	assert.Equal(t, 4, stats.SendsByChannel[model.ChannelEmail])
	assert.Equal(t, 1, stats.SendsByChannel[model.ChannelWhatsApp])

	// Submitted + Completed over target count.
	assert.InDelta(t, 50.0, stats.ResponseRate, 0.001)
}

func TestDashboard(t *testing.T) {
	svc := &AnalyticsService{
		CampaignRepo: newMockCampaignRepo(
			&model.Campaign{ID: uuid.New(), Status: model.CampaignDraft},
			&model.Campaign{ID: uuid.New(), Status: model.CampaignActive},
			&model.Campaign{ID: uuid.New(), Status: model.CampaignActive},
		),
		VendorRepo: &mockVendorRepo{vendors: []model.Vendor{
			{ID: uuid.New(), VendorCode: "V1"}, {ID: uuid.New(), VendorCode: "V2"},
		}},
		ResponseRepo: newMockResponseRepo(),
		SendLogRepo:  &mockSendLogRepo{},
	}

	stats, err := svc.Dashboard()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalVendors)
	assert.Equal(t, 3, stats.TotalCampaigns)
	assert.Equal(t, 2, stats.CampaignsByStatus[model.CampaignActive])
	assert.Equal(t, 1, stats.CampaignsByStatus[model.CampaignDraft])
}

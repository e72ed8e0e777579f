package service

import (
	"github.com/google/uuid"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

type AnalyticsService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	VendorRepo   repository.VendorRepositoryInterface
	ResponseRepo repository.ResponseRepositoryInterface
	SendLogRepo  repository.SendLogRepositoryInterface
}

type CampaignAnalytics struct {
	CampaignID     uuid.UUID      `json:"campaign_id"`
	CampaignName   string         `json:"campaign_name"`
	Status         string         `json:"status"`
	TotalVendors   int            `json:"total_vendors"`
	Responses      map[string]int `json:"responses"`
	TotalResponses int            `json:"total_responses"`
	SendsByChannel map[string]int `json:"sends_by_channel"`
	ResponseRate   float64        `json:"response_rate"`
}

// CampaignAnalytics aggregates response and dispatch counts for one campaign.
func (s *AnalyticsService) CampaignAnalytics(campaignID uuid.UUID) (*CampaignAnalytics, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	responses, err := s.ResponseRepo.CountByStatus(campaignID)
	if err != nil {
		return nil, err
	}
	sends, err := s.SendLogRepo.CountByChannel(campaignID)
	if err != nil {
		return nil, err
	}

	out := &CampaignAnalytics{
		CampaignID:     campaign.ID,
		CampaignName:   campaign.Name,
		Status:         campaign.Status,
		TotalVendors:   len(campaign.TargetVendors),
		Responses:      responses,
		SendsByChannel: sends,
	}
	for _, n := range responses {
		out.TotalResponses += n
	}
	if out.TotalVendors > 0 {
		done := responses[model.ResponseSubmitted] + responses[model.ResponseCompleted]
		out.ResponseRate = float64(done) / float64(out.TotalVendors) * 100
	}
	return out, nil
}

type DashboardStats struct {
	TotalVendors      int            `json:"total_vendors"`
	CampaignsByStatus map[string]int `json:"campaigns_by_status"`
	TotalCampaigns    int            `json:"total_campaigns"`
}

// Dashboard returns the headline numbers for the landing page.
func (s *AnalyticsService) Dashboard() (*DashboardStats, error) {
	vendorCount, err := s.VendorRepo.Count()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.CampaignRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	out := &DashboardStats{
		TotalVendors:      vendorCount,
		CampaignsByStatus: byStatus,
	}
	for _, n := range byStatus {
		out.TotalCampaigns += n
	}
	return out, nil
}

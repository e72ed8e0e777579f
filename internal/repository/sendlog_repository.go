package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type SendLogRepositoryInterface interface {
	Create(log *model.SendLog) error
	CountByChannel(campaignID uuid.UUID) (map[string]int, error)
}

type SendLogRepository struct {
	DB *sql.DB
}

func (r *SendLogRepository) Create(log *model.SendLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.SentAt.IsZero() {
		log.SentAt = time.Now()
	}
	_, err := r.DB.Exec(`
        INSERT INTO send_logs (id, campaign_id, vendor_id, channel, recipient, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.CampaignID, log.VendorID, log.Channel, log.Recipient, log.SentAt,
	)
	return err
}

func (r *SendLogRepository) CountByChannel(campaignID uuid.UUID) (map[string]int, error) {
	rows, err := r.DB.Query(`
        SELECT channel, COUNT(*) FROM send_logs
        WHERE campaign_id=$1 GROUP BY channel`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var channel string
		var n int
		if err := rows.Scan(&channel, &n); err != nil {
			return nil, err
		}
		counts[channel] = n
	}
	return counts, rows.Err()
}

var _ SendLogRepositoryInterface = (*SendLogRepository)(nil)

package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/config"
	"github.com/unclebandit/campaigncentral-backend/internal/db"
	"github.com/unclebandit/campaigncentral-backend/internal/logger"
	"github.com/unclebandit/campaigncentral-backend/internal/metrics"
	"github.com/unclebandit/campaigncentral-backend/internal/notify"
	"github.com/unclebandit/campaigncentral-backend/internal/queue"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
	"github.com/unclebandit/campaigncentral-backend/internal/service"
)

const maxJobRetries = 3

// The worker drains the campaign execution queue: each job is one campaign
// id whose dispatch loop runs here instead of inside the API request.
func main() {
	log := logger.Get()
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()
	metrics.Init(cfg.MetricsPrefix)

	database, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	campaignService := &service.CampaignService{
		CampaignRepo:  &repository.CampaignRepository{DB: database},
		VendorRepo:    &repository.VendorRepository{DB: database},
		TemplateRepo:  &repository.TemplateRepository{DB: database},
		ResponseRepo:  &repository.ResponseRepository{DB: database},
		SendLogRepo:   &repository.SendLogRepository{DB: database},
		Email:         notify.NewSendGridSender(cfg.EmailAPIKey, cfg.EmailAPIURL, cfg.FromEmail, log),
		WhatsApp:      notify.NewGraphAPISender(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAPIVersion, log),
		CountryPrefix: cfg.DefaultCountryPrefix,
		Log:           log,
	}

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.Fatal("amqp connection failed", zap.Error(err))
	}
	defer q.Close()

	err = q.Consume(queue.CampaignExecutions, maxJobRetries, func(body []byte) error {
		var job queue.ExecutionJob
		if err := json.Unmarshal(body, &job); err != nil {
			log.Error("unreadable execution job", zap.Error(err))
			return nil // poison message, do not requeue
		}
		id, err := uuid.Parse(job.CampaignID)
		if err != nil {
			log.Error("execution job with bad campaign id", zap.String("campaign_id", job.CampaignID))
			return nil
		}

		summary, err := campaignService.Execute(id)
		if err != nil {
			log.Error("campaign execution failed", zap.String("campaign_id", job.CampaignID), zap.Error(err))
			return err
		}
		log.Info("campaign executed from queue",
			zap.String("campaign_id", job.CampaignID),
			zap.Int("emails_sent", len(summary.EmailsSent)),
			zap.Int("whatsapp_sent", summary.WhatsAppSent),
			zap.Int("errors", len(summary.Errors)))
		return nil
	})
	if err != nil {
		log.Fatal("consumer setup failed", zap.Error(err))
	}

	log.Info("worker consuming", zap.String("queue", queue.CampaignExecutions))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("worker shutting down")
}

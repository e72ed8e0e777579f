package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/config"
	"github.com/unclebandit/campaigncentral-backend/internal/controller"
	"github.com/unclebandit/campaigncentral-backend/internal/db"
	"github.com/unclebandit/campaigncentral-backend/internal/logger"
	"github.com/unclebandit/campaigncentral-backend/internal/metrics"
	"github.com/unclebandit/campaigncentral-backend/internal/middleware"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/notify"
	"github.com/unclebandit/campaigncentral-backend/internal/queue"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
	"github.com/unclebandit/campaigncentral-backend/internal/service"

	"github.com/google/uuid"
)

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

	userRepo := &repository.UserRepository{DB: database}
	vendorRepo := &repository.VendorRepository{DB: database}
	campaignRepo := &repository.CampaignRepository{DB: database}
	templateRepo := &repository.TemplateRepository{DB: database}
	responseRepo := &repository.ResponseRepository{DB: database}
	sendLogRepo := &repository.SendLogRepository{DB: database}
	uploadLogRepo := &repository.UploadLogRepository{DB: database}
	formRepo := &repository.FormRepository{DB: database}

	emailSender := notify.NewSendGridSender(cfg.EmailAPIKey, cfg.EmailAPIURL, cfg.FromEmail, log)
	whatsappSender := notify.NewGraphAPISender(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAPIVersion, log)

	campaignService := &service.CampaignService{
		CampaignRepo:  campaignRepo,
		VendorRepo:    vendorRepo,
		TemplateRepo:  templateRepo,
		ResponseRepo:  responseRepo,
		SendLogRepo:   sendLogRepo,
		Email:         emailSender,
		WhatsApp:      whatsappSender,
		CountryPrefix: cfg.DefaultCountryPrefix,
		Log:           log,
	}
	importService := &service.ImportService{
		VendorRepo:        vendorRepo,
		UploadLogRepo:     uploadLogRepo,
		DefaultMSMEStatus: cfg.DefaultMSMEStatus,
		Log:               log,
	}
	exportService := &service.ExportService{VendorRepo: vendorRepo}
	formService := &service.FormService{FormRepo: formRepo, Log: log}
	analyticsService := &service.AnalyticsService{
		CampaignRepo: campaignRepo,
		VendorRepo:   vendorRepo,
		ResponseRepo: responseRepo,
		SendLogRepo:  sendLogRepo,
	}

	// Prefer the broker; without one, scheduled executions run in-process.
	var q queue.Queue
	if amqpQueue, err := queue.DialAMQP(cfg.AMQPURL); err == nil {
		defer amqpQueue.Close()
		q = amqpQueue
		log.Info("connected to amqp broker")
	} else {
		log.Warn("amqp unavailable, scheduled executions run in-process", zap.Error(err))
		mem := queue.NewInMemoryQueue(log)
		mem.Subscribe(queue.CampaignExecutions, func(body []byte) error {
			var job queue.ExecutionJob
			if err := json.Unmarshal(body, &job); err != nil {
				return err
			}
			id, err := uuid.Parse(job.CampaignID)
			if err != nil {
				return err
			}
			_, err = campaignService.Execute(id)
			return err
		})
		q = mem
	}

	authController := &controller.AuthController{
		UserRepo:   userRepo,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
		Log:        log,
	}
	vendorController := &controller.VendorController{Repo: vendorRepo, Export: exportService, Log: log}
	campaignController := &controller.CampaignController{
		Repo:         campaignRepo,
		TemplateRepo: templateRepo,
		ResponseRepo: responseRepo,
		Service:      campaignService,
		Analytics:    analyticsService,
		Queue:        q,
		Log:          log,
	}
	templateController := &controller.TemplateController{Repo: templateRepo, Log: log}
	formController := &controller.FormController{Repo: formRepo, Service: formService, Log: log}
	uploadController := &controller.UploadController{
		Import:         importService,
		Export:         exportService,
		UploadLogRepo:  uploadLogRepo,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            log,
	}
	analyticsController := &controller.AnalyticsController{Service: analyticsService}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authController.Login)

		r.Route("/forms", func(r chi.Router) {
			// Public endpoints used by the vendor-facing renderer.
			r.Get("/public/{slug}", formController.PublicGet)
			r.Post("/public/{slug}/responses", formController.PublicSubmit)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(cfg.JWTSecret, log))
				r.Get("/", formController.List)
				r.Get("/{id}", formController.Get)
				r.Get("/{id}/responses", formController.ListResponses)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCampaignManager))
					r.Post("/", formController.Create)
					r.Put("/{id}", formController.Update)
					r.Put("/{id}/fields", formController.ReplaceFields)
					r.Delete("/{id}", formController.Delete)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.JWTSecret, log))

			r.Get("/auth/me", authController.Me)
			r.With(middleware.RequireRole(model.RoleAdmin)).
				Post("/auth/register", authController.Register)

			r.Get("/analytics/dashboard", analyticsController.Dashboard)

			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", vendorController.List)
				r.Get("/export", vendorController.ExportXLSX)
				r.Get("/{id}", vendorController.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCampaignManager))
					r.Post("/", vendorController.Create)
					r.Put("/{id}", vendorController.Update)
					r.Delete("/{id}", vendorController.Delete)
					r.Post("/bulk-delete", vendorController.BulkDelete)
				})
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", campaignController.List)
				r.Get("/{id}", campaignController.Get)
				r.Get("/{id}/analytics", campaignController.CampaignAnalytics)
				r.Get("/{id}/responses", campaignController.Responses)
				r.Get("/{id}/preview/{vendorID}", campaignController.Preview)
				r.Put("/{id}/responses/{vendorID}", campaignController.SubmitResponse)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCampaignManager))
					r.Post("/", campaignController.Create)
					r.Put("/{id}", campaignController.Update)
					r.Delete("/{id}", campaignController.Delete)
					r.Post("/{id}/execute", campaignController.Execute)
					r.Post("/{id}/schedule", campaignController.Schedule)
				})
			})

			r.Route("/templates", func(r chi.Router) {
				r.Get("/email", templateController.ListEmail)
				r.Get("/email/{id}", templateController.GetEmail)
				r.Post("/email/{id}/preview", templateController.PreviewEmail)
				r.Get("/whatsapp", templateController.ListWhatsApp)
				r.Get("/whatsapp/{id}", templateController.GetWhatsApp)
				r.Post("/whatsapp/{id}/preview", templateController.PreviewWhatsApp)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCampaignManager))
					r.Post("/email", templateController.CreateEmail)
					r.Put("/email/{id}", templateController.UpdateEmail)
					r.Delete("/email/{id}", templateController.DeleteEmail)
					r.Post("/whatsapp", templateController.CreateWhatsApp)
					r.Put("/whatsapp/{id}", templateController.UpdateWhatsApp)
					r.Delete("/whatsapp/{id}", templateController.DeleteWhatsApp)
				})
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Get("/logs", uploadController.ListLogs)
				r.Get("/template", uploadController.BlankTemplate)
				r.With(middleware.RequireRole(model.RoleAdmin, model.RoleCampaignManager)).
					Post("/vendors", uploadController.ImportVendors)
			})
		})
	})

	log.Info("server listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

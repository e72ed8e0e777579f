package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unclebandit/campaigncentral-backend/internal/config"
	"github.com/unclebandit/campaigncentral-backend/internal/db"
	"github.com/unclebandit/campaigncentral-backend/internal/logger"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

// The seeder applies the schema and inserts the baseline rows a fresh
// environment needs: the admin account, a handful of vendors and one
// template per channel. Every insert is lookup-before-insert, so running
// the seeder twice is harmless.
func main() {
	log := logger.Get()
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	database, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	schemaFile := "migrations/schema.sql"
	schema, err := os.ReadFile(schemaFile)
	if err != nil {
		log.Fatal("failed to read schema", zap.String("file", schemaFile), zap.Error(err))
	}
	if _, err := database.Exec(string(schema)); err != nil {
		log.Fatal("failed to apply schema", zap.Error(err))
	}
	log.Info("schema applied", zap.String("file", schemaFile))

	userRepo := &repository.UserRepository{DB: database}
	vendorRepo := &repository.VendorRepository{DB: database}
	templateRepo := &repository.TemplateRepository{DB: database}

	adminEmail := getenv("SEED_ADMIN_EMAIL", "admin@example.com")
	existing, err := userRepo.GetByEmail(adminEmail)
	if err != nil {
		log.Fatal("admin lookup failed", zap.Error(err))
	}
	if existing == nil {
		password := getenv("SEED_ADMIN_PASSWORD", "changeme123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
		if err != nil {
			log.Fatal("bcrypt failed", zap.Error(err))
		}
		admin := &model.User{
			Email:        adminEmail,
			PasswordHash: string(hash),
			FullName:     "Administrator",
			Role:         model.RoleAdmin,
			IsActive:     true,
		}
		if err := userRepo.Create(admin); err != nil {
			log.Fatal("failed to create admin", zap.Error(err))
		}
		log.Info("admin user created", zap.String("email", adminEmail))
	}

	vendors := []model.Vendor{
		{VendorCode: "V001", VendorName: "Acme Industries", Email: ptr("contact@acme.example"),
			Phone: ptr("9876543210"), MSMEStatus: ptr(model.MSMECertified), Location: ptr("Mumbai")},
		{VendorCode: "V002", VendorName: "Bharat Metals", Email: ptr("sales@bharatmetals.example"),
			Phone: ptr("9123456780"), MSMEStatus: ptr(model.MSMENon), Location: ptr("Pune")},
		{VendorCode: "V003", VendorName: "Sunrise Traders", Email: ptr("info@sunrise.example"),
			MSMEStatus: ptr(model.MSMEPending), Location: ptr("Delhi")},
	}
	for i := range vendors {
		v := &vendors[i]
		found, err := vendorRepo.GetByCode(v.VendorCode)
		if err != nil {
			log.Fatal("vendor lookup failed", zap.Error(err))
		}
		if found != nil {
			continue
		}
		if err := vendorRepo.Create(v); err != nil {
			log.Fatal("failed to create vendor", zap.String("vendor_code", v.VendorCode), zap.Error(err))
		}
		log.Info("vendor created", zap.String("vendor_code", v.VendorCode))
	}

	emailTemplates, err := templateRepo.ListEmail(0, 1, "MSME Compliance Reminder")
	if err != nil {
		log.Fatal("template lookup failed", zap.Error(err))
	}
	if len(emailTemplates) == 0 {
		tpl := &model.EmailTemplate{
			Name:    "MSME Compliance Reminder",
			Subject: "Action required: MSME declaration for {vendor_name}",
			Body: "Dear {vendor_name},<br><br>Our records show vendor code {vendor_code} " +
				"has a pending MSME compliance declaration. Please submit it at your " +
				"earliest convenience.<br><br>Regards,<br>Compliance Team",
			Variables: []string{"vendor_name", "vendor_code"},
		}
		if err := templateRepo.CreateEmail(tpl); err != nil {
			log.Fatal("failed to create email template", zap.Error(err))
		}
		log.Info("email template created", zap.String("name", tpl.Name))
	}

	waTemplates, err := templateRepo.ListWhatsApp(0, 1, "MSME Compliance Reminder")
	if err != nil {
		log.Fatal("template lookup failed", zap.Error(err))
	}
	if len(waTemplates) == 0 {
		tpl := &model.WhatsAppTemplate{
			Name: "MSME Compliance Reminder",
			Content: "Hello {vendor_name}, vendor code {vendor_code} has a pending MSME " +
				"compliance declaration. Please complete it soon. - Compliance Team",
			Variables: []string{"vendor_name", "vendor_code"},
		}
		if err := templateRepo.CreateWhatsApp(tpl); err != nil {
			log.Fatal("failed to create whatsapp template", zap.Error(err))
		}
		log.Info("whatsapp template created", zap.String("name", tpl.Name))
	}

	log.Info("seeding completed")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ptr[T any](v T) *T {
	return &v
}

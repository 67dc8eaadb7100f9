package config

import (
	"os"
)

type S3Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Endpoint        string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceIDPro    string
	PriceIDElite  string
}

type Config struct {
	Port             string
	DatabaseURL      string
	FrontendURL      string
	FilesDir         string
	DownloadSecret   string
	TelegramBotToken string
	OpenAIKey        string
	ResendAPIKey     string
	AdminEmail       string
	Stripe           StripeConfig
	S3               S3Config
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),
		FilesDir:         getEnv("FILES_DIR", "./uploads"),
		DownloadSecret:   os.Getenv("DOWNLOAD_TOKEN_SECRET"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
	}

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.PriceIDPro = os.Getenv("STRIPE_PRICE_ID_PRO")
	cfg.Stripe.PriceIDElite = os.Getenv("STRIPE_PRICE_ID_ELITE")

	cfg.S3.AccountID = os.Getenv("S3_ACCOUNT_ID")
	cfg.S3.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	cfg.S3.Bucket = os.Getenv("S3_BUCKET")
	cfg.S3.Region = getEnv("S3_REGION", "auto")
	cfg.S3.Endpoint = os.Getenv("S3_ENDPOINT")

	return cfg
}

// UseS3 reports whether note files go to the bucket instead of the local
// files directory.
func (c *Config) UseS3() bool {
	return c.S3.Bucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

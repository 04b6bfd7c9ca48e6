package config

import (
	"log"
	"os"
)

// Config carries everything the API reads from the environment. Loaded once
// in cmd/api; handlers and services receive what they need at construction.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	// Shared secrets. AdminSecret guards the admin surface, IntakeSecret
	// guards quote generation.
	AdminSecret  string
	IntakeSecret string

	// Base URL the customer-facing viewer lives under, e.g.
	// https://quotes.example.com. Public quote links are built from it.
	PublicBaseURL string

	ServiceM8APIKey  string
	ServiceM8BaseURL string

	MuxTokenID     string
	MuxTokenSecret string
	MuxBaseURL     string

	ZapierWebhookURL string
}

func MustLoad() Config {
	return Config{
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		DatabaseURL: mustEnv("DATABASE_URL"),

		AdminSecret:  mustEnv("ADMIN_SECRET"),
		IntakeSecret: mustEnv("INTAKE_SECRET"),

		PublicBaseURL: env("PUBLIC_QUOTE_BASE_URL", ""),

		ServiceM8APIKey:  env("SERVICEM8_API_KEY", ""),
		ServiceM8BaseURL: env("SERVICEM8_BASE_URL", "https://api.servicem8.com/api_1.0"),

		MuxTokenID:     env("MUX_TOKEN_ID", ""),
		MuxTokenSecret: env("MUX_TOKEN_SECRET", ""),
		MuxBaseURL:     env("MUX_BASE_URL", "https://api.mux.com"),

		ZapierWebhookURL: env("ZAPIER_WEBHOOK_URL", ""),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}

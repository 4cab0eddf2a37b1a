// internal/infra/config/config.go
package config

import "os"

// Config holds all environment-variable settings for the service.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// GCS bucket for product images; empty disables uploads.
	GCSBucket string

	// Secret Manager resource settings for the till passcode.
	// Empty PasscodeSecretID disables the access gate endpoint.
	GCPProjectID     string
	PasscodeSecretID string

	// PostgreSQL reporting mirror; empty DSN disables mirroring.
	PostgresDSN string

	// SendGrid receipt copies; empty key disables mailing.
	SendGridAPIKey string
	ReceiptFrom    string
	ReceiptTo      string
}

// Load reads the environment and returns the Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "quickcheckout-pos")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		GCPProjectID:     defaultProject,
		PasscodeSecretID: os.Getenv("TILL_PASSCODE_SECRET_ID"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		ReceiptFrom:    os.Getenv("RECEIPT_FROM_EMAIL"),
		ReceiptTo:      os.Getenv("RECEIPT_TO_EMAIL"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

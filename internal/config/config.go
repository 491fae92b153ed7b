package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Backing store selection
	StoreBackend        string // "csv", "sheets" or "memory"
	CSVPath             string
	SheetsSpreadsheetID string
	SheetsRange         string
	StoreSchema         string // "canonical" or "legacy"

	// Booking policy switches
	RequirePayment    bool
	MatchPatientName  bool
	InclusiveCutoff   bool
	UpcomingAscending bool
	ArchivedAscending bool
	SortDayByTime     bool

	// Optional S3 snapshots of the bookings table
	SnapshotBucket string
	AWSRegion      string

	// Optional operator email on new bookings
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	NotifyEmail       string
	NotifyEmailName   string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		StoreBackend:        strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "csv"))),
		CSVPath:             getEnv("CSV_PATH", "bookings.csv"),
		SheetsSpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsRange:         getEnv("SHEETS_RANGE", "Bookings"),
		StoreSchema:         strings.ToLower(strings.TrimSpace(getEnv("STORE_SCHEMA", "canonical"))),

		RequirePayment:    getEnvAsBool("REQUIRE_PAYMENT", false),
		MatchPatientName:  getEnvAsBool("MATCH_PATIENT_NAME", false),
		InclusiveCutoff:   getEnvAsBool("INCLUSIVE_CUTOFF", true),
		UpcomingAscending: getEnvAsBool("UPCOMING_ASCENDING", true),
		ArchivedAscending: getEnvAsBool("ARCHIVED_ASCENDING", false),
		SortDayByTime:     getEnvAsBool("SORT_DAY_BY_TIME", false),

		SnapshotBucket: getEnv("SNAPSHOT_BUCKET", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Kawa Clinic"),
		NotifyEmail:       getEnv("NOTIFY_EMAIL", ""),
		NotifyEmailName:   getEnv("NOTIFY_EMAIL_NAME", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Gmail    GmailConfig
	Archive  ArchiveConfig
	Records  RecordsConfig
	Notify   NotifyConfig
	OCR      OCRConfig
	Pipeline PipelineConfig
}

// GmailConfig holds the transport-side Gmail settings.
type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
	SubjectFilter   string
}

// ArchiveConfig holds the Google Drive archive settings.
type ArchiveConfig struct {
	FolderID string
}

// RecordsConfig holds the Google Sheets record store settings.
type RecordsConfig struct {
	SpreadsheetID string
	SheetName     string
}

// NotifyConfig holds reviewer notification settings.
type NotifyConfig struct {
	Enabled       bool
	ReviewerEmail string
}

// OCRConfig holds settings for the scanned-document fallback.
type OCRConfig struct {
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
}

// PipelineConfig holds batch-run settings.
type PipelineConfig struct {
	SpoolDir     string
	HashLogPath  string
	InterDocWait time.Duration
	CallTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Gmail: GmailConfig{
			CredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", "credentials.json"),
			TokenFile:       getEnv("GMAIL_TOKEN_FILE", "token.json"),
			SubjectFilter:   getEnv("SUBJECT_FILTER", "Job Application"),
		},
		Archive: ArchiveConfig{
			FolderID: getEnv("DRIVE_FOLDER_ID", ""),
		},
		Records: RecordsConfig{
			SpreadsheetID: getEnv("SHEET_ID", ""),
			SheetName:     getEnv("SHEET_NAME", "Sheet1"),
		},
		Notify: NotifyConfig{
			Enabled:       getEnvAsBool("NOTIFY_ENABLED", false),
			ReviewerEmail: getEnv("REVIEWER_EMAIL", ""),
		},
		OCR: OCRConfig{
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Pipeline: PipelineConfig{
			SpoolDir:     getEnv("LOCAL_FOLDER", "./Resume"),
			HashLogPath:  getEnv("HASH_LOG_PATH", ""),
			InterDocWait: getEnvAsDuration("INTER_DOC_WAIT", time.Second),
			CallTimeout:  getEnvAsDuration("CALL_TIMEOUT", 60*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. Called before any side
// effect; a failure here is fatal for the run.
func (c *Config) Validate() error {
	if c.Archive.FolderID == "" {
		return NewAppError("CONFIG_ERROR", "DRIVE_FOLDER_ID is required", ErrInvalidInput)
	}
	if c.Records.SpreadsheetID == "" {
		return NewAppError("CONFIG_ERROR", "SHEET_ID is required", ErrInvalidInput)
	}
	if c.Gmail.CredentialsFile == "" {
		return NewAppError("CONFIG_ERROR", "GMAIL_CREDENTIALS_FILE is required", ErrInvalidInput)
	}
	if c.Notify.Enabled && c.Notify.ReviewerEmail == "" {
		return NewAppError("CONFIG_ERROR", "REVIEWER_EMAIL is required when NOTIFY_ENABLED is set", ErrInvalidInput)
	}
	return nil
}

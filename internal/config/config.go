package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JIDAIN/bill/internal/ingest"
)

type Config struct {
	// HTTP Server
	Port string

	// Source backend: "upload" (multipart file) or "sheets" (Google Sheets)
	SourceBackend string

	// Google Sheets (sheets backend only)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Input file contract: column names and flow-type literals
	DateColumn        string
	AmountColumn      string
	FlowColumn        string
	CategoryColumn    string
	SubCategoryColumn string
	TagColumn         string
	IncomeLiteral     string
	ExpenseLiteral    string
	DateLayouts       []string

	// Trend section layout: ordered category list; categories not listed
	// are omitted from the trend section
	TrendCategories []string

	// Parse cache
	ParseCacheSize  int
	ParseCacheTTL   time.Duration
	CacheSweepEvery time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8081"),
		SourceBackend: getEnv("BILL_SOURCE_BACKEND", "upload"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),

		DateColumn:        getEnv("BILL_DATE_COLUMN", "date"),
		AmountColumn:      getEnv("BILL_AMOUNT_COLUMN", "amount"),
		FlowColumn:        getEnv("BILL_FLOW_COLUMN", "type"),
		CategoryColumn:    getEnv("BILL_CATEGORY_COLUMN", "category"),
		SubCategoryColumn: getEnv("BILL_SUBCATEGORY_COLUMN", "subcategory"),
		TagColumn:         getEnv("BILL_TAG_COLUMN", "tag"),
		IncomeLiteral:     getEnv("BILL_INCOME_LITERAL", "income"),
		ExpenseLiteral:    getEnv("BILL_EXPENSE_LITERAL", "expense"),
		DateLayouts:       getEnvList("BILL_DATE_LAYOUTS", nil),

		TrendCategories: getEnvList("BILL_TREND_CATEGORIES", nil),

		ParseCacheSize:  getEnvInt("BILL_PARSE_CACHE_SIZE", 8),
		ParseCacheTTL:   getEnvDuration("BILL_PARSE_CACHE_TTL", 30*time.Minute),
		CacheSweepEvery: getEnvDuration("BILL_CACHE_SWEEP_EVERY", 5*time.Minute),
	}

	return cfg
}

// Schema returns the ingest schema described by this configuration.
func (c *Config) Schema() ingest.Schema {
	layouts := c.DateLayouts
	if len(layouts) == 0 {
		layouts = ingest.DefaultDateLayouts
	}
	return ingest.Schema{
		DateColumn:        c.DateColumn,
		AmountColumn:      c.AmountColumn,
		FlowColumn:        c.FlowColumn,
		CategoryColumn:    c.CategoryColumn,
		SubCategoryColumn: c.SubCategoryColumn,
		TagColumn:         c.TagColumn,
		IncomeLiteral:     c.IncomeLiteral,
		ExpenseLiteral:    c.ExpenseLiteral,
		DateLayouts:       layouts,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.SourceBackend {
	case "upload", "sheets":
	default:
		errors = append(errors, fmt.Sprintf("invalid source backend '%s': must be one of [upload sheets]", c.SourceBackend))
	}

	if c.SourceBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}
	}

	for _, col := range []struct{ name, value string }{
		{"date column", c.DateColumn},
		{"amount column", c.AmountColumn},
		{"flow-type column", c.FlowColumn},
		{"category column", c.CategoryColumn},
	} {
		if strings.TrimSpace(col.value) == "" {
			errors = append(errors, fmt.Sprintf("%s name cannot be empty", col.name))
		}
	}

	if strings.TrimSpace(c.IncomeLiteral) == "" || strings.TrimSpace(c.ExpenseLiteral) == "" {
		errors = append(errors, "income and expense literals cannot be empty")
	} else if c.IncomeLiteral == c.ExpenseLiteral {
		errors = append(errors, fmt.Sprintf("income and expense literals must differ, both are '%s'", c.IncomeLiteral))
	}

	if c.ParseCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid parse cache size %d: must be at least 1", c.ParseCacheSize))
	}
	if c.ParseCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid parse cache TTL %v: must be at least 1 second", c.ParseCacheTTL))
	}
	if c.CacheSweepEvery < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache sweep interval %v: must be at least 1 second", c.CacheSweepEvery))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

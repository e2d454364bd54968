package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Audit sink kinds.
const (
	AuditSinkLog   = "log"
	AuditSinkKafka = "kafka"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	MigrationsDir string

	JWTSecret string
	JWTIssuer string

	LogLevel  string
	LogFormat string

	// RateLimit is a ulule/limiter formatted rate such as "100-M".
	RateLimit string

	RedisURL     string
	StatementTTL time.Duration
	AuditSink    string
	KafkaBrokers []string
	KafkaTopic   string
	BulkWorkers  int
	MetricsPath  string
	CORSOrigins  []string
	ServiceName  string
	Environment  string

	// Ledger policy
	AllowParentPosting bool
	PeriodAdminRoles   []string
	DirectApproveRoles []string

	// Code prefixes used to derive cash flow tags for accounts created without explicit tags.
	DeriveTagsFromCode        bool
	CashPrefixes              []string
	FixedAssetPrefixes        []string
	LongTermLiabilityPrefixes []string
	NonCashExpenseCodes       []string
	NonCashContraCodes        []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "erp-finance-core")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("STATEMENT_CACHE_TTL", "15m")
	v.SetDefault("AUDIT_SINK", AuditSinkLog)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_AUDIT_TOPIC", "erp.audit")
	v.SetDefault("WORKFLOW_BULK_WORKERS", 8)
	v.SetDefault("METRICS_PATH", "/metrics")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SERVICE_NAME", "erp-finance-core")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LEDGER_ALLOW_PARENT_POSTING", false)
	v.SetDefault("PERIOD_ADMIN_ROLES", "controller,cfo")
	v.SetDefault("DIRECT_APPROVE_ROLES", "finance_manager,controller,cfo")
	v.SetDefault("CASHFLOW_DERIVE_TAGS_FROM_CODE", true)
	v.SetDefault("CASHFLOW_CASH_PREFIXES", "10")
	v.SetDefault("CASHFLOW_FIXED_ASSET_PREFIXES", "15,16,17")
	v.SetDefault("CASHFLOW_LONG_TERM_LIABILITY_PREFIXES", "25,26")
	v.SetDefault("CASHFLOW_NON_CASH_EXPENSE_CODES", "6080,6170")
	v.SetDefault("CASHFLOW_NON_CASH_CONTRA_CODES", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:   v.GetString("PGSQL_URL"),
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		EnableDBCheck: v.GetBool("ENABLE_DB_CHECK"),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTIssuer:     v.GetString("JWT_ISSUER"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:     strings.ToLower(v.GetString("LOG_FORMAT")),
		RateLimit:     v.GetString("RATE_LIMIT"),
		RedisURL:      v.GetString("REDIS_URL"),
		AuditSink:     strings.ToLower(v.GetString("AUDIT_SINK")),
		KafkaBrokers:  splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:    v.GetString("KAFKA_AUDIT_TOPIC"),
		BulkWorkers:   v.GetInt("WORKFLOW_BULK_WORKERS"),
		MetricsPath:   v.GetString("METRICS_PATH"),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		ServiceName:   v.GetString("SERVICE_NAME"),
		Environment:   v.GetString("ENVIRONMENT"),

		AllowParentPosting: v.GetBool("LEDGER_ALLOW_PARENT_POSTING"),
		PeriodAdminRoles:   splitList(v.GetString("PERIOD_ADMIN_ROLES")),
		DirectApproveRoles: splitList(v.GetString("DIRECT_APPROVE_ROLES")),

		DeriveTagsFromCode:        v.GetBool("CASHFLOW_DERIVE_TAGS_FROM_CODE"),
		CashPrefixes:              splitList(v.GetString("CASHFLOW_CASH_PREFIXES")),
		FixedAssetPrefixes:        splitList(v.GetString("CASHFLOW_FIXED_ASSET_PREFIXES")),
		LongTermLiabilityPrefixes: splitList(v.GetString("CASHFLOW_LONG_TERM_LIABILITY_PREFIXES")),
		NonCashExpenseCodes:       splitList(v.GetString("CASHFLOW_NON_CASH_EXPENSE_CODES")),
		NonCashContraCodes:        splitList(v.GetString("CASHFLOW_NON_CASH_CONTRA_CODES")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	ttl, err := time.ParseDuration(v.GetString("STATEMENT_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATEMENT_CACHE_TTL: %w", err)
	}
	cfg.StatementTTL = ttl

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random"
	}

	switch cfg.AuditSink {
	case AuditSinkLog:
	case AuditSinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("AUDIT_SINK=kafka requires KAFKA_BROKERS")
		}
	default:
		return nil, fmt.Errorf("unknown AUDIT_SINK %q", cfg.AuditSink)
	}

	if cfg.BulkWorkers <= 0 {
		return nil, fmt.Errorf("WORKFLOW_BULK_WORKERS must be positive, got %d", cfg.BulkWorkers)
	}

	return cfg, nil
}

// splitList parses a comma separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

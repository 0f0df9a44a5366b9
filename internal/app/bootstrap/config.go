// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for AdmitFlow, loaded via
// WAFFLE's config system from files, ADMITFLOW_* environment variables,
// or command-line flags.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "admitflow", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "scope_signing_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Signing key for the gateway X-Scope header (must match the gateway)"},

	// File storage for async CSV exports
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads/exports", Desc: "Local storage path for export files"},
	{Name: "storage_local_url", Default: "/files/exports", Desc: "URL prefix for serving local export files"},

	// S3/CloudFront (only used when storage_type is 's3')
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "exports/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@admitflow.example", Desc: "From email address"},
	{Name: "mail_from_name", Default: "AdmitFlow", Desc: "From display name"},

	// Tuning
	{Name: "dashboard_cache_ttl", Default: "60s", Desc: "Dashboard summary cache TTL (e.g. 60s, 5m)"},
	{Name: "task_timeout", Default: "5m", Desc: "Background task timeout (exports, recomputation)"},
}

// LoadConfig loads WAFFLE core config and app-specific config. It is
// called early in startup so that both WAFFLE and the app have access to
// configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ADMITFLOW", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ScopeSigningKey: appValues.String("scope_signing_key"),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		DashboardCacheTTL: appValues.Duration("dashboard_cache_ttl", 60*time.Second),
		TaskTimeout:       appValues.Duration("task_timeout", 5*time.Minute),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backends are touched.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if coreCfg.Env == "prod" && len(appCfg.ScopeSigningKey) < 32 {
		return fmt.Errorf("scope_signing_key must be at least 32 bytes in production")
	}
	if appCfg.StorageType == "s3" {
		if appCfg.StorageS3Region == "" || appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_s3_region and storage_s3_bucket are required when storage_type is 's3'")
		}
	}
	return nil
}

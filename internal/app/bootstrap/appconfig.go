// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig carries everything specific to AdmitFlow:
// database connection, the gateway scope signing key, file storage for
// exports, outbound mail, and tuning knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// ScopeSigningKey verifies the gateway-signed X-Scope header. It must
	// match the gateway's key.
	ScopeSigningKey string

	// File storage configuration for async CSV exports
	StorageType      string // "local" or "s3"
	StorageLocalPath string
	StorageLocalURL  string

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "exports/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Email/SMTP configuration for outreach
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// DashboardCacheTTL bounds how stale dashboard summaries may be.
	DashboardCacheTTL time.Duration

	// TaskTimeout bounds background tasks (exports, eligibility
	// recomputation).
	TaskTimeout time.Duration
}

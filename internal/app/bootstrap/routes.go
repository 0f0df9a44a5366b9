// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	applicationsfeature "github.com/dalemusser/admitflow/internal/app/features/applications"
	communicationsfeature "github.com/dalemusser/admitflow/internal/app/features/communications"
	dashboardfeature "github.com/dalemusser/admitflow/internal/app/features/dashboard"
	enquiriesfeature "github.com/dalemusser/admitflow/internal/app/features/enquiries"
	followupsfeature "github.com/dalemusser/admitflow/internal/app/features/followups"
	healthfeature "github.com/dalemusser/admitflow/internal/app/features/health"
	leadsfeature "github.com/dalemusser/admitflow/internal/app/features/leads"
	scholarshipsfeature "github.com/dalemusser/admitflow/internal/app/features/scholarships"
	"github.com/dalemusser/admitflow/internal/app/system/cache"
	"github.com/dalemusser/admitflow/internal/app/system/notify"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. AdmitFlow builds its shared
// infrastructure here (scope resolver, export storage, task dispatcher,
// dashboard cache, outbound senders) and mounts the feature routers.
//
// Every route except /health sits behind the scope middleware: the
// gateway authenticates callers and forwards a signed X-Scope header
// identifying the college, role, and (for counselors) the counselor id.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	resolver := scope.NewResolver(appCfg.ScopeSigningKey, logger)

	store, err := buildStorage(appCfg)
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}

	dispatcher := tasks.NewDispatcher(logger, appCfg.TaskTimeout)
	dashCache := cache.New(appCfg.DashboardCacheTTL)

	senders := notify.Senders{
		Email: notify.NewSMTPSender(notify.SMTPConfig{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger),
		// SMS and WhatsApp providers are configured per deployment; nil
		// means the channel is reported as not configured.
	}

	errLog := logger.Named("handler")

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Everything below requires a verified scope header.
	r.Group(func(r chi.Router) {
		r.Use(resolver.Middleware)

		leadsHandler := leadsfeature.NewHandler(deps.MongoDatabase, store, dispatcher, errLog, logger)
		r.Mount("/leads", leadsfeature.Routes(leadsHandler))

		appsHandler := applicationsfeature.NewHandler(deps.MongoDatabase, store, dispatcher, errLog, logger)
		r.Mount("/applications", applicationsfeature.Routes(appsHandler))

		scholarshipsHandler := scholarshipsfeature.NewHandler(deps.MongoDatabase, dispatcher, errLog, logger)
		r.Mount("/scholarships", scholarshipsfeature.Routes(scholarshipsHandler))

		followupsHandler := followupsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		r.Mount("/followups", followupsfeature.Routes(followupsHandler))

		dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, dashCache, errLog, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		communicationsHandler := communicationsfeature.NewHandler(deps.MongoDatabase, senders, errLog, logger)
		r.Mount("/communications", communicationsfeature.Routes(communicationsHandler))

		enquiriesHandler := enquiriesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		r.Mount("/enquiries", enquiriesfeature.Routes(enquiriesHandler))
	})

	return r, nil
}

// buildStorage creates the storage backend for CSV exports.
func buildStorage(appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "local":
		return storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
	case "s3":
		return storage.NewS3(context.Background(), storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type %q", appCfg.StorageType)
	}
}

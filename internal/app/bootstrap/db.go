// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/admitflow/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes the query pipelines depend on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDatabase)
}

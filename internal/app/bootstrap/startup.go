// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/admitflow/internal/app/system/constants"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// settingsDoc is the optional per-deployment overrides document in the
// settings collection. Absent document or absent fields keep the
// compiled-in defaults.
type settingsDoc struct {
	TimeoutsMS struct {
		Ping   int64 `bson:"ping,omitempty"`
		Short  int64 `bson:"short,omitempty"`
		Medium int64 `bson:"medium,omitempty"`
		Long   int64 `bson:"long,omitempty"`
		Batch  int64 `bson:"batch,omitempty"`
	} `bson:"timeouts_ms,omitempty"`
	StateNames map[string]string `bson:"state_names,omitempty"`
	BoolFields []string          `bson:"bool_fields,omitempty"`
}

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It loads deployment setting overrides (timeout tuning, state-name and
// boolean-field tables) from the settings collection.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var doc settingsDoc
	err := deps.MongoDatabase.Collection("settings").
		FindOne(ctx, bson.M{"_id": "overrides"}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load settings overrides: %w", err)
	}

	timeouts.Configure(timeouts.Config{
		Ping:   time.Duration(doc.TimeoutsMS.Ping) * time.Millisecond,
		Short:  time.Duration(doc.TimeoutsMS.Short) * time.Millisecond,
		Medium: time.Duration(doc.TimeoutsMS.Medium) * time.Millisecond,
		Long:   time.Duration(doc.TimeoutsMS.Long) * time.Millisecond,
		Batch:  time.Duration(doc.TimeoutsMS.Batch) * time.Millisecond,
	})
	constants.Configure(constants.Config{
		StateNames: doc.StateNames,
		BoolFields: doc.BoolFields,
	})

	logger.Info("applied settings overrides",
		zap.Int("state_names", len(doc.StateNames)),
		zap.Int("bool_fields", len(doc.BoolFields)))
	return nil
}

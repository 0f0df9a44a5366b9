// internal/app/features/dashboard/handler.go
package dashboard

import (
	"github.com/dalemusser/admitflow/internal/app/system/cache"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin dashboard endpoints: the funnel summary with
// change indicators, the source-wise funnel, the lead-stage breakdown,
// and the outreach breakdown. Summaries are cached briefly; scholarship eligibility
// never flows through here and is never cached.
type Handler struct {
	DB     *mongo.Database
	Cache  *cache.Cache
	Log    *zap.Logger
	ErrLog *zap.Logger
}

func NewHandler(db *mongo.Database, c *cache.Cache, errLog, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Cache: c, Log: logger, ErrLog: errLog}
}

// Routes mounts the dashboard routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.ServeSummary)
	r.Get("/sources", h.ServeSources)
	r.Get("/stages", h.ServeStages)
	r.Get("/outreach", h.ServeOutreach)
	return r
}

// internal/app/features/leads/handler.go
package leads

import (
	"github.com/dalemusser/admitflow/internal/app/system/tasks"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the lead endpoints: intake, profile updates,
// verification, counselor assignment, search and list, plus the CSV
// exports, which share the storage and task machinery with the
// application exports.
type Handler struct {
	DB      *mongo.Database
	Storage storage.Store
	Tasks   *tasks.Dispatcher
	Log     *zap.Logger
	ErrLog  *zap.Logger
}

func NewHandler(db *mongo.Database, store storage.Store, dispatcher *tasks.Dispatcher, errLog, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Storage: store,
		Tasks:   dispatcher,
		Log:     logger,
		ErrLog:  errLog,
	}
}

// Routes mounts the lead routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Post("/search", h.HandleSearch)
	r.Get("/lookup", h.HandleLookup)
	r.Post("/assign", h.HandleAssignCounselor)
	r.Post("/export", h.HandleExport)
	r.Post("/export/async", h.HandleExportAsync)
	r.Get("/export/url", h.ServeExportURL)

	r.Get("/{id}", h.ServeLead)
	r.Patch("/{id}", h.HandleUpdate)
	r.Post("/{id}/verify", h.HandleVerify)
	r.Post("/{id}/exclude", h.HandleExclude)
	r.Put("/{id}/education/{level}", h.HandleEducation)

	return r
}

// internal/app/features/applications/handler.go
package applications

import (
	"github.com/dalemusser/admitflow/internal/app/system/tasks"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the application endpoints: intake, funnel events
// (payment, declaration, document verification), list/search, and the
// CSV exports. Exports above the synchronous limit run as background
// tasks and land in object storage.
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

// Routes mounts the application routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Post("/search", h.HandleSearch)
	r.Post("/count", h.HandleCount)
	r.Post("/assign", h.HandleAssignCounselor)
	r.Post("/export", h.HandleExport)
	r.Post("/export/async", h.HandleExportAsync)
	r.Get("/export/url", h.ServeExportURL)

	r.Get("/{id}", h.ServeApplication)
	r.Post("/{id}/payment", h.HandlePayment)
	r.Post("/{id}/declaration", h.HandleDeclaration)
	r.Post("/{id}/dv-status", h.HandleDVStatus)
	r.Post("/{id}/enrollment", h.HandleEnrollment)

	return r
}

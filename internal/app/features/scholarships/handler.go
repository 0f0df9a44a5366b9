// internal/app/features/scholarships/handler.go
package scholarships

import (
	"github.com/dalemusser/admitflow/internal/app/system/tasks"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the scholarship endpoints: definition CRUD, eligibility
// reads, and the offer/delist workflow. Eligibility counters are
// recomputed from live data on every read; after offer and delist
// mutations the counters are refreshed in the background.
type Handler struct {
	DB     *mongo.Database
	Tasks  *tasks.Dispatcher
	Log    *zap.Logger
	ErrLog *zap.Logger
}

func NewHandler(db *mongo.Database, dispatcher *tasks.Dispatcher, errLog, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Tasks: dispatcher, Log: logger, ErrLog: errLog}
}

// Routes mounts the scholarship routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)

	r.Get("/{id}", h.ServeScholarship)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	r.Get("/{id}/eligible", h.ServeEligible)
	r.Post("/{id}/offer", h.HandleOffer)
	r.Post("/{id}/delist", h.HandleDelist)

	return r
}

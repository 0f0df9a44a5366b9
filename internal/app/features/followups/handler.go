// internal/app/features/followups/handler.go
package followups

import (
	"context"
	"encoding/json"
	"net/http"

	followupstore "github.com/dalemusser/admitflow/internal/app/store/followups"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/sanitize"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the follow-up endpoints counselors use to track lead
// stages.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *zap.Logger
}

func NewHandler(db *mongo.Database, errLog, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// Routes mounts the follow-up routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSetStage)
	r.Get("/application/{id}", h.ServeByApplication)
	return r
}

// HandleSetStage records a stage transition with an optional counselor
// note. Notes are sanitized before storage.
func (h *Handler) HandleSetStage(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var body struct {
		ApplicationID primitive.ObjectID `json:"application_id"`
		StudentID     primitive.ObjectID `json:"student_id"`
		LeadStage     string             `json:"lead_stage"`
		Note          string             `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fu := models.LeadFollowUp{
		ApplicationID: body.ApplicationID,
		StudentID:     body.StudentID,
		CollegeID:     sc.CollegeID,
		LeadStage:     body.LeadStage,
	}
	out, err := followupstore.New(h.DB).SetStage(ctx, fu, sanitize.Note(body.Note), sc.CounselorID)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, out, "lead stage recorded")
}

// ServeByApplication returns the follow-up record with full history.
func (h *Handler) ServeByApplication(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("application id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	fu, err := followupstore.New(h.DB).GetByApplication(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, fu, "")
}

// internal/app/features/enquiries/handler.go
package enquiries

import (
	"context"
	"encoding/json"
	"net/http"

	enquirystore "github.com/dalemusser/admitflow/internal/app/store/enquiries"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/app/system/paging"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/sanitize"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the help-desk enquiry endpoints.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *zap.Logger
}

func NewHandler(db *mongo.Database, errLog, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// Routes mounts the enquiry routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Post("/{id}/answer", h.HandleAnswer)
	r.Post("/{id}/close", h.HandleClose)
	return r
}

// HandleCreate opens an enquiry for a lead.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var body struct {
		StudentID primitive.ObjectID `json:"student_id"`
		Subject   string             `json:"subject"`
		Message   string             `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	e := models.Enquiry{
		CollegeID: sc.CollegeID,
		StudentID: body.StudentID,
		Subject:   sanitize.Plain(body.Subject),
		Message:   sanitize.Note(body.Message),
	}
	created, err := enquirystore.New(h.DB).Create(ctx, e)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.Created(w, created, "enquiry created")
}

// ServeList returns a page of enquiries, optionally filtered by status.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)
	pg := paging.Parse(r)
	status := query.Get(r, "status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := enquirystore.New(h.DB).ListByCollege(ctx, sc.CollegeID, status, pg.Skip(), pg.Limit64())
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.Page(w, list, total, "")
}

// HandleAnswer records a counselor's reply.
func (h *Handler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("enquiry id"))
		return
	}

	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	answeredBy := primitive.NilObjectID
	if sc.CounselorID != nil {
		answeredBy = *sc.CounselorID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := enquirystore.New(h.DB).Answer(ctx, id, sanitize.Note(body.Answer), answeredBy); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "enquiry answered")
}

// HandleClose marks an enquiry resolved.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("enquiry id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := enquirystore.New(h.DB).Close(ctx, id); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "enquiry closed")
}

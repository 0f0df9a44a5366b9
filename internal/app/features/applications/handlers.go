// internal/app/features/applications/handlers.go
package applications

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/admitflow/internal/app/features/shared"
	"github.com/dalemusser/admitflow/internal/app/query/projector"
	appstore "github.com/dalemusser/admitflow/internal/app/store/applications"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/app/system/paging"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleCreate opens an application for a lead and course.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var a models.Application
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	a.CollegeID = sc.CollegeID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := appstore.New(h.DB).Create(ctx, a)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.Created(w, created, "application created")
}

// HandleSearch runs the application list pipeline with the posted
// filters and returns one page plus the matched total.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var req shared.ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	pg := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	docs, err := appstore.New(h.DB).List(ctx, req.Params(sc, pg, true))
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	rows := make([]projector.ApplicationRow, len(docs))
	for i, d := range docs {
		rows[i] = projector.ProjectApplication(d)
	}
	respond.Page(w, rows, projector.Total(docs), "")
}

// HandleCount resolves just the matched total for a filter set.
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var req shared.ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	total, err := appstore.New(h.DB).CountMatching(ctx, req.Params(sc, paging.Page{PageNum: 1, Limit: 1}, false))
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, map[string]int64{"count": total}, "")
}

// ServeApplication returns one application.
func (h *Handler) ServeApplication(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("application id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := appstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, a, "")
}

// HandlePayment records the gateway callback.
func (h *Handler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("application id"))
		return
	}

	var info models.PaymentInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	switch info.Status {
	case models.PaymentStatusStarted, models.PaymentStatusCaptured,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		respond.BadRequest(w, "unknown payment status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := appstore.New(h.DB).RecordPayment(ctx, id, info); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "payment recorded")
}

// HandleDeclaration completes the application form.
func (h *Handler) HandleDeclaration(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("application id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := appstore.New(h.DB).SubmitDeclaration(ctx, id); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "declaration submitted")
}

// HandleDVStatus records the document-verification outcome.
func (h *Handler) HandleDVStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("application id"))
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := appstore.New(h.DB).SetDVStatus(ctx, id, body.Status); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "dv status recorded")
}

// HandleEnrollment marks an application enrolled or rejected.
func (h *Handler) HandleEnrollment(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("application id"))
		return
	}

	var body struct {
		Enrolled bool `json:"enrolled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := appstore.New(h.DB).SetEnrolled(ctx, id, body.Enrolled); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "enrollment recorded")
}

// HandleAssignCounselor sets the counselor on a batch of applications.
func (h *Handler) HandleAssignCounselor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ApplicationIDs []primitive.ObjectID `json:"application_ids"`
		CounselorID    primitive.ObjectID   `json:"counselor_id"`
		CounselorName  string               `json:"counselor_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := appstore.New(h.DB).AssignCounselor(ctx, body.ApplicationIDs, body.CounselorID, body.CounselorName)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, map[string]int64{"assigned": n}, "counselor assigned")
}

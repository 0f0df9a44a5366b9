// internal/app/features/leads/handlers.go
package leads

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/admitflow/internal/app/features/shared"
	"github.com/dalemusser/admitflow/internal/app/query/projector"
	leadstore "github.com/dalemusser/admitflow/internal/app/store/leads"
	secondarystore "github.com/dalemusser/admitflow/internal/app/store/secondaryedu"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/app/system/paging"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleCreate ingests a new lead for the caller's college.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var l models.Lead
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	l.CollegeID = sc.CollegeID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := leadstore.New(h.DB).Create(ctx, l)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.Created(w, created, "lead created")
}

// HandleSearch runs the lead list pipeline with the posted filters and
// returns one page plus the matched total.
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

	docs, err := leadstore.New(h.DB).List(ctx, req.Params(sc, pg, true))
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	rows := make([]projector.ApplicationRow, len(docs))
	for i, d := range docs {
		rows[i] = projector.ProjectLead(d)
	}
	respond.Page(w, rows, projector.TotalLeads(docs), "")
}

// HandleLookup is the typeahead search on the folded full name.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	q := query.Get(r, "q")
	if q == "" {
		respond.BadRequest(w, "q is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	found, err := leadstore.New(h.DB).SearchByName(ctx, sc.CollegeID, q, 20)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, found, "")
}

// ServeLead returns one lead.
func (h *Handler) ServeLead(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("lead id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l, err := leadstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, l, "")
}

// HandleUpdate patches mutable profile fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("lead id"))
		return
	}

	var mut models.Lead
	if err := json.NewDecoder(r.Body).Decode(&mut); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := leadstore.New(h.DB).Update(ctx, id, mut); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "lead updated")
}

// HandleVerify records a verification outcome for one channel.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("lead id"))
		return
	}

	var body struct {
		Channel  string `json:"channel"` // email | sms
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := leadstore.New(h.DB).SetVerification(ctx, id, body.Channel, body.Verified); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "verification recorded")
}

// HandleExclude unsubscribes a lead from outreach.
func (h *Handler) HandleExclude(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("lead id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := leadstore.New(h.DB).Exclude(ctx, id); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "lead excluded")
}

// HandleAssignCounselor sets the counselor on a batch of leads.
func (h *Handler) HandleAssignCounselor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LeadIDs       []primitive.ObjectID `json:"lead_ids"`
		CounselorID   primitive.ObjectID   `json:"counselor_id"`
		CounselorName string               `json:"counselor_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := leadstore.New(h.DB).AssignCounselor(ctx, body.LeadIDs, body.CounselorID, body.CounselorName)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, map[string]int64{"assigned": n}, "counselor assigned")
}

// HandleEducation upserts one schooling level of the lead's academic
// record. Level is "tenth" or "inter".
func (h *Handler) HandleEducation(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("lead id"))
		return
	}
	level := chi.URLParam(r, "level")

	var detail models.EducationDetail
	if err := json.NewDecoder(r.Body).Decode(&detail); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := secondarystore.New(h.DB).UpsertLevel(ctx, id, sc.CollegeID, level, detail); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "education updated")
}

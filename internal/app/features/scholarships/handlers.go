// internal/app/features/scholarships/handlers.go
package scholarships

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	appstore "github.com/dalemusser/admitflow/internal/app/store/applications"
	"github.com/dalemusser/admitflow/internal/app/store/queries/scholarshipelig"
	scholarshipstore "github.com/dalemusser/admitflow/internal/app/store/scholarships"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/app/system/paging"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate defines a scholarship for the caller's college.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)

	var body models.Scholarship
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	body.CollegeID = sc.CollegeID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := scholarshipstore.New(h.DB).Create(ctx, body)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.Created(w, created, "scholarship created")
}

// ServeList returns a page of the college's scholarships.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)
	pg := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := scholarshipstore.New(h.DB).ListByCollege(ctx, sc.CollegeID, pg.Skip(), pg.Limit64())
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.Page(w, list, total, "")
}

// ServeScholarship returns one scholarship with freshly recomputed
// eligibility counters.
func (h *Handler) ServeScholarship(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("scholarship id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	store := scholarshipstore.New(h.DB)
	s, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	sum, err := scholarshipelig.Recompute(ctx, h.DB, s)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	s.EligibleCount = sum.Eligible
	s.OfferedCount = sum.Offered
	s.AvailedCount = sum.Availed
	s.OfferedAmount = sum.OfferedAmount
	s.AvailedAmount = sum.AvailedAmount

	if err := store.UpdateCounts(ctx, id, sum.Eligible, sum.Offered, sum.Availed, sum.OfferedAmount, sum.AvailedAmount); err != nil {
		h.Log.Warn("scholarship counter write failed", zap.Error(err))
	}
	respond.OK(w, s, "")
}

// HandleUpdate patches a scholarship definition.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("scholarship id"))
		return
	}

	var mut models.Scholarship
	if err := json.NewDecoder(r.Body).Decode(&mut); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := scholarshipstore.New(h.DB).Update(ctx, id, mut); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "scholarship updated")
}

// HandleDelete removes a scholarship after detaching its offers from
// all applications.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("scholarship id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	store := scholarshipstore.New(h.DB)
	s, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if _, err := appstore.New(h.DB).DetachOffer(ctx, s.OfferedApplicants, id); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if err := store.Delete(ctx, id); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, nil, "scholarship deleted")
}

// ServeEligible returns the application ids currently eligible for the
// scholarship.
func (h *Handler) ServeEligible(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("scholarship id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	s, err := scholarshipstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	sum, err := scholarshipelig.Recompute(ctx, h.DB, s)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.Page(w, sum.EligibleIDs, sum.Eligible, "")
}

// HandleOffer offers the scholarship to a batch of applications: the
// waiver is written onto each application and the applicant sets are
// updated, keeping offered and delisted disjoint.
func (h *Handler) HandleOffer(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("scholarship id"))
		return
	}

	var body struct {
		ApplicationIDs []primitive.ObjectID `json:"application_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if len(body.ApplicationIDs) == 0 {
		respond.BadRequest(w, "application_ids is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	store := scholarshipstore.New(h.DB)
	s, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if s.Status != "active" {
		respond.Error(w, h.ErrLog, apperrors.BusinessRule("scholarship is not active"))
		return
	}

	offer := buildOffer(s)
	apps := appstore.New(h.DB)

	n, err := apps.AttachOffer(ctx, body.ApplicationIDs, offer)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if err := store.Offer(ctx, id, body.ApplicationIDs); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	h.refreshCounts(id)
	respond.OK(w, map[string]int64{"offered": n}, "scholarship offered")
}

// HandleDelist withdraws the offer from a batch of applications.
// Delisting an application that was never offered is rejected.
func (h *Handler) HandleDelist(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.ErrLog, apperrors.InvalidID("scholarship id"))
		return
	}

	var body struct {
		ApplicationIDs []primitive.ObjectID `json:"application_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if len(body.ApplicationIDs) == 0 {
		respond.BadRequest(w, "application_ids is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	store := scholarshipstore.New(h.DB)
	s, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	offered := make(map[primitive.ObjectID]bool, len(s.OfferedApplicants))
	for _, appID := range s.OfferedApplicants {
		offered[appID] = true
	}
	for _, appID := range body.ApplicationIDs {
		if !offered[appID] {
			respond.Error(w, h.ErrLog, apperrors.BusinessRule("application %s was never offered this scholarship", appID.Hex()))
			return
		}
	}

	if _, err := appstore.New(h.DB).DetachOffer(ctx, body.ApplicationIDs, id); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	if err := store.Delist(ctx, id, body.ApplicationIDs); err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	h.refreshCounts(id)
	respond.OK(w, nil, "applications delisted")
}

// refreshCounts recomputes and stores the counters off the request path.
func (h *Handler) refreshCounts(id primitive.ObjectID) {
	h.Tasks.Dispatch("scholarship-counts", func(ctx context.Context) error {
		store := scholarshipstore.New(h.DB)
		s, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		sum, err := scholarshipelig.Recompute(ctx, h.DB, s)
		if err != nil {
			return err
		}
		return store.UpdateCounts(ctx, id, sum.Eligible, sum.Offered, sum.Availed, sum.OfferedAmount, sum.AvailedAmount)
	})
}

// buildOffer snapshots the waiver terms onto an offer. The fee basis is
// the first covered program; per-application fees are resolved again at
// recomputation time.
func buildOffer(s models.Scholarship) models.ScholarshipOffer {
	var fee float64
	if len(s.Programs) > 0 {
		fee = s.Programs[0].ProgramFee
	}
	after, pct := s.FeesAfterWaiver(fee)
	return models.ScholarshipOffer{
		ScholarshipID:   s.ID,
		ScholarshipName: s.Name,
		WaiverType:      s.WaiverType,
		WaiverValue:     s.WaiverValue,
		FeesAfterWaiver: after,
		Percentage:      pct,
		OfferedAt:       time.Now().UTC(),
	}
}

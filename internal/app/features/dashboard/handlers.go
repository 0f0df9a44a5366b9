// internal/app/features/dashboard/handlers.go
package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	appstore "github.com/dalemusser/admitflow/internal/app/store/applications"
	commstore "github.com/dalemusser/admitflow/internal/app/store/communications"
	followupstore "github.com/dalemusser/admitflow/internal/app/store/followups"
	leadstore "github.com/dalemusser/admitflow/internal/app/store/leads"
	"github.com/dalemusser/admitflow/internal/app/system/cache"
	"github.com/dalemusser/admitflow/internal/app/system/changeind"
	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/app/system/timeouts"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPeriodDays is the lookback window for change indicators.
const DefaultPeriodDays = 30

// Summary is the funnel overview with change indicators over the two
// halves of the lookback period.
type Summary struct {
	PeriodDays   int                 `json:"period_days"`
	Leads        changeind.Indicator `json:"leads"`
	FormsStarted changeind.Indicator `json:"forms_started"`
	Payments     changeind.Indicator `json:"payments"`
	Declarations changeind.Indicator `json:"declarations"`
	Enrolled     changeind.Indicator `json:"enrolled"`
}

// ServeSummary computes the funnel summary, serving from cache when a
// fresh copy exists for this college and period.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)
	days := periodDays(r)

	key := cache.Key(sc.CollegeID.Hex(), "summary", strconv.Itoa(days))
	if v, ok := h.Cache.Get(key); ok {
		respond.OK(w, v, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sum, err := h.buildSummary(ctx, sc, days)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	h.Cache.Set(key, sum)
	respond.OK(w, sum, "")
}

func (h *Handler) buildSummary(ctx context.Context, sc scope.Scope, days int) (Summary, error) {
	prev, cur := changeind.SplitPeriod(time.Now().UTC(), days)

	leads := leadstore.New(h.DB)
	apps := appstore.New(h.DB)

	sum := Summary{PeriodDays: days}

	leadPrev, err := leads.CountByCollege(ctx, sc.CollegeID, prev.Start, prev.End)
	if err != nil {
		return Summary{}, err
	}
	leadCur, err := leads.CountByCollege(ctx, sc.CollegeID, cur.Start, cur.End)
	if err != nil {
		return Summary{}, err
	}
	sum.Leads = changeind.Compute(leadPrev, leadCur)

	stages := []struct {
		stage float64
		out   *changeind.Indicator
	}{
		{models.StageFormInitiated, &sum.FormsStarted},
		{models.StagePayment, &sum.Payments},
		{models.StageDeclaration, &sum.Declarations},
	}
	for _, s := range stages {
		p, err := apps.CountByStage(ctx, sc.CollegeID, s.stage, prev.Start, prev.End)
		if err != nil {
			return Summary{}, err
		}
		c, err := apps.CountByStage(ctx, sc.CollegeID, s.stage, cur.Start, cur.End)
		if err != nil {
			return Summary{}, err
		}
		*s.out = changeind.Compute(p, c)
	}

	enrPrev, err := apps.CountEnrolled(ctx, sc.CollegeID, prev.Start, prev.End)
	if err != nil {
		return Summary{}, err
	}
	enrCur, err := apps.CountEnrolled(ctx, sc.CollegeID, cur.Start, cur.End)
	if err != nil {
		return Summary{}, err
	}
	sum.Enrolled = changeind.Compute(enrPrev, enrCur)

	return sum, nil
}

// ServeSources returns the funnel broken down by acquisition source,
// serving from cache when a fresh copy exists.
func (h *Handler) ServeSources(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)
	days := periodDays(r)

	key := cache.Key(sc.CollegeID.Hex(), "sources", strconv.Itoa(days))
	if v, ok := h.Cache.Get(key); ok {
		respond.OK(w, v, "")
		return
	}

	_, cur := changeind.SplitPeriod(time.Now().UTC(), days)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	funnels, err := appstore.New(h.DB).FunnelBySource(ctx, sc.CollegeID, cur.Start, cur.End)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}

	h.Cache.Set(key, funnels)
	respond.OK(w, funnels, "")
}

// ServeStages returns the lead-stage breakdown for the period.
func (h *Handler) ServeStages(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)
	days := periodDays(r)
	_, cur := changeind.SplitPeriod(time.Now().UTC(), days)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	counts, err := followupstore.New(h.DB).CountByStage(ctx, sc.CollegeID, cur.Start, cur.End)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, counts, "")
}

// ServeOutreach returns per-channel send totals for the period.
func (h *Handler) ServeOutreach(w http.ResponseWriter, r *http.Request) {
	sc, _ := scope.FromRequest(r)
	days := periodDays(r)
	_, cur := changeind.SplitPeriod(time.Now().UTC(), days)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	counts, err := commstore.New(h.DB).CountByChannel(ctx, sc.CollegeID, cur.Start, cur.End)
	if err != nil {
		respond.Error(w, h.ErrLog, err)
		return
	}
	respond.OK(w, counts, "")
}

func periodDays(r *http.Request) int {
	if s := query.Get(r, "days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 2 && n <= 365 {
			return n
		}
	}
	return DefaultPeriodDays
}

// internal/app/features/shared/listreq.go
//
// Package shared holds the request types common to the lead and
// application list endpoints.
package shared

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	"github.com/dalemusser/admitflow/internal/app/system/paging"
	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/dalemusser/admitflow/internal/domain/models"
)

// Date accepts "2006-01-02" or RFC3339 in request bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t.UTC()
	return nil
}

// ListRequest is the search body accepted by the list endpoints.
type ListRequest struct {
	Filters        *models.FilterPayload `json:"filters,omitempty"`
	AdvanceFilters []models.FilterBlock  `json:"advance_filters,omitempty"`
	FromDate       *Date                 `json:"from_date,omitempty"`
	ToDate         *Date                 `json:"to_date,omitempty"`
}

// Params assembles pipeline parameters from the request, the caller's
// scope and the parsed page. Counselors are always restricted to their
// own allocation; the upper date bound is exclusive of the next day so a
// "to" date includes that whole day.
func (req ListRequest) Params(s scope.Scope, pg paging.Page, withTotal bool) pipeline.Params {
	p := pipeline.Params{
		CollegeID: s.CollegeID,
		Filters:   req.Filters,
		Advance:   req.AdvanceFilters,
		Skip:      pg.Skip(),
		Limit:     pg.Limit64(),
		WithTotal: withTotal,
	}
	if s.IsCounselor() {
		p.CounselorID = s.CounselorID
	}
	if req.FromDate != nil && !req.FromDate.IsZero() {
		from := req.FromDate.Time
		p.From = &from
	}
	if req.ToDate != nil && !req.ToDate.IsZero() {
		to := req.ToDate.AddDate(0, 0, 1)
		p.To = &to
	}
	return p
}

// internal/app/store/queries/scholarshipelig/scholarshipelig.go
//
// Package scholarshipelig recomputes a scholarship's applicant counters
// from live data. Results are never cached: eligibility is a function of
// current lead and application state, and a stale count here means a
// counselor offering money to the wrong cohort.
package scholarshipelig

import (
	"context"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	appstore "github.com/dalemusser/admitflow/internal/app/store/applications"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Summary is one recomputation pass.
type Summary struct {
	Eligible      int64
	Offered       int64
	Availed       int64
	OfferedAmount float64
	AvailedAmount float64

	// EligibleIDs are the matching application ids with delisted
	// applicants removed, in pipeline order.
	EligibleIDs []primitive.ObjectID
}

// Recompute replays the scholarship's stored filters through the
// application pipeline, drops delisted applicants, and totals the
// offered and availed positions.
func Recompute(ctx context.Context, db *mongo.Database, sc models.Scholarship) (Summary, error) {
	params := pipeline.Params{
		CollegeID: sc.CollegeID,
		Filters:   scopedFilters(sc),
		Advance:   sc.AdvanceFilters,
	}

	ids, err := appstore.New(db).IDsMatching(ctx, params)
	if err != nil {
		return Summary{}, err
	}

	delisted := make(map[primitive.ObjectID]bool, len(sc.DelistApplicants))
	for _, id := range sc.DelistApplicants {
		delisted[id] = true
	}
	eligible := ids[:0]
	for _, id := range ids {
		if !delisted[id] {
			eligible = append(eligible, id)
		}
	}

	sum := Summary{
		Eligible:    int64(len(eligible)),
		Offered:     int64(len(sc.OfferedApplicants)),
		EligibleIDs: eligible,
	}

	if len(sc.OfferedApplicants) > 0 {
		if err := totalOffered(ctx, db, sc, &sum); err != nil {
			return Summary{}, err
		}
	}
	return sum, nil
}

// scopedFilters merges the scholarship's program scope into its stored
// filter payload so the pipeline restricts to covered programs.
func scopedFilters(sc models.Scholarship) *models.FilterPayload {
	var f models.FilterPayload
	if sc.Filters != nil {
		f = *sc.Filters
	}
	if len(f.CourseIDs) == 0 && len(sc.Programs) > 0 {
		for _, pr := range sc.Programs {
			f.CourseIDs = append(f.CourseIDs, pr.CourseID)
			if pr.SpecName != "" {
				f.SpecNames = append(f.SpecNames, pr.SpecName)
			}
		}
	}
	return &f
}

// totalOffered walks the offered applications, totalling the waiver
// amounts against the covered program fees. An offer counts as availed
// once the application is enrolled.
func totalOffered(ctx context.Context, db *mongo.Database, sc models.Scholarship, sum *Summary) error {
	fees := make(map[programKey]float64, len(sc.Programs))
	for _, pr := range sc.Programs {
		fees[programKey{pr.CourseID, pr.SpecName}] = pr.ProgramFee
	}

	cur, err := db.Collection(pipeline.CollApps).Find(ctx, bson.M{
		"_id": bson.M{"$in": sc.OfferedApplicants},
	})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return err
	}

	for _, a := range apps {
		fee, ok := fees[programKey{a.CourseID, a.SpecName}]
		if !ok {
			fee = fees[programKey{CourseID: a.CourseID}]
		}
		after, _ := sc.FeesAfterWaiver(fee)
		waived := fee - after

		sum.OfferedAmount += waived
		if a.IsEnrolled {
			sum.Availed++
			sum.AvailedAmount += waived
		}
	}
	return nil
}

type programKey struct {
	CourseID primitive.ObjectID
	SpecName string
}

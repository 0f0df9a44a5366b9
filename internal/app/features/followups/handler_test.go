// internal/app/features/followups/handler_test.go
package followups_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/admitflow/internal/app/features/followups"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/dalemusser/admitflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestHandleSetStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := followups.NewHandler(db, zap.NewNop(), zap.NewNop())

	collegeID := primitive.NewObjectID()
	appID := primitive.NewObjectID()

	req := testutil.JSONRequest(t, "POST", "/followups", map[string]any{
		"application_id": appID.Hex(),
		"student_id":     primitive.NewObjectID().Hex(),
		"lead_stage":     models.LeadStageInterested,
		"note":           "<p>keen on MBA</p><script>alert(1)</script>",
	})
	req = testutil.WithScope(req, testutil.AdminScope(collegeID))
	rec := httptest.NewRecorder()

	handler.HandleSetStage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("note was not sanitized: %s", body)
	}
	if !strings.Contains(body, models.LeadStageInterested) {
		t.Errorf("stage missing from response: %s", body)
	}
}

func TestHandleSetStage_UnknownStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := followups.NewHandler(db, zap.NewNop(), zap.NewNop())

	req := testutil.JSONRequest(t, "POST", "/followups", map[string]any{
		"application_id": primitive.NewObjectID().Hex(),
		"lead_stage":     "Vibing",
	})
	req = testutil.WithScope(req, testutil.AdminScope(primitive.NewObjectID()))
	rec := httptest.NewRecorder()

	handler.HandleSetStage(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestServeByApplication_BadID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := followups.NewHandler(db, zap.NewNop(), zap.NewNop())

	req := httptest.NewRequest("GET", "/followups/application/nope", nil)
	req = testutil.WithChiURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()

	handler.ServeByApplication(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// internal/testutil/http.go
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithScope adds a caller scope to the request context, bypassing the
// scope middleware.
func WithScope(r *http.Request, s scope.Scope) *http.Request {
	return r.WithContext(scope.WithScope(r.Context(), s))
}

// AdminScope returns an admin scope for the given college.
func AdminScope(collegeID primitive.ObjectID) scope.Scope {
	return scope.Scope{CollegeID: collegeID, Role: scope.RoleAdmin}
}

// CounselorScope returns a counselor scope for the given college and
// counselor.
func CounselorScope(collegeID, counselorID primitive.ObjectID) scope.Scope {
	return scope.Scope{CollegeID: collegeID, CounselorID: &counselorID, Role: scope.RoleCounselor}
}

// JSONRequest creates an HTTP request with a JSON-encoded body.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes the recorded response body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response: %v (body: %s)", err, rec.Body.String())
	}
}

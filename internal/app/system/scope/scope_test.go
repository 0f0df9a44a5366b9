// internal/app/system/scope/scope_test.go
package scope_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/admitflow/internal/app/system/scope"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rs := scope.NewResolver(testKey, zap.NewNop())

	counselorID := primitive.NewObjectID()
	in := scope.Scope{
		CollegeID:   primitive.NewObjectID(),
		CounselorID: &counselorID,
		Role:        scope.RoleCounselor,
	}

	value, err := rs.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := rs.Decode(value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.CollegeID != in.CollegeID || out.Role != in.Role {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
	if out.CounselorID == nil || *out.CounselorID != counselorID {
		t.Errorf("counselor id: got %v, want %v", out.CounselorID, counselorID)
	}
	if !out.IsCounselor() {
		t.Error("decoded counselor scope should report IsCounselor")
	}
}

func TestDecode_RejectsWrongKey(t *testing.T) {
	rs := scope.NewResolver(testKey, zap.NewNop())
	other := scope.NewResolver("another-key-entirely-0123456789ab", zap.NewNop())

	value, err := other.Encode(scope.Scope{CollegeID: primitive.NewObjectID(), Role: scope.RoleAdmin})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := rs.Decode(value); err == nil {
		t.Error("Decode accepted a value signed with a different key")
	}
}

func TestMiddleware(t *testing.T) {
	rs := scope.NewResolver(testKey, zap.NewNop())

	var got scope.Scope
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, called = mustScope(t, r), true
	})
	handler := rs.Middleware(next)

	// Missing header rejected.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("missing header: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if called {
		t.Fatal("next handler ran without a scope")
	}

	// Tampered header rejected.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(scope.Header, "not-a-signed-value")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("bad header: got %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Valid header passes the scope through.
	in := scope.Scope{CollegeID: primitive.NewObjectID(), Role: scope.RoleAdmin}
	value, err := rs.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(scope.Header, value)
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatal("next handler did not run")
	}
	if got.CollegeID != in.CollegeID {
		t.Errorf("scope in context: got %+v, want %+v", got, in)
	}
}

func mustScope(t *testing.T, r *http.Request) scope.Scope {
	t.Helper()
	s, ok := scope.FromRequest(r)
	if !ok {
		t.Fatal("no scope in request context")
	}
	return s
}

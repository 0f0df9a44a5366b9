// internal/app/system/scope/scope.go
//
// Package scope resolves the caller's scope (college, counselor, role)
// from the gateway-signed X-Scope header. Authentication itself happens
// upstream; this service only trusts the signed scope value the gateway
// forwards with each request.
package scope

import (
	"context"
	"net/http"

	"github.com/dalemusser/admitflow/internal/app/system/respond"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Header carrying the signed scope value.
const Header = "X-Scope"

// Roles recognized in scope values.
const (
	RoleAdmin     = "admin"
	RolePublisher = "publisher"
	RoleCounselor = "counselor"
)

// Scope identifies the caller for query scoping.
type Scope struct {
	CollegeID   primitive.ObjectID
	CounselorID *primitive.ObjectID
	Role        string
}

// IsCounselor reports whether results must be restricted to the caller's
// allocated leads.
func (s Scope) IsCounselor() bool {
	return s.Role == RoleCounselor && s.CounselorID != nil
}

// wire is the signed payload shape shared with the gateway.
type wire struct {
	CollegeID   string `json:"college_id"`
	CounselorID string `json:"counselor_id,omitempty"`
	Role        string `json:"role"`
}

type ctxKey struct{}

// Resolver decodes signed scope headers.
type Resolver struct {
	codec *securecookie.SecureCookie
	log   *zap.Logger
}

// NewResolver builds a Resolver from the shared signing key. The key must
// match the gateway's; JSON encoding keeps the value language-neutral.
func NewResolver(signingKey string, log *zap.Logger) *Resolver {
	codec := securecookie.New([]byte(signingKey), nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &Resolver{codec: codec, log: log}
}

// Decode verifies and parses a signed scope value.
func (rs *Resolver) Decode(value string) (Scope, error) {
	var w wire
	if err := rs.codec.Decode(Header, value, &w); err != nil {
		return Scope{}, err
	}

	collegeID, err := primitive.ObjectIDFromHex(w.CollegeID)
	if err != nil {
		return Scope{}, err
	}

	s := Scope{CollegeID: collegeID, Role: w.Role}
	if w.CounselorID != "" {
		cid, err := primitive.ObjectIDFromHex(w.CounselorID)
		if err != nil {
			return Scope{}, err
		}
		s.CounselorID = &cid
	}
	return s, nil
}

// Encode signs a scope value. Used by tests and internal tooling.
func (rs *Resolver) Encode(s Scope) (string, error) {
	w := wire{CollegeID: s.CollegeID.Hex(), Role: s.Role}
	if s.CounselorID != nil {
		w.CounselorID = s.CounselorID.Hex()
	}
	return rs.codec.Encode(Header, w)
}

// Middleware rejects requests without a valid scope header and stores the
// decoded Scope in the request context.
func (rs *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(Header)
		if raw == "" {
			respond.Forbidden(w, "missing scope")
			return
		}
		s, err := rs.Decode(raw)
		if err != nil {
			rs.log.Warn("scope decode failed", zap.Error(err))
			respond.Forbidden(w, "invalid scope")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), s)))
	})
}

// WithScope returns a context carrying the scope. Exported for tests.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromRequest returns the scope stored by Middleware.
func FromRequest(r *http.Request) (Scope, bool) {
	s, ok := r.Context().Value(ctxKey{}).(Scope)
	return s, ok
}

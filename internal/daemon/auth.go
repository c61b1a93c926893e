package daemon

import (
	"context"
	"net/http"
	"strings"

	"shortlist/internal/identity"
	"shortlist/internal/logging"
)

type identityKey struct{}

// withIdentity resolves an optional bearer token into a user identifier on the
// request context. An absent or stale token leaves the request anonymous;
// handlers that need an identity enforce it themselves so the feed can serve
// its ready-but-empty contract to anonymous callers.
func withIdentity(sessions *identity.Sessions, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token := strings.TrimPrefix(auth, "Bearer ")
			if userID, err := sessions.Resolve(token); err == nil {
				ctx := context.WithValue(r.Context(), identityKey{}, userID)
				ctx = logging.WithUserID(ctx, userID)
				r = r.WithContext(ctx)
			}
		}
		next(w, r)
	}
}

// callerID reports the authenticated user for the request, if any.
func callerID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(identityKey{}).(string)
	return id, ok && id != ""
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

package httpapi

import (
	"net/http"
	"strings"

	"abst-data/internal/domain"
	"abst-data/internal/service"

	"go.uber.org/zap"
)

// AccessGuard bearer-session authentication plus facility-grant checks for
// the resource handlers. Admin roles bypass the grant table.
type AccessGuard struct {
	sessions    *SessionStore
	authService service.AuthService
	logger      *zap.Logger
}

func NewAccessGuard(sessions *SessionStore, authService service.AuthService, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{
		sessions:    sessions,
		authService: authService,
		logger:      logger,
	}
}

// resolveSession maps the Authorization header to a live session, writing
// the token-expired envelope when there is none.
func resolveSession(sessions *SessionStore, w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, TokenExpired())
		return Session{}, false
	}
	session, ok := sessions.Lookup(token)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, TokenExpired())
		return Session{}, false
	}
	return session, true
}

// Protect wraps a resource handler: every request needs a live session, and
// non-admin users need an approved grant for the facility they touch. When
// the request names no facility, any approved grant is enough; list queries
// are expected to pass the facility filter.
func (g *AccessGuard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := resolveSession(g.sessions, w, r)
		if !ok {
			return
		}
		if !isAdminRole(session.Role) {
			allowed, err := g.allowed(r, session)
			if err != nil {
				g.logger.Error("facility access check failed",
					zap.String("user_id", session.UserID), zap.Error(err))
				writeError(w, err)
				return
			}
			if !allowed {
				writeJSON(w, http.StatusForbidden, Fail("no access to this facility"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (g *AccessGuard) allowed(r *http.Request, session Session) (bool, error) {
	user := &domain.User{UserID: session.UserID, Role: session.Role}
	if facilityID := r.URL.Query().Get("facility"); facilityID != "" {
		return g.authService.CanAccessFacility(r.Context(), user, facilityID)
	}
	grants, err := g.authService.ListFacilityAccess(r.Context(), user.UserID)
	if err != nil {
		return false, err
	}
	for _, grant := range grants {
		if grant.Status == domain.AccessStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

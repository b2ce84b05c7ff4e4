package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"abst-data/internal/domain"
	"abst-data/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGuardedResidentHandler(t *testing.T) (http.Handler, *fakeAuthService, *SessionStore) {
	t.Helper()
	authSvc := newFakeAuthService()
	sessions := NewSessionStore(time.Hour)
	guard := NewAccessGuard(sessions, authSvc, zap.NewNop())
	return guard.Protect(NewResidentHandler(newFakeResidentService(), zap.NewNop())), authSvc, sessions
}

func TestAccessGuard_RejectsMissingToken(t *testing.T) {
	h, _, _ := newGuardedResidentHandler(t)

	rec := getWithToken(h, "/api/v1/residents?facility=f-1", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, ResultTokenExpired, envelope.Code)

	rec = getWithToken(h, "/api/v1/residents?facility=f-1", "bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessGuard_NonAdminNeedsApprovedGrant(t *testing.T) {
	h, authSvc, sessions := newGuardedResidentHandler(t)

	user, err := authSvc.Register(context.Background(), service.RegisterRequest{Account: "alice", Password: "secret"})
	require.NoError(t, err)
	token := sessions.Issue(user.UserID, user.Role).Token

	// No grant at all.
	rec := getWithToken(h, "/api/v1/residents?facility=f-1", token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, envelope.Code)

	// A pending grant does not open the facility.
	accessID, err := authSvc.RequestFacilityAccess(context.Background(), user.UserID, "f-1", "")
	require.NoError(t, err)
	rec = getWithToken(h, "/api/v1/residents?facility=f-1", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Approval does.
	require.NoError(t, authSvc.ReviewFacilityAccess(context.Background(), accessID, domain.AccessStatusApproved))
	rec = getWithToken(h, "/api/v1/residents?facility=f-1", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// But only that facility.
	rec = getWithToken(h, "/api/v1/residents?facility=f-2", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Requests without a facility filter pass on any approved grant.
	rec = getWithToken(h, "/api/v1/residents", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessGuard_AdminBypassesGrants(t *testing.T) {
	h, _, sessions := newGuardedResidentHandler(t)

	token := sessions.Issue("u-root", domain.UserRoleAdmin).Token
	rec := getWithToken(h, "/api/v1/residents?facility=f-1", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

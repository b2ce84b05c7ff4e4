package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"abst-data/internal/domain"
	"abst-data/internal/repository"
	"abst-data/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAuthService credential checks against an in-memory account table.
type fakeAuthService struct {
	users     map[string]*domain.User // by account
	passwords map[string]string
	access    map[string]*domain.FacilityAccess
	nextID    int
}

var _ service.AuthService = (*fakeAuthService)(nil)

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{
		users:     map[string]*domain.User{},
		passwords: map[string]string{},
		access:    map[string]*domain.FacilityAccess{},
	}
}

func (f *fakeAuthService) Register(_ context.Context, req service.RegisterRequest) (*domain.User, error) {
	if req.Account == "" || req.Password == "" {
		return nil, fmt.Errorf("account and password are required")
	}
	if _, ok := f.users[req.Account]; ok {
		return nil, fmt.Errorf("account already exists")
	}
	f.nextID++
	role := req.Role
	if role == "" {
		role = domain.UserRoleStaff
	}
	user := &domain.User{
		UserID:  fmt.Sprintf("u-%d", f.nextID),
		Account: req.Account,
		Role:    role,
		Status:  "active",
	}
	f.users[req.Account] = user
	f.passwords[req.Account] = req.Password
	return user, nil
}

func (f *fakeAuthService) Login(_ context.Context, req service.LoginRequest) (*domain.User, error) {
	user, ok := f.users[req.Account]
	if !ok || f.passwords[req.Account] != req.Password {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

func (f *fakeAuthService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAuthService) DeactivateUser(ctx context.Context, userID string) error {
	u, err := f.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	u.Status = "inactive"
	return nil
}

func (f *fakeAuthService) ListFacilityAccess(_ context.Context, userID string) ([]*domain.FacilityAccess, error) {
	out := []*domain.FacilityAccess{}
	for _, a := range f.access {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAuthService) ListPendingFacilityAccess(context.Context) ([]*domain.FacilityAccess, error) {
	out := []*domain.FacilityAccess{}
	for _, a := range f.access {
		if a.Status == domain.AccessStatusPending {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAuthService) RequestFacilityAccess(_ context.Context, userID, facilityID, role string) (string, error) {
	f.nextID++
	id := fmt.Sprintf("fa-%d", f.nextID)
	f.access[id] = &domain.FacilityAccess{
		AccessID: id, UserID: userID, FacilityID: facilityID,
		Role: role, Status: domain.AccessStatusPending,
	}
	return id, nil
}

func (f *fakeAuthService) ReviewFacilityAccess(_ context.Context, accessID, status string) error {
	a, ok := f.access[accessID]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAuthService) CanAccessFacility(_ context.Context, user *domain.User, facilityID string) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	for _, a := range f.access {
		if a.UserID == user.UserID && a.FacilityID == facilityID && a.Status == domain.AccessStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func newAuthHandlerForTest() (*AuthHandler, *fakeAuthService, *SessionStore) {
	svc := newFakeAuthService()
	sessions := NewSessionStore(time.Hour)
	return NewAuthHandler(svc, sessions, zap.NewNop()), svc, sessions
}

func postJSON(h http.Handler, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getWithToken(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, h *AuthHandler, account, password string) string {
	t.Helper()
	rec := postJSON(h, "/api/v1/users/login",
		fmt.Sprintf(`{"account":%q,"password":%q}`, account, password), "")
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(envelope.Result, &payload))
	require.NotEmpty(t, payload["accessToken"])
	return payload["accessToken"]
}

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	h, _, _ := newAuthHandlerForTest()

	rec := postJSON(h, "/api/v1/users/register", `{"account":"alice","password":"secret"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	token := loginToken(t, h, "alice", "secret")

	rec = getWithToken(h, "/api/v1/users/me", token)
	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var me map[string]string
	require.NoError(t, json.Unmarshal(envelope.Result, &me))
	assert.Equal(t, "alice", me["account"])
	assert.Equal(t, domain.UserRoleStaff, me["role"])
}

func TestAuthHandler_LoginRejected(t *testing.T) {
	h, _, _ := newAuthHandlerForTest()
	postJSON(h, "/api/v1/users/register", `{"account":"alice","password":"secret"}`, "")

	rec := postJSON(h, "/api/v1/users/login", `{"account":"alice","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, envelope.Code)
}

func TestAuthHandler_MeWithoutToken(t *testing.T) {
	h, _, _ := newAuthHandlerForTest()

	rec := getWithToken(h, "/api/v1/users/me", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, ResultTokenExpired, envelope.Code)

	rec = getWithToken(h, "/api/v1/users/me", "bogus")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_LogoutRevokesSession(t *testing.T) {
	h, _, _ := newAuthHandlerForTest()
	postJSON(h, "/api/v1/users/register", `{"account":"alice","password":"secret"}`, "")
	token := loginToken(t, h, "alice", "secret")

	rec := postJSON(h, "/api/v1/users/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getWithToken(h, "/api/v1/users/me", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_FacilityAccessFlow(t *testing.T) {
	h, svc, _ := newAuthHandlerForTest()
	postJSON(h, "/api/v1/users/register", `{"account":"alice","password":"secret"}`, "")
	postJSON(h, "/api/v1/users/register", `{"account":"root","password":"secret","role":"admin"}`, "")
	staffToken := loginToken(t, h, "alice", "secret")
	adminToken := loginToken(t, h, "root", "secret")

	rec := postJSON(h, "/api/v1/facility-access/request", `{"facility":"f-1"}`, staffToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var created map[string]string
	require.NoError(t, json.Unmarshal(envelope.Result, &created))
	accessID := created["accessId"]
	require.NotEmpty(t, accessID)

	// Staff cannot see the pending queue.
	rec = getWithToken(h, "/api/v1/facility-access/pending", staffToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = getWithToken(h, "/api/v1/facility-access/pending", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// Approve defaults when the body is empty.
	rec = postJSON(h, "/api/v1/facility-access/"+accessID+"/approve", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.AccessStatusApproved, svc.access[accessID].Status)

	rec = getWithToken(h, "/api/v1/facility-access/my-access", staffToken)
	require.Equal(t, http.StatusOK, rec.Code)
	envelope = decodeEnvelope(t, rec)
	var grants []*domain.FacilityAccess
	require.NoError(t, json.Unmarshal(envelope.Result, &grants))
	require.Len(t, grants, 1)
	assert.Equal(t, domain.AccessStatusApproved, grants[0].Status)
}

func TestAuthHandler_RequestAccessRequiresFacility(t *testing.T) {
	h, _, _ := newAuthHandlerForTest()
	postJSON(h, "/api/v1/users/register", `{"account":"alice","password":"secret"}`, "")
	token := loginToken(t, h, "alice", "secret")

	rec := postJSON(h, "/api/v1/facility-access/request", `{}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

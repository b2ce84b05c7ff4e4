package httpapi

import (
	"net/http"
	"strings"

	"abst-data/internal/service"

	"go.uber.org/zap"
)

// AuthHandler registration, login/logout sessions and facility access.
type AuthHandler struct {
	authService service.AuthService
	sessions    *SessionStore
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, sessions *SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/users/register" && r.Method == http.MethodPost:
		h.Register(w, r)
	case r.URL.Path == "/api/v1/users/login" && r.Method == http.MethodPost:
		h.Login(w, r)
	case r.URL.Path == "/api/v1/users/logout" && r.Method == http.MethodPost:
		h.Logout(w, r)
	case r.URL.Path == "/api/v1/users/me" && r.Method == http.MethodGet:
		h.Me(w, r)

	case r.URL.Path == "/api/v1/facility-access/request" && r.Method == http.MethodPost:
		h.RequestAccess(w, r)
	case r.URL.Path == "/api/v1/facility-access/my-access" && r.Method == http.MethodGet:
		h.MyAccess(w, r)
	case r.URL.Path == "/api/v1/facility-access/pending" && r.Method == http.MethodGet:
		h.PendingAccess(w, r)
	case strings.HasSuffix(r.URL.Path, "/approve") && r.Method == http.MethodPost:
		h.ReviewAccess(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// bearerSession resolves the Authorization header to a live session.
func (h *AuthHandler) bearerSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	return resolveSession(h.sessions, w, r)
}

// ============================================
// Accounts
// ============================================

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(map[string]string{
		"userId":  user.UserID,
		"account": user.Account,
		"role":    user.Role,
	}))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	req.IPAddress = r.RemoteAddr
	req.UserAgent = r.UserAgent()

	user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
		return
	}

	session := h.sessions.Issue(user.UserID, user.Role)
	writeJSON(w, http.StatusOK, Ok(map[string]string{
		"accessToken": session.Token,
		"userId":      user.UserID,
		"account":     user.Account,
		"role":        user.Role,
	}))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" {
		h.sessions.Revoke(token)
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"loggedOut": true}))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := h.bearerSession(w, r)
	if !ok {
		return
	}
	user, err := h.authService.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{
		"userId":  user.UserID,
		"account": user.Account,
		"role":    user.Role,
		"status":  user.Status,
	}))
}

// ============================================
// Facility access
// ============================================

type accessRequest struct {
	FacilityID string `json:"facility"`
	Role       string `json:"role"`
}

func (h *AuthHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	session, ok := h.bearerSession(w, r)
	if !ok {
		return
	}
	var req accessRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.FacilityID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("facility is required"))
		return
	}
	id, err := h.authService.RequestFacilityAccess(r.Context(), session.UserID, req.FacilityID, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(map[string]string{"accessId": id}))
}

func (h *AuthHandler) MyAccess(w http.ResponseWriter, r *http.Request) {
	session, ok := h.bearerSession(w, r)
	if !ok {
		return
	}
	grants, err := h.authService.ListFacilityAccess(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(grants))
}

func (h *AuthHandler) PendingAccess(w http.ResponseWriter, r *http.Request) {
	session, ok := h.bearerSession(w, r)
	if !ok {
		return
	}
	if !isAdminRole(session.Role) {
		writeJSON(w, http.StatusForbidden, Fail("admin role required"))
		return
	}
	grants, err := h.authService.ListPendingFacilityAccess(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(grants))
}

type reviewRequest struct {
	Status string `json:"status"` // approved or denied
}

func (h *AuthHandler) ReviewAccess(w http.ResponseWriter, r *http.Request) {
	session, ok := h.bearerSession(w, r)
	if !ok {
		return
	}
	if !isAdminRole(session.Role) {
		writeJSON(w, http.StatusForbidden, Fail("admin role required"))
		return
	}
	id, ok := subresourceID(r.URL.Path, "/api/v1/facility-access/", "approve")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	req := reviewRequest{Status: "approved"}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.authService.ReviewFacilityAccess(r.Context(), id, req.Status); err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"accessId": id, "status": req.Status}))
}

func isAdminRole(role string) bool {
	return role == "admin" || role == "superadmin"
}

package httpapi

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"
)

// Router thin wrapper over the stdlib http.ServeMux; each resource handler
// does its own method/path dispatch in ServeHTTP.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterHealth liveness probe with a DB ping.
func (r *Router) RegisterHealth(db *sql.DB) {
	r.Handle("/api/health", func(w http.ResponseWriter, req *http.Request) {
		status := "ok"
		dbStatus := "ok"
		code := http.StatusOK
		if err := db.PingContext(req.Context()); err != nil {
			status = "degraded"
			dbStatus = err.Error()
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]string{
			"status":   status,
			"database": dbStatus,
		})
	})
}

// RegisterAPIRoutes binds every resource handler under /api/v1. Resource
// handlers sit behind the access guard; the auth handler does its own
// session checks so login/register stay reachable.
func (r *Router) RegisterAPIRoutes(
	guard *AccessGuard,
	facilities *FacilityHandler,
	residents *ResidentHandler,
	adls *ADLHandler,
	staff *StaffHandler,
	shifts *ShiftHandler,
	ai *AIHandler,
	auth *AuthHandler,
) {
	r.HandleHandler("/api/v1/facilities", guard.Protect(facilities))
	r.HandleHandler("/api/v1/facilities/", guard.Protect(facilities))
	r.HandleHandler("/api/v1/facility-sections", guard.Protect(facilities))
	r.HandleHandler("/api/v1/facility-sections/", guard.Protect(facilities))

	r.HandleHandler("/api/v1/residents", guard.Protect(residents))
	r.HandleHandler("/api/v1/residents/", guard.Protect(residents))

	r.HandleHandler("/api/v1/adls", guard.Protect(adls))
	r.HandleHandler("/api/v1/adls/", guard.Protect(adls))
	r.HandleHandler("/api/v1/adl-questions", guard.Protect(adls))
	r.HandleHandler("/api/v1/adl-questions/", guard.Protect(adls))

	r.HandleHandler("/api/v1/staff", guard.Protect(staff))
	r.HandleHandler("/api/v1/staff/", guard.Protect(staff))
	r.HandleHandler("/api/v1/staff-availability", guard.Protect(staff))
	r.HandleHandler("/api/v1/staff-availability/", guard.Protect(staff))

	r.HandleHandler("/api/v1/shift-templates", guard.Protect(shifts))
	r.HandleHandler("/api/v1/shift-templates/", guard.Protect(shifts))
	r.HandleHandler("/api/v1/shifts", guard.Protect(shifts))
	r.HandleHandler("/api/v1/shifts/", guard.Protect(shifts))
	r.HandleHandler("/api/v1/staff-assignments", guard.Protect(shifts))
	r.HandleHandler("/api/v1/staff-assignments/", guard.Protect(shifts))
	r.HandleHandler("/api/v1/acuity-staffing", guard.Protect(shifts))

	r.HandleHandler("/api/v1/ai/", guard.Protect(ai))
	r.HandleHandler("/api/v1/scheduling/", guard.Protect(ai))

	r.HandleHandler("/api/v1/users/", auth)
	r.HandleHandler("/api/v1/facility-access", auth)
	r.HandleHandler("/api/v1/facility-access/", auth)
}

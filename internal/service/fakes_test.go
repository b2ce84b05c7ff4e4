package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"abst-data/internal/domain"
	"abst-data/internal/repository"
	"abst-data/internal/store"
)

// In-memory repository fakes for service tests. IDs are "<prefix>-<n>" in
// insertion order so assertions stay deterministic.

type fakeResidentsRepo struct {
	residents map[string]*domain.Resident
	order     []string
	nextID    int
	upserts   []string // "sectionID|name|status" in call order
	failList  error
}

var _ repository.ResidentsRepository = (*fakeResidentsRepo)(nil)

func newFakeResidentsRepo() *fakeResidentsRepo {
	return &fakeResidentsRepo{residents: map[string]*domain.Resident{}}
}

func (f *fakeResidentsRepo) add(r *domain.Resident) string {
	f.nextID++
	id := fmt.Sprintf("r-%d", f.nextID)
	clone := *r
	clone.ResidentID = id
	f.residents[id] = &clone
	f.order = append(f.order, id)
	return id
}

func (f *fakeResidentsRepo) ListResidents(_ context.Context, filters repository.ResidentFilters) ([]*domain.Resident, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	out := []*domain.Resident{}
	for _, id := range f.order {
		r := f.residents[id]
		if r.IsDeleted && !filters.IncludeDeleted {
			continue
		}
		if filters.SectionID != "" && r.SectionID != filters.SectionID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeResidentsRepo) GetResident(_ context.Context, residentID string) (*domain.Resident, error) {
	r, ok := f.residents[residentID]
	if !ok || r.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeResidentsRepo) CreateResident(_ context.Context, resident *domain.Resident) (string, error) {
	return f.add(resident), nil
}

func (f *fakeResidentsRepo) UpdateResident(_ context.Context, residentID string, resident *domain.Resident) error {
	current, ok := f.residents[residentID]
	if !ok || current.IsDeleted {
		return repository.ErrNotFound
	}
	current.SectionID = resident.SectionID
	current.Name = resident.Name
	current.Status = resident.Status
	current.TotalShiftTimes = resident.TotalShiftTimes
	return nil
}

func (f *fakeResidentsRepo) SoftDeleteResident(_ context.Context, residentID string) error {
	r, ok := f.residents[residentID]
	if !ok || r.IsDeleted {
		return repository.ErrNotFound
	}
	now := time.Now()
	r.IsDeleted = true
	r.DeletedAt = &now
	return nil
}

func (f *fakeResidentsRepo) RestoreResident(_ context.Context, residentID string) error {
	r, ok := f.residents[residentID]
	if !ok || !r.IsDeleted {
		return repository.ErrNotFound
	}
	r.IsDeleted = false
	r.DeletedAt = nil
	return nil
}

func (f *fakeResidentsRepo) UpsertResidentByName(_ context.Context, sectionID, name, status string) (bool, error) {
	f.upserts = append(f.upserts, sectionID+"|"+name+"|"+status)
	for _, r := range f.residents {
		if r.SectionID == sectionID && r.Name == name && !r.IsDeleted {
			r.Status = status
			return false, nil
		}
	}
	f.add(&domain.Resident{SectionID: sectionID, Name: name, Status: status})
	return true, nil
}

func (f *fakeResidentsRepo) UpdateTotalShiftTimes(_ context.Context, residentID string, times map[string]float64) error {
	r, ok := f.residents[residentID]
	if !ok || r.IsDeleted {
		return repository.ErrNotFound
	}
	r.TotalShiftTimes = times
	return nil
}

type fakeFacilitiesRepo struct {
	facilities map[string]*domain.Facility
	sections   map[string]*domain.FacilitySection
	facOrder   []string
	secOrder   []string
	nextID     int
}

var _ repository.FacilitiesRepository = (*fakeFacilitiesRepo)(nil)

func newFakeFacilitiesRepo() *fakeFacilitiesRepo {
	return &fakeFacilitiesRepo{
		facilities: map[string]*domain.Facility{},
		sections:   map[string]*domain.FacilitySection{},
	}
}

func (f *fakeFacilitiesRepo) addFacility(code, name string) *domain.Facility {
	f.nextID++
	fac := &domain.Facility{
		FacilityID:   fmt.Sprintf("f-%d", f.nextID),
		FacilityCode: code,
		Name:         name,
	}
	f.facilities[fac.FacilityID] = fac
	f.facOrder = append(f.facOrder, fac.FacilityID)
	return fac
}

func (f *fakeFacilitiesRepo) addSection(facilityID, name string) *domain.FacilitySection {
	f.nextID++
	sec := &domain.FacilitySection{
		SectionID:  fmt.Sprintf("s-%d", f.nextID),
		FacilityID: facilityID,
		Name:       name,
	}
	f.sections[sec.SectionID] = sec
	f.secOrder = append(f.secOrder, sec.SectionID)
	return sec
}

func (f *fakeFacilitiesRepo) ListFacilities(context.Context) ([]*domain.Facility, error) {
	out := []*domain.Facility{}
	for _, id := range f.facOrder {
		out = append(out, f.facilities[id])
	}
	return out, nil
}

func (f *fakeFacilitiesRepo) GetFacility(_ context.Context, facilityID string) (*domain.Facility, error) {
	fac, ok := f.facilities[facilityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return fac, nil
}

func (f *fakeFacilitiesRepo) GetFacilityByCode(_ context.Context, facilityCode string) (*domain.Facility, error) {
	for _, fac := range f.facilities {
		if fac.FacilityCode == facilityCode {
			return fac, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFacilitiesRepo) CreateFacility(_ context.Context, facility *domain.Facility) (string, error) {
	fac := f.addFacility(facility.FacilityCode, facility.Name)
	return fac.FacilityID, nil
}

func (f *fakeFacilitiesRepo) UpdateFacility(_ context.Context, facilityID string, facility *domain.Facility) error {
	current, ok := f.facilities[facilityID]
	if !ok {
		return repository.ErrNotFound
	}
	current.FacilityCode = facility.FacilityCode
	current.Name = facility.Name
	return nil
}

func (f *fakeFacilitiesRepo) DeleteFacility(_ context.Context, facilityID string) error {
	if _, ok := f.facilities[facilityID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.facilities, facilityID)
	return nil
}

func (f *fakeFacilitiesRepo) GetOrCreateFacilityByCode(ctx context.Context, facilityCode, name string) (*domain.Facility, error) {
	if fac, err := f.GetFacilityByCode(ctx, facilityCode); err == nil {
		return fac, nil
	}
	return f.addFacility(facilityCode, name), nil
}

func (f *fakeFacilitiesRepo) ListSections(_ context.Context, facilityID string) ([]*domain.FacilitySection, error) {
	out := []*domain.FacilitySection{}
	for _, id := range f.secOrder {
		if f.sections[id].FacilityID == facilityID {
			out = append(out, f.sections[id])
		}
	}
	return out, nil
}

func (f *fakeFacilitiesRepo) GetSection(_ context.Context, sectionID string) (*domain.FacilitySection, error) {
	sec, ok := f.sections[sectionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return sec, nil
}

func (f *fakeFacilitiesRepo) CreateSection(_ context.Context, section *domain.FacilitySection) (string, error) {
	sec := f.addSection(section.FacilityID, section.Name)
	return sec.SectionID, nil
}

func (f *fakeFacilitiesRepo) UpdateSection(_ context.Context, sectionID string, section *domain.FacilitySection) error {
	current, ok := f.sections[sectionID]
	if !ok {
		return repository.ErrNotFound
	}
	current.Name = section.Name
	return nil
}

func (f *fakeFacilitiesRepo) DeleteSection(_ context.Context, sectionID string) error {
	if _, ok := f.sections[sectionID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sections, sectionID)
	return nil
}

func (f *fakeFacilitiesRepo) GetOrCreateSection(_ context.Context, facilityID, name string) (*domain.FacilitySection, error) {
	for _, sec := range f.sections {
		if sec.FacilityID == facilityID && sec.Name == name {
			return sec, nil
		}
	}
	return f.addSection(facilityID, name), nil
}

type fakeADLsRepo struct {
	adls   map[string]*domain.ADL
	order  []string
	nextID int

	questions []*domain.ADLQuestion
}

var _ repository.ADLsRepository = (*fakeADLsRepo)(nil)

func newFakeADLsRepo() *fakeADLsRepo {
	return &fakeADLsRepo{adls: map[string]*domain.ADL{}}
}

func (f *fakeADLsRepo) add(adl *domain.ADL) string {
	f.nextID++
	id := fmt.Sprintf("adl-%d", f.nextID)
	clone := *adl
	clone.ADLID = id
	f.adls[id] = &clone
	f.order = append(f.order, id)
	return id
}

func (f *fakeADLsRepo) ListADLs(_ context.Context, filters repository.ADLFilters) ([]*domain.ADL, error) {
	out := []*domain.ADL{}
	for _, id := range f.order {
		adl := f.adls[id]
		if adl.IsDeleted != filters.DeletedOnly {
			continue
		}
		if filters.ResidentID != "" && adl.ResidentID != filters.ResidentID {
			continue
		}
		out = append(out, adl)
	}
	return out, nil
}

func (f *fakeADLsRepo) GetADL(_ context.Context, adlID string) (*domain.ADL, error) {
	adl, ok := f.adls[adlID]
	if !ok || adl.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return adl, nil
}

func (f *fakeADLsRepo) CreateADL(_ context.Context, adl *domain.ADL) (string, error) {
	return f.add(adl), nil
}

func (f *fakeADLsRepo) UpdateADL(_ context.Context, adlID string, adl *domain.ADL) error {
	current, ok := f.adls[adlID]
	if !ok || current.IsDeleted {
		return repository.ErrNotFound
	}
	id := current.ADLID
	*current = *adl
	current.ADLID = id
	return nil
}

func (f *fakeADLsRepo) SoftDeleteADL(_ context.Context, adlID string) error {
	adl, ok := f.adls[adlID]
	if !ok || adl.IsDeleted {
		return repository.ErrNotFound
	}
	adl.IsDeleted = true
	return nil
}

func (f *fakeADLsRepo) RestoreADL(_ context.Context, adlID string) error {
	adl, ok := f.adls[adlID]
	if !ok || !adl.IsDeleted {
		return repository.ErrNotFound
	}
	adl.IsDeleted = false
	return nil
}

func (f *fakeADLsRepo) Summary(ctx context.Context, filters repository.ADLFilters) (*domain.ADLSummary, error) {
	adls, _ := f.ListADLs(ctx, filters)
	summary := &domain.ADLSummary{TotalADLs: len(adls)}
	for _, adl := range adls {
		summary.TotalMinutes += adl.TotalMinutes
	}
	summary.TotalHours = float64(summary.TotalMinutes) / 60.0
	if len(adls) > 0 {
		summary.AvgMinutesPerTask = float64(summary.TotalMinutes) / float64(len(adls))
	}
	return summary, nil
}

func (f *fakeADLsRepo) ListQuestions(context.Context) ([]*domain.ADLQuestion, error) {
	return f.questions, nil
}

func (f *fakeADLsRepo) SeedQuestions(_ context.Context, texts []string) (int, error) {
	existing := map[string]bool{}
	for _, q := range f.questions {
		existing[q.Text] = true
	}
	created := 0
	for i, text := range texts {
		if existing[text] {
			continue
		}
		f.questions = append(f.questions, &domain.ADLQuestion{
			QuestionID: fmt.Sprintf("q-%d", len(f.questions)+1),
			Text:       text,
			SortOrder:  i,
		})
		created++
	}
	return created, nil
}

type fakeStaffRepo struct {
	staff        map[string]*domain.Staff
	order        []string
	nextID       int
	availability []*domain.StaffAvailability
}

var _ repository.StaffRepository = (*fakeStaffRepo)(nil)

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: map[string]*domain.Staff{}}
}

func (f *fakeStaffRepo) add(st *domain.Staff) string {
	f.nextID++
	id := fmt.Sprintf("st-%d", f.nextID)
	clone := *st
	clone.StaffID = id
	f.staff[id] = &clone
	f.order = append(f.order, id)
	return id
}

func (f *fakeStaffRepo) ListStaff(_ context.Context, filters repository.StaffFilters) ([]*domain.Staff, error) {
	out := []*domain.Staff{}
	for _, id := range f.order {
		st := f.staff[id]
		if filters.FacilityID != "" && st.FacilityID != filters.FacilityID {
			continue
		}
		if filters.Status != "" && st.Status != filters.Status {
			continue
		}
		if filters.Role != "" && st.Role != filters.Role {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeStaffRepo) GetStaff(_ context.Context, staffID string) (*domain.Staff, error) {
	st, ok := f.staff[staffID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return st, nil
}

func (f *fakeStaffRepo) CreateStaff(_ context.Context, staff *domain.Staff) (string, error) {
	return f.add(staff), nil
}

func (f *fakeStaffRepo) UpdateStaff(_ context.Context, staffID string, staff *domain.Staff) error {
	current, ok := f.staff[staffID]
	if !ok {
		return repository.ErrNotFound
	}
	id := current.StaffID
	*current = *staff
	current.StaffID = id
	return nil
}

func (f *fakeStaffRepo) DeleteStaff(_ context.Context, staffID string) error {
	if _, ok := f.staff[staffID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.staff, staffID)
	return nil
}

func (f *fakeStaffRepo) UpsertAvailability(_ context.Context, availability *domain.StaffAvailability) (string, error) {
	for _, row := range f.availability {
		if row.StaffID == availability.StaffID && row.Date.Equal(availability.Date) {
			id := row.AvailabilityID
			*row = *availability
			row.AvailabilityID = id
			return id, nil
		}
	}
	f.nextID++
	clone := *availability
	clone.AvailabilityID = fmt.Sprintf("av-%d", f.nextID)
	f.availability = append(f.availability, &clone)
	return clone.AvailabilityID, nil
}

func (f *fakeStaffRepo) ListAvailability(_ context.Context, staffID string, start, end *time.Time) ([]*domain.StaffAvailability, error) {
	out := []*domain.StaffAvailability{}
	for _, row := range f.availability {
		if row.StaffID != staffID {
			continue
		}
		if start != nil && row.Date.Before(*start) {
			continue
		}
		if end != nil && row.Date.After(*end) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeStaffRepo) ListAvailabilityForWeek(_ context.Context, facilityID string, weekStart time.Time) ([]*domain.StaffAvailability, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)
	out := []*domain.StaffAvailability{}
	for _, row := range f.availability {
		st, ok := f.staff[row.StaffID]
		if !ok || st.FacilityID != facilityID {
			continue
		}
		if row.Date.Before(weekStart) || !row.Date.Before(weekEnd) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeShiftsRepo struct {
	templates   map[string]*domain.ShiftTemplate
	shifts      map[string]*domain.Shift
	assignments map[string]*domain.StaffAssignment
	acuity      []*domain.AcuityBasedStaffing

	templateOrder   []string
	shiftOrder      []string
	assignmentOrder []string
	nextID          int
}

var _ repository.ShiftsRepository = (*fakeShiftsRepo)(nil)

func newFakeShiftsRepo() *fakeShiftsRepo {
	return &fakeShiftsRepo{
		templates:   map[string]*domain.ShiftTemplate{},
		shifts:      map[string]*domain.Shift{},
		assignments: map[string]*domain.StaffAssignment{},
	}
}

func (f *fakeShiftsRepo) ListTemplates(_ context.Context, facilityID string, activeOnly bool) ([]*domain.ShiftTemplate, error) {
	out := []*domain.ShiftTemplate{}
	for _, id := range f.templateOrder {
		t := f.templates[id]
		if facilityID != "" && t.FacilityID != facilityID {
			continue
		}
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeShiftsRepo) GetTemplate(_ context.Context, templateID string) (*domain.ShiftTemplate, error) {
	t, ok := f.templates[templateID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeShiftsRepo) CreateTemplate(_ context.Context, template *domain.ShiftTemplate) (string, error) {
	f.nextID++
	id := fmt.Sprintf("t-%d", f.nextID)
	clone := *template
	clone.TemplateID = id
	f.templates[id] = &clone
	f.templateOrder = append(f.templateOrder, id)
	return id, nil
}

func (f *fakeShiftsRepo) UpdateTemplate(_ context.Context, templateID string, template *domain.ShiftTemplate) error {
	current, ok := f.templates[templateID]
	if !ok {
		return repository.ErrNotFound
	}
	id := current.TemplateID
	*current = *template
	current.TemplateID = id
	return nil
}

func (f *fakeShiftsRepo) DeleteTemplate(_ context.Context, templateID string) error {
	if _, ok := f.templates[templateID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.templates, templateID)
	return nil
}

func (f *fakeShiftsRepo) ListShifts(_ context.Context, filters repository.ShiftFilters) ([]*domain.Shift, error) {
	out := []*domain.Shift{}
	for _, id := range f.shiftOrder {
		sh := f.shifts[id]
		if filters.FacilityID != "" && sh.FacilityID != filters.FacilityID {
			continue
		}
		if filters.Status != "" && sh.Status != filters.Status {
			continue
		}
		if filters.StartDate != nil && sh.Date.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && sh.Date.After(*filters.EndDate) {
			continue
		}
		out = append(out, sh)
	}
	return out, nil
}

func (f *fakeShiftsRepo) GetShift(_ context.Context, shiftID string) (*domain.Shift, error) {
	sh, ok := f.shifts[shiftID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return sh, nil
}

func (f *fakeShiftsRepo) CreateShift(_ context.Context, shift *domain.Shift) (string, error) {
	f.nextID++
	id := fmt.Sprintf("sh-%d", f.nextID)
	clone := *shift
	clone.ShiftID = id
	f.shifts[id] = &clone
	f.shiftOrder = append(f.shiftOrder, id)
	return id, nil
}

func (f *fakeShiftsRepo) UpdateShift(_ context.Context, shiftID string, shift *domain.Shift) error {
	current, ok := f.shifts[shiftID]
	if !ok {
		return repository.ErrNotFound
	}
	id := current.ShiftID
	*current = *shift
	current.ShiftID = id
	return nil
}

func (f *fakeShiftsRepo) DeleteShift(_ context.Context, shiftID string) error {
	if _, ok := f.shifts[shiftID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.shifts, shiftID)
	return nil
}

func (f *fakeShiftsRepo) FindShiftByDateTemplate(_ context.Context, facilityID, templateID string, date time.Time) (string, error) {
	for _, id := range f.shiftOrder {
		sh := f.shifts[id]
		if sh.FacilityID == facilityID && sh.TemplateID == templateID && sh.Date.Equal(date) {
			return id, nil
		}
	}
	return "", repository.ErrNotFound
}

func (f *fakeShiftsRepo) ListAssignments(_ context.Context, filters repository.AssignmentFilters) ([]*domain.StaffAssignment, error) {
	out := []*domain.StaffAssignment{}
	for _, id := range f.assignmentOrder {
		a := f.assignments[id]
		if filters.StaffID != "" && a.StaffID != filters.StaffID {
			continue
		}
		if filters.ShiftID != "" && a.ShiftID != filters.ShiftID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeShiftsRepo) GetAssignment(_ context.Context, assignmentID string) (*domain.StaffAssignment, error) {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeShiftsRepo) CreateAssignment(_ context.Context, assignment *domain.StaffAssignment) (string, error) {
	for _, a := range f.assignments {
		if a.StaffID == assignment.StaffID && a.ShiftID == assignment.ShiftID {
			return "", fmt.Errorf("duplicate assignment")
		}
	}
	f.nextID++
	id := fmt.Sprintf("a-%d", f.nextID)
	clone := *assignment
	clone.AssignmentID = id
	f.assignments[id] = &clone
	f.assignmentOrder = append(f.assignmentOrder, id)
	return id, nil
}

func (f *fakeShiftsRepo) UpdateAssignment(_ context.Context, assignmentID string, assignment *domain.StaffAssignment) error {
	current, ok := f.assignments[assignmentID]
	if !ok {
		return repository.ErrNotFound
	}
	current.AssignedRole = assignment.AssignedRole
	current.Notes = assignment.Notes
	return nil
}

func (f *fakeShiftsRepo) DeleteAssignment(_ context.Context, assignmentID string) error {
	if _, ok := f.assignments[assignmentID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.assignments, assignmentID)
	return nil
}

func (f *fakeShiftsRepo) ClockIn(_ context.Context, assignmentID string, at time.Time) error {
	a, ok := f.assignments[assignmentID]
	if !ok || a.ClockInTime != nil {
		return repository.ErrNotFound
	}
	a.ClockInTime = &at
	return nil
}

func (f *fakeShiftsRepo) ClockOut(_ context.Context, assignmentID string, at time.Time, hoursWorked float64) error {
	a, ok := f.assignments[assignmentID]
	if !ok || a.ClockInTime == nil {
		return repository.ErrNotFound
	}
	a.ClockOutTime = &at
	a.ActualHoursWorked = &hoursWorked
	return nil
}

func (f *fakeShiftsRepo) ListAcuityStaffing(_ context.Context, facilityID string) ([]*domain.AcuityBasedStaffing, error) {
	out := []*domain.AcuityBasedStaffing{}
	for _, ac := range f.acuity {
		sh, ok := f.shifts[ac.ShiftID]
		if !ok || (facilityID != "" && sh.FacilityID != facilityID) {
			continue
		}
		out = append(out, ac)
	}
	return out, nil
}

func (f *fakeShiftsRepo) CreateAcuityStaffing(_ context.Context, acuity *domain.AcuityBasedStaffing) (string, error) {
	f.nextID++
	clone := *acuity
	clone.AcuityID = fmt.Sprintf("ac-%d", f.nextID)
	f.acuity = append(f.acuity, &clone)
	return clone.AcuityID, nil
}

type fakeUsersRepo struct {
	users  map[string]*domain.User
	access map[string]*domain.FacilityAccess
	order  []string
	nextID int
}

var _ repository.UsersRepository = (*fakeUsersRepo)(nil)

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		users:  map[string]*domain.User{},
		access: map[string]*domain.FacilityAccess{},
	}
}

func (f *fakeUsersRepo) GetUserByAccountHash(_ context.Context, accountHash string) (*domain.User, error) {
	for _, u := range f.users {
		if u.AccountHash == accountHash {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsersRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) CreateUser(_ context.Context, user *domain.User) (string, error) {
	f.nextID++
	id := fmt.Sprintf("u-%d", f.nextID)
	clone := *user
	clone.UserID = id
	if clone.Role == "" {
		clone.Role = domain.UserRoleStaff
	}
	clone.Status = "active"
	f.users[id] = &clone
	return id, nil
}

func (f *fakeUsersRepo) UpdateUserStatus(_ context.Context, userID, status string) error {
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUsersRepo) ListFacilityAccess(_ context.Context, userID string) ([]*domain.FacilityAccess, error) {
	out := []*domain.FacilityAccess{}
	for _, id := range f.order {
		if f.access[id].UserID == userID {
			out = append(out, f.access[id])
		}
	}
	return out, nil
}

func (f *fakeUsersRepo) ListPendingFacilityAccess(context.Context) ([]*domain.FacilityAccess, error) {
	out := []*domain.FacilityAccess{}
	for _, id := range f.order {
		if f.access[id].Status == domain.AccessStatusPending {
			out = append(out, f.access[id])
		}
	}
	return out, nil
}

func (f *fakeUsersRepo) RequestFacilityAccess(_ context.Context, access *domain.FacilityAccess) (string, error) {
	f.nextID++
	id := fmt.Sprintf("fa-%d", f.nextID)
	clone := *access
	clone.AccessID = id
	clone.RequestedAt = time.Now()
	f.access[id] = &clone
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeUsersRepo) ReviewFacilityAccess(_ context.Context, accessID, status string) error {
	a, ok := f.access[accessID]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeUsersRepo) HasFacilityAccess(_ context.Context, userID, facilityID string) (bool, error) {
	for _, a := range f.access {
		if a.UserID == userID && a.FacilityID == facilityID && a.Status == domain.AccessStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

// memKV map-backed store.KV; TTLs are ignored.
type memKV struct {
	data map[string]string
	gets int
	sets int
}

var _ store.KV = (*memKV)(nil)

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.gets++
	v, ok := m.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memKV) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	// Supports the "ai:*:<facility>:*" shape used by cache invalidation.
	keys := []string{}
	for k := range m.data {
		if matchGlob(pattern, k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func matchGlob(pattern, s string) bool {
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		idx := strings.Index(s, part)
		if idx < 0 {
			return false
		}
		s = s[idx+len(part):]
	}
	return true
}

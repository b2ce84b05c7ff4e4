// Seeds a demo facility with sections, residents, ADLs, staff and shift
// templates so the API and the recommendation endpoints have data to work
// with. Safe to re-run: facility, sections and residents are get-or-create.
package main

import (
	"context"
	"fmt"
	"log"

	"abst-data/internal/config"
	"abst-data/internal/database"
	"abst-data/internal/domain"
	"abst-data/internal/repository"
)

type demoResident struct {
	name    string
	section string
	// care minutes for the Monday day shift, spread across the week below
	dayMinutes float64
}

var demoResidents = []demoResident{
	{"Alice Smith", "East Wing", 180},
	{"Robert Chen", "East Wing", 420},
	{"Mary Johnson", "West Wing", 240},
	{"Frank Miller", "West Wing", 90},
}

var demoStaff = []*domain.Staff{
	{EmployeeID: "EMP-001", FirstName: "Dana", LastName: "Lee", Role: domain.StaffRoleCNA},
	{EmployeeID: "EMP-002", FirstName: "Eli", LastName: "Park", Role: domain.StaffRoleCNA},
	{EmployeeID: "EMP-003", FirstName: "Grace", LastName: "Okafor", Role: domain.StaffRoleRN},
	{EmployeeID: "EMP-004", FirstName: "Sam", LastName: "Torres", Role: domain.StaffRoleMedTech},
}

var demoTemplates = []*domain.ShiftTemplate{
	{Name: "Day Shift", ShiftType: "day", StartTime: "06:00", EndTime: "14:00", DurationHours: 8, RequiredStaffCount: 2, IsActive: true},
	{Name: "Swing Shift", ShiftType: "swing", StartTime: "14:00", EndTime: "22:00", DurationHours: 8, RequiredStaffCount: 2, IsActive: true},
	{Name: "Noc Shift", ShiftType: "noc", StartTime: "22:00", EndTime: "06:00", DurationHours: 8, RequiredStaffCount: 1, IsActive: true},
}

func main() {
	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	facilities := repository.NewPostgresFacilitiesRepository(db)
	residents := repository.NewPostgresResidentsRepository(db)
	adls := repository.NewPostgresADLsRepository(db)
	staff := repository.NewPostgresStaffRepository(db)
	shifts := repository.NewPostgresShiftsRepository(db)

	facility, err := facilities.GetOrCreateFacilityByCode(ctx, "FAC-01", "Sunrise Manor")
	if err != nil {
		log.Fatalf("Facility: %v", err)
	}
	fmt.Printf("Facility %s (%s)\n", facility.Name, facility.FacilityID)

	sections := map[string]string{}
	for _, name := range []string{"East Wing", "West Wing"} {
		section, err := facilities.GetOrCreateSection(ctx, facility.FacilityID, name)
		if err != nil {
			log.Fatalf("Section %s: %v", name, err)
		}
		sections[name] = section.SectionID
	}

	seeded, err := adls.SeedQuestions(ctx, domain.DefaultADLQuestions)
	if err != nil {
		log.Fatalf("ADL questions: %v", err)
	}
	fmt.Printf("Seeded %d ADL questions\n", seeded)

	for _, r := range demoResidents {
		created, err := residents.UpsertResidentByName(ctx, sections[r.section], r.name, domain.ResidentStatusActive)
		if err != nil {
			log.Fatalf("Resident %s: %v", r.name, err)
		}
		if !created {
			continue
		}
		if err := seedCareData(ctx, residents, adls, sections[r.section], r); err != nil {
			log.Fatalf("Care data for %s: %v", r.name, err)
		}
	}

	for _, s := range demoStaff {
		s.Status = domain.StaffStatusActive
		s.FacilityID = facility.FacilityID
		s.MaxHoursPerWeek = 40
		if _, err := staff.CreateStaff(ctx, s); err != nil {
			// Unique employee_id means the row is already there on re-runs.
			fmt.Printf("Staff %s skipped: %v\n", s.EmployeeID, err)
		}
	}

	existing, err := shifts.ListTemplates(ctx, facility.FacilityID, false)
	if err != nil {
		log.Fatalf("Templates: %v", err)
	}
	if len(existing) == 0 {
		for _, tpl := range demoTemplates {
			tpl.FacilityID = facility.FacilityID
			if _, err := shifts.CreateTemplate(ctx, tpl); err != nil {
				log.Fatalf("Template %s: %v", tpl.Name, err)
			}
		}
		fmt.Printf("Created %d shift templates\n", len(demoTemplates))
	}

	fmt.Println("Demo data ready")
}

// seedCareData writes a weekly care-minute profile and one ADL row for a
// freshly created resident. Day shift carries the given load, swing half of
// it, noc a quarter.
func seedCareData(ctx context.Context, residents repository.ResidentsRepository, adls repository.ADLsRepository, sectionID string, r demoResident) error {
	list, err := residents.ListResidents(ctx, repository.ResidentFilters{SectionID: sectionID, Search: r.name})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("resident %s not found after upsert", r.name)
	}
	resident := list[0]

	times := map[string]float64{}
	for _, day := range []string{"Mon", "Tues", "Wed", "Thurs", "Fri", "Sat", "Sun"} {
		times["ResidentTotal"+day+"Shift1Time"] = r.dayMinutes
		times["ResidentTotal"+day+"Shift2Time"] = r.dayMinutes / 2
		times["ResidentTotal"+day+"Shift3Time"] = r.dayMinutes / 4
	}
	if err := residents.UpdateTotalShiftTimes(ctx, resident.ResidentID, times); err != nil {
		return err
	}

	minutes := int(r.dayMinutes / 6)
	_, err = adls.CreateADL(ctx, &domain.ADL{
		ResidentID:   resident.ResidentID,
		QuestionText: domain.DefaultADLQuestions[0],
		Minutes:      minutes,
		Frequency:    3,
		TotalMinutes: minutes * 3,
		TotalHours:   float64(minutes*3) / 60,
		Status:       domain.ADLStatusComplete,
	})
	return err
}

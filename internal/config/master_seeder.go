package config

import (
	"context"
	"errors"
	"log"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// DefaultApplicationTypes is the reference list of service categories
var DefaultApplicationTypes = []models.ApplicationType{
	{Name: "Revenue matters", Description: "Applications related to revenue and taxation matters"},
	{Name: "Income Certificate", Description: "Applications for income certificate issuance"},
	{Name: "Record correction", Description: "Applications for correction of official records"},
	{Name: "Issuance of Fard", Description: "Applications for issuance of property documents"},
	{Name: "Demarcation", Description: "Applications for land demarcation services"},
	{Name: "Registry", Description: "Applications for property registry services"},
	{Name: "Sharja-e-Kishtwar", Description: "Applications for land ownership documents"},
	{Name: "Khasra Girdwari", Description: "Applications for land survey records"},
	{Name: "Domicile", Description: "Applications for domicile certificate"},
	{Name: "Birth Certificate", Description: "Applications for birth certificate"},
	{Name: "Death Certificate", Description: "Applications for death certificate"},
	{Name: "Driving license", Description: "Applications for driving license services"},
	{Name: "Cleanliness", Description: "Applications related to cleanliness and sanitation"},
	{Name: "General Complaints", Description: "General complaint applications"},
	{Name: "Others", Description: "Other miscellaneous applications"},
}

// DefaultOfficers is the reference list of offices applications are routed to
var DefaultOfficers = []models.Officer{
	{Name: "DC Office", Office: "dc office", Designation: "Deputy Commissioner Office"},
	{Name: "AC Office", Office: "ac office", Designation: "Assistant Commissioner Office"},
	{Name: "Saholat Center", Office: "Saholat Center", Designation: "Saholat Center"},
	{Name: "Dispatch Branch", Office: "Dispatch Branch", Designation: "Dispatch Branch"},
	{Name: "ADC (G) Bannu", Office: "ADC (G) Bannu", Designation: "Additional Deputy Commissioner (General) Bannu"},
	{Name: "ADC (F) Bannu", Office: "ADC (F) Bannu", Designation: "Additional Deputy Commissioner (Finance) Bannu"},
	{Name: "AC Bannu", Office: "AC Bannu", Designation: "Assistant Commissioner Bannu"},
	{Name: "AC SDW", Office: "AC SDW", Designation: "Assistant Commissioner SDW"},
	{Name: "AAC-I", Office: "AAC-I", Designation: "Additional Assistant Commissioner I"},
	{Name: "AAC-II", Office: "AAC-II", Designation: "Additional Assistant Commissioner II"},
	{Name: "AAC-III", Office: "AAC-III", Designation: "Additional Assistant Commissioner III"},
	{Name: "AAC-IV", Office: "AAC-IV", Designation: "Additional Assistant Commissioner IV"},
	{Name: "AAC-Revenue", Office: "AAC-Revenue", Designation: "Additional Assistant Commissioner Revenue"},
	{Name: "Supdtt Branch", Office: "Supdtt Branch", Designation: "Superintendent Branch"},
}

// SeedReferenceData seeds application types and officers that are missing
func (s *Seeder) SeedReferenceData(ctx context.Context) error {
	if err := s.seedApplicationTypes(ctx); err != nil {
		return err
	}
	if err := s.seedOfficers(ctx); err != nil {
		return err
	}

	log.Println("✅ Reference data seeded successfully")
	return nil
}

func (s *Seeder) seedApplicationTypes(ctx context.Context) error {
	for _, t := range DefaultApplicationTypes {
		_, err := s.repos.ApplicationTypes.GetByName(ctx, t.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		t.IsActive = true
		if err := s.repos.ApplicationTypes.Create(ctx, &t); err != nil && !errors.Is(err, domain.ErrDuplicateEntry) {
			return err
		}
		log.Printf("   Created application_type: %s", t.Name)
	}
	return nil
}

func (s *Seeder) seedOfficers(ctx context.Context) error {
	for _, o := range DefaultOfficers {
		_, err := s.repos.Officers.GetByName(ctx, o.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		o.IsActive = true
		if err := s.repos.Officers.Create(ctx, &o); err != nil {
			return err
		}
		log.Printf("   Created officer: %s", o.Name)
	}
	return nil
}

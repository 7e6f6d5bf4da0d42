package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/therabridge/therabridge-backend/internal/models"
)

func auProfileWithCompliance() *models.TherapistAU {
	return &models.TherapistAU{
		Therapist: models.Therapist{ID: primitive.NewObjectID()},
		Compliance: models.ComplianceBundle{
			PoliceCheck: &models.PoliceCheckDocument{ReferenceNumber: "NPC-77"},
			Qualifications: []models.QualificationDocument{
				{Title: "MPsych", Institution: "UNSW"},
				{Title: "BPsychSc", Institution: "UQ"},
			},
		},
	}
}

func TestComplianceDocPath(t *testing.T) {
	profile := auProfileWithCompliance()

	path, err := complianceDocPath(profile, DocPoliceCheck, 0)
	require.NoError(t, err)
	assert.Equal(t, "compliance.police_check.verification", path)

	path, err = complianceDocPath(profile, DocQualifications, 1)
	require.NoError(t, err)
	assert.Equal(t, "compliance.qualifications.1.verification", path)
}

func TestComplianceDocPathRejectsMissingDocuments(t *testing.T) {
	profile := auProfileWithCompliance()

	// Submitted singletons only
	_, err := complianceDocPath(profile, DocIndemnityInsurance, 0)
	assert.ErrorIs(t, err, ErrDocumentMissing)

	// List index out of range
	_, err = complianceDocPath(profile, DocQualifications, 2)
	assert.ErrorIs(t, err, ErrDocumentMissing)
	_, err = complianceDocPath(profile, DocQualifications, -1)
	assert.ErrorIs(t, err, ErrDocumentMissing)

	// Name outside the bundle
	_, err = complianceDocPath(profile, "tax_file_number", 0)
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestExpiringComplianceDocuments(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lastMonth := now.AddDate(0, -1, 0)
	nextWeek := now.AddDate(0, 0, 7)
	nextYear := now.AddDate(1, 0, 0)

	profile := auProfileWithCompliance()
	profile.Compliance.IndemnityInsurance = &models.InsuranceDocument{
		Provider:           "Guild",
		PolicyNumber:       "PL-404",
		ComplianceDocument: models.ComplianceDocument{ExpiresAt: &lastMonth},
	}
	profile.Compliance.StateRegistration = &models.RegistrationDocument{
		RegistrationNumber: "AHPRA123",
		RegistrationState:  models.NSW,
		ComplianceDocument: models.ComplianceDocument{ExpiresAt: &nextWeek},
	}
	profile.Compliance.Qualifications[0].ExpiresAt = &nextYear

	report := ExpiringComplianceDocuments(profile, now, 30*24*time.Hour)
	require.Len(t, report, 2)

	byName := map[string]ExpiringDocument{}
	for _, d := range report {
		byName[d.Document] = d
	}

	insurance, ok := byName["indemnity_insurance"]
	require.True(t, ok)
	assert.True(t, insurance.Expired)
	assert.Equal(t, profile.ID, insurance.TherapistID)

	registration, ok := byName["state_registration"]
	require.True(t, ok)
	assert.False(t, registration.Expired)

	// Documents without an expiry never appear
	for _, d := range report {
		assert.NotEqual(t, "police_check", d.Document)
	}
}

func TestExpiringComplianceDocumentsEmptyBundle(t *testing.T) {
	profile := &models.TherapistAU{}
	assert.Empty(t, ExpiringComplianceDocuments(profile, time.Now(), 30*24*time.Hour))
}

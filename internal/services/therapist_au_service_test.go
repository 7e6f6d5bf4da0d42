package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/therabridge/therabridge-backend/internal/models"
)

func stamp() *models.Verification {
	return &models.Verification{
		VerifiedAt: time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC),
		VerifiedBy: primitive.NewObjectID(),
	}
}

func TestMergeComplianceBundleDropsSubmittedStamps(t *testing.T) {
	// A therapist update can carry verification stamps forged by the client.
	// None of them may survive the merge when the stored bundle is unverified.
	stored := models.ComplianceBundle{}
	updated := models.ComplianceBundle{
		StateRegistration: &models.RegistrationDocument{
			RegistrationNumber: "PSY0001234567",
			RegistrationState:  models.NSW,
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
		Qualifications: []models.QualificationDocument{
			{
				Title:              "Master of Clinical Psychology",
				Institution:        "University of Sydney",
				Year:               2015,
				ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
			},
		},
		AdditionalCredentials: []models.CredentialDocument{
			{
				Name:               "EMDR Accreditation",
				IssuedBy:           "EMDRAA",
				ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
			},
		},
		LicenseDocument: &models.LegacyDocument{
			Number:             "L-773",
			State:              "NSW",
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
		LiabilityInsurance: &models.LegacyDocument{
			Number:             "POL-20",
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
	}

	mergeComplianceBundle(&stored, &updated)

	assert.Nil(t, stored.StateRegistration.Verification)
	require.Len(t, stored.Qualifications, 1)
	assert.Nil(t, stored.Qualifications[0].Verification)
	require.Len(t, stored.AdditionalCredentials, 1)
	assert.Nil(t, stored.AdditionalCredentials[0].Verification)
	assert.Nil(t, stored.LicenseDocument.Verification)
	assert.Nil(t, stored.LiabilityInsurance.Verification)
}

func TestMergeComplianceBundleKeepsStampsOnUnchangedDocuments(t *testing.T) {
	qualStamp := stamp()
	legacyStamp := stamp()
	stored := models.ComplianceBundle{
		Qualifications: []models.QualificationDocument{
			{
				Title:              "Master of Clinical Psychology",
				Institution:        "University of Sydney",
				Year:               2015,
				ComplianceDocument: models.ComplianceDocument{Verification: qualStamp},
			},
		},
		LicenseDocument: &models.LegacyDocument{
			Number:             "L-773",
			State:              "NSW",
			ComplianceDocument: models.ComplianceDocument{Verification: legacyStamp},
		},
	}
	updated := models.ComplianceBundle{
		Qualifications: []models.QualificationDocument{
			// Unchanged identifying fields, stamp stays.
			{Title: "Master of Clinical Psychology", Institution: "University of Sydney", Year: 2015},
			// New entry, starts unverified.
			{Title: "Graduate Diploma of Counselling", Institution: "Monash University", Year: 2019},
		},
		LicenseDocument: &models.LegacyDocument{Number: "L-773", State: "NSW"},
	}

	mergeComplianceBundle(&stored, &updated)

	require.Len(t, stored.Qualifications, 2)
	assert.Equal(t, qualStamp, stored.Qualifications[0].Verification)
	assert.Nil(t, stored.Qualifications[1].Verification)
	assert.Equal(t, legacyStamp, stored.LicenseDocument.Verification)
}

func TestMergeComplianceBundleDropsStampWhenDocumentChanges(t *testing.T) {
	stored := models.ComplianceBundle{
		StateRegistration: &models.RegistrationDocument{
			RegistrationNumber: "PSY0001234567",
			RegistrationState:  models.NSW,
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
		LiabilityInsurance: &models.LegacyDocument{
			Number:             "POL-20",
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
	}
	updated := models.ComplianceBundle{
		StateRegistration: &models.RegistrationDocument{
			RegistrationNumber: "PSY0009999999",
			RegistrationState:  models.NSW,
		},
		LiabilityInsurance: &models.LegacyDocument{Number: "POL-21"},
	}

	mergeComplianceBundle(&stored, &updated)

	assert.Nil(t, stored.StateRegistration.Verification)
	assert.Nil(t, stored.LiabilityInsurance.Verification)
}

func TestNewProfileComplianceStartsUnverified(t *testing.T) {
	bundle := models.ComplianceBundle{
		ProfessionalBodyMembership: &models.MembershipDocument{
			Body:               "APS",
			MemberNumber:       "M-100",
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
		PoliceCheck: &models.PoliceCheckDocument{
			ReferenceNumber:    "NPC-555",
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
		Qualifications: []models.QualificationDocument{
			{
				Title:              "Bachelor of Psychology",
				Institution:        "UNSW",
				ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
			},
		},
		LicenseDocument: &models.LegacyDocument{
			Number:             "L-1",
			ComplianceDocument: models.ComplianceDocument{Verification: stamp()},
		},
	}

	scrubComplianceVerification(&bundle)

	assert.Nil(t, bundle.ProfessionalBodyMembership.Verification)
	assert.Nil(t, bundle.PoliceCheck.Verification)
	assert.Nil(t, bundle.Qualifications[0].Verification)
	assert.Nil(t, bundle.LicenseDocument.Verification)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validTherapistAU() TherapistAU {
	return TherapistAU{
		Therapist: Therapist{
			UserID:          primitive.NewObjectID(),
			LicenseNumber:   "PSY0004821",
			Specializations: []Specialization{SpecializationDepression},
			CredentialType:  CredentialClinician,
			Languages:       []Language{LanguageEnglish},
			HourlyRate:      180,
			Rating:          4.2,
		},
		PracticeState: NSW,
		PracticeCity:  "Sydney",
		Postcode:      "2000",
		Status:        StatusPending,
	}
}

func TestTherapistAUValidation(t *testing.T) {
	now := time.Now()
	admin := primitive.NewObjectID()

	tests := []struct {
		name    string
		mutate  func(*TherapistAU)
		wantErr bool
	}{
		{"valid pending profile", func(th *TherapistAU) {}, false},
		{"missing status", func(th *TherapistAU) { th.Status = "" }, true},
		{"status outside vocabulary", func(th *TherapistAU) { th.Status = "suspended" }, true},
		{"practice state outside vocabulary", func(th *TherapistAU) { th.PracticeState = "NZ" }, true},
		{"practice state optional", func(th *TherapistAU) { th.PracticeState = "" }, false},
		{"postcode wrong length", func(th *TherapistAU) { th.Postcode = "200" }, true},
		{"postcode non-numeric", func(th *TherapistAU) { th.Postcode = "2A00" }, true},
		{"base rules still apply", func(th *TherapistAU) { th.LicenseNumber = "" }, true},
		{"base rating bound still applies", func(th *TherapistAU) { th.Rating = 6 }, true},
		{"paused with full trail", func(th *TherapistAU) {
			th.Status = StatusPaused
			th.PausedAt = &now
			th.PausedBy = &admin
			th.PauseReason = "extended leave"
		}, false},
		{"paused without admin", func(th *TherapistAU) {
			th.Status = StatusPaused
			th.PausedAt = &now
			th.PauseReason = "extended leave"
		}, true},
		{"paused without reason", func(th *TherapistAU) {
			th.Status = StatusPaused
			th.PausedAt = &now
			th.PausedBy = &admin
		}, true},
		{"active with stale pause trail", func(th *TherapistAU) {
			th.Status = StatusActive
			th.PausedAt = &now
		}, true},
		{"assistant cannot supervise", func(th *TherapistAU) {
			th.CredentialType = CredentialAssistant
			th.CanSupervise = true
		}, true},
		{"assistant without supervision ok", func(th *TherapistAU) {
			th.CredentialType = CredentialAssistant
		}, false},
		{"clinician can supervise", func(th *TherapistAU) { th.CanSupervise = true }, false},
		{"registration missing number", func(th *TherapistAU) {
			th.Compliance.StateRegistration = &RegistrationDocument{RegistrationState: VIC}
		}, true},
		{"registration state outside vocabulary", func(th *TherapistAU) {
			th.Compliance.StateRegistration = &RegistrationDocument{RegistrationNumber: "AHPRA123", RegistrationState: "TX"}
		}, true},
		{"full compliance bundle ok", func(th *TherapistAU) {
			expires := now.AddDate(1, 0, 0)
			th.Compliance = ComplianceBundle{
				ProfessionalBodyMembership: &MembershipDocument{Body: "APS", MemberNumber: "M-1001"},
				StateRegistration:          &RegistrationDocument{RegistrationNumber: "AHPRA123", RegistrationState: NSW},
				IndemnityInsurance: &InsuranceDocument{
					Provider:           "Guild",
					PolicyNumber:       "PL-404",
					ComplianceDocument: ComplianceDocument{ExpiresAt: &expires},
				},
				WorkingWithChildrenCheck: &ChildrenCheckDocument{CardNumber: "WWC0001", IssuingState: NSW},
				PoliceCheck:              &PoliceCheckDocument{ReferenceNumber: "NPC-77"},
				Qualifications: []QualificationDocument{
					{Title: "Master of Clinical Psychology", Institution: "UNSW", Year: 2014},
				},
			}
		}, false},
		{"qualification missing institution", func(th *TherapistAU) {
			th.Compliance.Qualifications = []QualificationDocument{{Title: "MPsych"}}
		}, true},
		{"admin note missing author", func(th *TherapistAU) {
			th.AdminNotes = []AdminNote{{Note: "called to confirm registration", AddedAt: now}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := validTherapistAU()
			tt.mutate(&th)
			err := Validate(&th)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComplianceDocumentVerified(t *testing.T) {
	doc := ComplianceDocument{}
	assert.False(t, doc.Verified())

	// Verification carries the timestamp and the admin together; there is no
	// way to represent one without the other.
	doc.Verification = &Verification{
		VerifiedAt: time.Now(),
		VerifiedBy: primitive.NewObjectID(),
	}
	assert.True(t, doc.Verified())

	doc.Verification = nil
	assert.False(t, doc.Verified())
}

func TestVerificationFieldsRequiredTogether(t *testing.T) {
	// A verification sub-document with a zero admin reference is invalid.
	v := Verification{VerifiedAt: time.Now()}
	err := Validate(&v)
	require.Error(t, err)

	v.VerifiedBy = primitive.NewObjectID()
	assert.NoError(t, Validate(&v))
}

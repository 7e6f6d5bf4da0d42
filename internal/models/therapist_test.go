package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validTherapist() Therapist {
	return Therapist{
		UserID:            primitive.NewObjectID(),
		LicenseNumber:     "PSY-48213",
		LicenseStates:     []string{"CA", "NY"},
		Specializations:   []Specialization{SpecializationAnxiety, SpecializationTrauma},
		CredentialType:    CredentialClinician,
		Languages:         []Language{LanguageEnglish, LanguageSpanish},
		Bio:               "Trauma-informed therapist with a decade of practice.",
		YearsOfExperience: 10,
		HourlyRate:        150,
		Availability: []AvailabilityWindow{
			{Day: Monday, StartTime: "09:00", EndTime: "17:00"},
		},
		Rating: 4.7,
	}
}

func TestTherapistValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Therapist)
		wantErr bool
	}{
		{"valid profile", func(th *Therapist) {}, false},
		{"missing user", func(th *Therapist) { th.UserID = primitive.ObjectID{} }, true},
		{"missing license number", func(th *Therapist) { th.LicenseNumber = "" }, true},
		{"specialization outside vocabulary", func(th *Therapist) {
			th.Specializations = append(th.Specializations, "astrology")
		}, true},
		{"missing credential type", func(th *Therapist) { th.CredentialType = "" }, true},
		{"credential outside vocabulary", func(th *Therapist) { th.CredentialType = "intern" }, true},
		{"language outside vocabulary", func(th *Therapist) { th.Languages = []Language{"klingon"} }, true},
		{"negative experience", func(th *Therapist) { th.YearsOfExperience = -1 }, true},
		{"negative rate", func(th *Therapist) { th.HourlyRate = -0.01 }, true},
		{"zero rate ok", func(th *Therapist) { th.HourlyRate = 0 }, false},
		{"rating above five", func(th *Therapist) { th.Rating = 5.1 }, true},
		{"rating below zero", func(th *Therapist) { th.Rating = -0.5 }, true},
		{"rating at bounds ok", func(th *Therapist) { th.Rating = 5 }, false},
		{"negative review count", func(th *Therapist) { th.TotalReviews = -1 }, true},
		{"bio at limit ok", func(th *Therapist) { th.Bio = strings.Repeat("a", 2000) }, false},
		{"bio over limit", func(th *Therapist) { th.Bio = strings.Repeat("a", 2001) }, true},
		{"availability day outside vocabulary", func(th *Therapist) {
			th.Availability = []AvailabilityWindow{{Day: "someday", StartTime: "09:00", EndTime: "17:00"}}
		}, true},
		{"availability bad time format", func(th *Therapist) {
			th.Availability = []AvailabilityWindow{{Day: Friday, StartTime: "9am", EndTime: "17:00"}}
		}, true},
		{"availability start after end", func(th *Therapist) {
			th.Availability = []AvailabilityWindow{{Day: Friday, StartTime: "18:00", EndTime: "09:00"}}
		}, true},
		{"availability start equals end", func(th *Therapist) {
			th.Availability = []AvailabilityWindow{{Day: Friday, StartTime: "09:00", EndTime: "09:00"}}
		}, true},
		{"education missing institution", func(th *Therapist) {
			th.Education = []EducationEntry{{Degree: "PhD"}}
		}, true},
		{"education ok", func(th *Therapist) {
			th.Education = []EducationEntry{{Institution: "UCLA", Degree: "PhD", Year: 2012}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := validTherapist()
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

func TestActiveClientCountDerivedFromList(t *testing.T) {
	th := validTherapist()
	assert.Equal(t, 0, th.ActiveClientCount())

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	th.ActiveClients = append(th.ActiveClients, a)
	assert.Equal(t, 1, th.ActiveClientCount())

	th.ActiveClients = append(th.ActiveClients, b)
	assert.Equal(t, 2, th.ActiveClientCount())

	// Remove a client; the count follows the list with no stored counter
	th.ActiveClients = th.ActiveClients[:1]
	assert.Equal(t, 1, th.ActiveClientCount())

	th.ActiveClients = nil
	assert.Equal(t, 0, th.ActiveClientCount())
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CredentialType distinguishes fully licensed clinicians from assistants
// working under supervision.
type CredentialType string

const (
	CredentialClinician CredentialType = "clinician"
	CredentialAssistant CredentialType = "assistant"
)

// Specialization is the fixed vocabulary of therapy focus areas used for
// matching and directory filters.
type Specialization string

const (
	SpecializationAnxiety         Specialization = "anxiety"
	SpecializationDepression      Specialization = "depression"
	SpecializationTrauma          Specialization = "trauma"
	SpecializationRelationships   Specialization = "relationships"
	SpecializationAddiction       Specialization = "addiction"
	SpecializationGrief           Specialization = "grief"
	SpecializationStress          Specialization = "stress"
	SpecializationFamily          Specialization = "family"
	SpecializationAdolescents     Specialization = "adolescents"
	SpecializationLGBTQIA         Specialization = "lgbtqia"
	SpecializationEatingDisorders Specialization = "eating_disorders"
	SpecializationOCD             Specialization = "ocd"
)

// Language is the fixed vocabulary of languages therapy can be offered in.
type Language string

const (
	LanguageEnglish    Language = "english"
	LanguageSpanish    Language = "spanish"
	LanguageMandarin   Language = "mandarin"
	LanguageCantonese  Language = "cantonese"
	LanguageHindi      Language = "hindi"
	LanguageArabic     Language = "arabic"
	LanguageFrench     Language = "french"
	LanguagePortuguese Language = "portuguese"
	LanguageVietnamese Language = "vietnamese"
	LanguageKorean     Language = "korean"
)

// DayOfWeek for availability windows.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// AvailabilityWindow is a weekly recurring slot. Times are HH:MM strings in
// the therapist's local timezone; start must be before end (struct-level rule).
type AvailabilityWindow struct {
	Day       DayOfWeek `bson:"day" json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string    `bson:"start_time" json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string    `bson:"end_time" json:"end_time" validate:"required,datetime=15:04"`
}

// EducationEntry is a degree held by the therapist.
type EducationEntry struct {
	Institution string `bson:"institution" json:"institution" validate:"required"`
	Degree      string `bson:"degree" json:"degree" validate:"required"`
	Year        int    `bson:"year,omitempty" json:"year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
}

// CertificationEntry is a professional certification.
type CertificationEntry struct {
	Name     string `bson:"name" json:"name" validate:"required"`
	IssuedBy string `bson:"issued_by,omitempty" json:"issued_by,omitempty"`
	Year     int    `bson:"year,omitempty" json:"year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
}

// WorkExperienceEntry is a prior clinical role.
type WorkExperienceEntry struct {
	Organization string `bson:"organization" json:"organization" validate:"required"`
	Role         string `bson:"role" json:"role" validate:"required"`
	StartYear    int    `bson:"start_year,omitempty" json:"start_year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
	EndYear      int    `bson:"end_year,omitempty" json:"end_year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
}

// Therapist is the US-market therapist profile. One profile per user account
// (unique index on user_id). The hourly rate upper bound is enforced by the
// payments side, not here.
type Therapist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	// Owning user (1:1)
	UserID primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`

	// License and professional info
	LicenseNumber   string           `bson:"license_number" json:"license_number" validate:"required"`
	LicenseStates   []string         `bson:"license_states,omitempty" json:"license_states,omitempty"`
	Specializations []Specialization `bson:"specializations,omitempty" json:"specializations,omitempty" validate:"dive,oneof=anxiety depression trauma relationships addiction grief stress family adolescents lgbtqia eating_disorders ocd"`
	CredentialType  CredentialType   `bson:"credential_type" json:"credential_type" validate:"required,oneof=clinician assistant"`

	// Languages therapy is offered in
	Languages              []Language `bson:"languages,omitempty" json:"languages,omitempty" validate:"dive,oneof=english spanish mandarin cantonese hindi arabic french portuguese vietnamese korean"`
	OffersBilingualTherapy bool       `bson:"offers_bilingual_therapy" json:"offers_bilingual_therapy"`

	// Public profile
	Bio               string                `bson:"bio,omitempty" json:"bio,omitempty" validate:"max=2000"`
	Location          string                `bson:"location,omitempty" json:"location,omitempty"`
	Education         []EducationEntry      `bson:"education,omitempty" json:"education,omitempty" validate:"dive"`
	Certifications    []CertificationEntry  `bson:"certifications,omitempty" json:"certifications,omitempty" validate:"dive"`
	WorkExperience    []WorkExperienceEntry `bson:"work_experience,omitempty" json:"work_experience,omitempty" validate:"dive"`
	YearsOfExperience int                   `bson:"years_of_experience" json:"years_of_experience" validate:"gte=0"`
	HourlyRate        float64               `bson:"hourly_rate" json:"hourly_rate" validate:"gte=0"`

	// Weekly availability
	Availability []AvailabilityWindow `bson:"availability,omitempty" json:"availability,omitempty" validate:"dive"`

	// Aggregates maintained by review/session collaborators
	Rating        float64              `bson:"rating" json:"rating" validate:"gte=0,lte=5"`
	TotalReviews  int                  `bson:"total_reviews" json:"total_reviews" validate:"gte=0"`
	TotalSessions int                  `bson:"total_sessions" json:"total_sessions" validate:"gte=0"`
	ActiveClients []primitive.ObjectID `bson:"active_clients,omitempty" json:"active_clients,omitempty"`

	// Approval status
	IsVerified bool `bson:"is_verified" json:"is_verified"`

	// External payment processor account (opaque reference)
	StripeAccountID string `bson:"stripe_account_id,omitempty" json:"stripe_account_id,omitempty"`
}

// ActiveClientCount is derived from the reference list; it is never stored.
func (t *Therapist) ActiveClientCount() int {
	return len(t.ActiveClients)
}

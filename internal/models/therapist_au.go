package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TherapistStatus is the lifecycle state of an AU therapist profile.
// Legal transitions live in services (configurable table), not here.
type TherapistStatus string

const (
	StatusPending  TherapistStatus = "pending"
	StatusActive   TherapistStatus = "active"
	StatusPaused   TherapistStatus = "paused"
	StatusInactive TherapistStatus = "inactive"
)

// AUState is an Australian state or territory code.
type AUState string

const (
	NSW AUState = "NSW"
	VIC AUState = "VIC"
	QLD AUState = "QLD"
	WA  AUState = "WA"
	SA  AUState = "SA"
	TAS AUState = "TAS"
	ACT AUState = "ACT"
	NT  AUState = "NT"
)

// Verification records who verified a compliance document and when. Absence
// of the sub-document means unverified; the two fields are never set apart.
type Verification struct {
	VerifiedAt time.Time          `bson:"verified_at" json:"verified_at" validate:"required"`
	VerifiedBy primitive.ObjectID `bson:"verified_by" json:"verified_by" validate:"required"`
}

// ComplianceDocument is the common tail shared by every compliance
// sub-document: expiry, a stored document reference, and verification state.
// DocumentPath is an opaque reference; uploads are handled elsewhere.
type ComplianceDocument struct {
	ExpiresAt    *time.Time    `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	DocumentPath string        `bson:"document_path,omitempty" json:"document_path,omitempty"`
	Verification *Verification `bson:"verification,omitempty" json:"verification,omitempty"`
}

// Verified reports whether the document has been verified by an admin.
func (d *ComplianceDocument) Verified() bool {
	return d.Verification != nil
}

// MembershipDocument: professional body membership (e.g. APS, ACA).
type MembershipDocument struct {
	Body               string `bson:"body" json:"body" validate:"required"`
	MemberNumber       string `bson:"member_number" json:"member_number" validate:"required"`
	ComplianceDocument `bson:",inline"`
}

// RegistrationDocument: AHPRA-style state registration.
type RegistrationDocument struct {
	RegistrationNumber string  `bson:"registration_number" json:"registration_number" validate:"required"`
	RegistrationState  AUState `bson:"registration_state" json:"registration_state" validate:"required,oneof=NSW VIC QLD WA SA TAS ACT NT"`
	ComplianceDocument `bson:",inline"`
}

// InsuranceDocument: professional indemnity insurance policy.
type InsuranceDocument struct {
	Provider           string `bson:"provider" json:"provider" validate:"required"`
	PolicyNumber       string `bson:"policy_number" json:"policy_number" validate:"required"`
	ComplianceDocument `bson:",inline"`
}

// ChildrenCheckDocument: working-with-children check card.
type ChildrenCheckDocument struct {
	CardNumber         string  `bson:"card_number" json:"card_number" validate:"required"`
	IssuingState       AUState `bson:"issuing_state" json:"issuing_state" validate:"required,oneof=NSW VIC QLD WA SA TAS ACT NT"`
	ComplianceDocument `bson:",inline"`
}

// PoliceCheckDocument: national police check certificate.
type PoliceCheckDocument struct {
	ReferenceNumber    string     `bson:"reference_number" json:"reference_number" validate:"required"`
	IssuedAt           *time.Time `bson:"issued_at,omitempty" json:"issued_at,omitempty"`
	ComplianceDocument `bson:",inline"`
}

// QualificationDocument: an academic qualification with evidence attached.
type QualificationDocument struct {
	Title              string `bson:"title" json:"title" validate:"required"`
	Institution        string `bson:"institution" json:"institution" validate:"required"`
	Year               int    `bson:"year,omitempty" json:"year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
	ComplianceDocument `bson:",inline"`
}

// CredentialDocument: an additional professional credential.
type CredentialDocument struct {
	Name               string `bson:"name" json:"name" validate:"required"`
	IssuedBy           string `bson:"issued_by,omitempty" json:"issued_by,omitempty"`
	ComplianceDocument `bson:",inline"`
}

// LegacyDocument is the old US-style document shape, retained so profiles
// migrated from the US model keep their paperwork readable.
type LegacyDocument struct {
	Number             string `bson:"number,omitempty" json:"number,omitempty"`
	State              string `bson:"state,omitempty" json:"state,omitempty"`
	ComplianceDocument `bson:",inline"`
}

// ComplianceBundle groups all compliance paperwork for an AU therapist.
type ComplianceBundle struct {
	ProfessionalBodyMembership *MembershipDocument    `bson:"professional_body_membership,omitempty" json:"professional_body_membership,omitempty"`
	StateRegistration          *RegistrationDocument  `bson:"state_registration,omitempty" json:"state_registration,omitempty"`
	IndemnityInsurance         *InsuranceDocument     `bson:"indemnity_insurance,omitempty" json:"indemnity_insurance,omitempty"`
	WorkingWithChildrenCheck   *ChildrenCheckDocument `bson:"working_with_children_check,omitempty" json:"working_with_children_check,omitempty"`
	PoliceCheck                *PoliceCheckDocument   `bson:"police_check,omitempty" json:"police_check,omitempty"`

	Qualifications        []QualificationDocument `bson:"qualifications,omitempty" json:"qualifications,omitempty" validate:"dive"`
	AdditionalCredentials []CredentialDocument    `bson:"additional_credentials,omitempty" json:"additional_credentials,omitempty" validate:"dive"`

	// Legacy US-style documents kept for backward compatibility
	LicenseDocument    *LegacyDocument `bson:"license_document,omitempty" json:"license_document,omitempty"`
	LiabilityInsurance *LegacyDocument `bson:"liability_insurance,omitempty" json:"liability_insurance,omitempty"`
}

// AdminNote is one entry in the append-only administrative trail.
type AdminNote struct {
	Note    string             `bson:"note" json:"note" validate:"required"`
	AddedBy primitive.ObjectID `bson:"added_by" json:"added_by" validate:"required"`
	AddedAt time.Time          `bson:"added_at" json:"added_at"`
}

// TherapistAU is the Australia-market therapist profile: the US shape plus
// practice location, lifecycle status, supervision capability, the compliance
// bundle, and the administrative trail.
type TherapistAU struct {
	Therapist `bson:",inline"`

	// Practice location
	PracticeState AUState `bson:"practice_state,omitempty" json:"practice_state,omitempty" validate:"omitempty,oneof=NSW VIC QLD WA SA TAS ACT NT"`
	PracticeCity  string  `bson:"practice_city,omitempty" json:"practice_city,omitempty"`
	Postcode      string  `bson:"postcode,omitempty" json:"postcode,omitempty" validate:"omitempty,len=4,numeric"`

	Status TherapistStatus `bson:"status" json:"status" validate:"required,oneof=pending active paused inactive"`

	// Whether this clinician may supervise assistants. Never true for the
	// assistant credential (struct-level rule).
	CanSupervise bool `bson:"can_supervise" json:"can_supervise"`

	Compliance ComplianceBundle `bson:"compliance" json:"compliance"`

	AdminNotes []AdminNote `bson:"admin_notes,omitempty" json:"admin_notes,omitempty" validate:"dive"`

	// Pause trail: all three set while Status is paused, all clear otherwise
	// (struct-level rule).
	PausedAt    *time.Time          `bson:"paused_at,omitempty" json:"paused_at,omitempty"`
	PausedBy    *primitive.ObjectID `bson:"paused_by,omitempty" json:"paused_by,omitempty"`
	PauseReason string              `bson:"pause_reason,omitempty" json:"pause_reason,omitempty"`
}

package models

import "time"

// VisitMode is how the patient attends the appointment.
type VisitMode string

const (
	VisitInPerson VisitMode = "offline"
	VisitVirtual  VisitMode = "virtual"
)

// Valid reports whether m is one of the supported visit modes.
func (m VisitMode) Valid() bool {
	return m == VisitInPerson || m == VisitVirtual
}

// Gender is the closed set offered on the intake form.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Slot is the time window picked on the doctor's calendar.
type Slot struct {
	StartTime time.Time `json:"startTime" bson:"startTime"`
	EndTime   time.Time `json:"endTime" bson:"endTime"`
}

// IntakeRecord is the merged personal and clinical section of the booking form.
// Field order is the order the record is serialized in.
type IntakeRecord struct {
	// Identity.
	Name       string `json:"name" bson:"name" validate:"required"`
	Gender     Gender `json:"gender" bson:"gender" validate:"required,oneof=Male Female Other"`
	Age        int    `json:"age,string" bson:"age" validate:"gte=0,lte=150"`
	BloodGroup string `json:"bloodGroup" bson:"bloodGroup" validate:"required"`

	// Clinical, all optional.
	Symptoms          string `json:"symptoms" bson:"symptoms"`
	History           string `json:"history" bson:"history"`
	OngoingTreatment  string `json:"ongoingTreatment" bson:"ongoingTreatment"`
	Medications       string `json:"medications" bson:"medications"`
	Allergies         string `json:"allergies" bson:"allergies"`
	ChronicConditions string `json:"chronicConditions" bson:"chronicConditions"`
}

// EncodedAttachment is a report file ready for transmission. Data is a data URI.
type EncodedAttachment struct {
	Label string `json:"filename"`
	Data  string `json:"data"`
}

// BookingRequest is one fully encoded submission. It is built fresh for every
// attempt and not modified afterwards.
type BookingRequest struct {
	SubjectID   string
	Slot        Slot
	Note        string
	VisitMode   VisitMode
	Intake      IntakeRecord
	Attachments []EncodedAttachment
}

package models

import "time"

const (
	AppointmentScheduled = "SCHEDULED"

	// AppointmentCost is the number of credits a booking consumes.
	AppointmentCost = 2
)

// ReportFile is a report that has been stored by the upload relay.
type ReportFile struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}

// Appointment is a confirmed booking as stored by the booking handler.
type Appointment struct {
	ID             string       `bson:"id" json:"id"`
	DoctorID       string       `bson:"doctorId" json:"doctorId"`
	StartTime      time.Time    `bson:"startTime" json:"startTime"`
	EndTime        time.Time    `bson:"endTime" json:"endTime"`
	Description    string       `bson:"description" json:"description"`
	Type           VisitMode    `bson:"appointmentType" json:"appointmentType"`
	Status         string       `bson:"status" json:"status"`
	Credits        int          `bson:"credits" json:"credits"`
	MedicalForm    IntakeRecord `bson:"medicalForm" json:"medicalForm"`
	Reports        []ReportFile `bson:"reports" json:"reports"`
	IdempotencyKey string       `bson:"idempotencyKey,omitempty" json:"-"`
	ReminderSentAt *time.Time   `bson:"reminderSentAt,omitempty" json:"reminderSentAt,omitempty"`
	CreatedAt      time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updatedAt" json:"updatedAt"`
}

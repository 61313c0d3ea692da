package models

import "time"

const (
	RoleDoctor     = "DOCTOR"
	DoctorVerified = "VERIFIED"
	DoctorPending  = "PENDING"
	DoctorRejected = "REJECTED"
)

// Doctor is a bookable practitioner listed in the directory.
type Doctor struct {
	ID                 string    `bson:"id" json:"id"`
	ClerkUserID        string    `bson:"clerkUserId" json:"clerkUserId"`
	Email              string    `bson:"email" json:"email"`
	Name               string    `bson:"name" json:"name"`
	Role               string    `bson:"role" json:"role"`
	Specialty          string    `bson:"specialty" json:"specialty"`
	Experience         int       `bson:"experience" json:"experience"` // years
	Description        string    `bson:"description" json:"description"`
	VerificationStatus string    `bson:"verificationStatus" json:"verificationStatus"`
	Credits            int       `bson:"credits" json:"credits"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

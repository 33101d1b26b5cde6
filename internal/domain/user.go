package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Stored values match the existing gym data.
const (
	RoleAdmin   Role = "administrador"
	RoleTrainer Role = "entrenador"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTrainer
}

// User represents a staff account (administrator or trainer) able to log in.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"userType" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Trainer-specific ---
	PhoneNumber string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Gym         string `bson:"gym,omitempty" json:"gym,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
}

// Session is the identity the account acts with right now. Role changes take
// effect on the next request.
func (u *User) Session() Session {
	return Session{UserID: u.ID, Role: u.Role}
}

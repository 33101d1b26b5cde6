package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessToken grants unauthenticated access to one routine day until
// ExpirationDate. Records are never updated.
type AccessToken struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token          string             `bson:"token" json:"token"`
	RoutineID      primitive.ObjectID `bson:"routineId" json:"routineId"`
	Day            Weekday            `bson:"day" json:"day"`
	ExpirationDate time.Time          `bson:"expirationDate" json:"expirationDate"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

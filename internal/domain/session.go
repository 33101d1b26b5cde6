package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Session is the identity of the caller for one request. It is built from the
// bearer token by the API layer and handed to services explicitly.
type Session struct {
	UserID primitive.ObjectID
	Role   Role
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanManage reports whether the session may act on a record owned by ownerID.
// Administrators manage everything; trainers only what they own.
func (s Session) CanManage(ownerID *primitive.ObjectID) bool {
	if s.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == s.UserID
}

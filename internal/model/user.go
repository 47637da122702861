// Package model defines domain entities for the application.
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a persisted user record. ID is assigned by the store on insert and is
// the zero ObjectID until then.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

// IsPersisted reports whether the store has assigned an identifier.
func (u *User) IsPersisted() bool {
	return !u.ID.IsZero()
}

// IDHex returns the identifier in its 24-character hex form, or "" before insert.
func (u *User) IDHex() string {
	if !u.IsPersisted() {
		return ""
	}
	return u.ID.Hex()
}

package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ErrInvalidRole is returned when a role cannot be mapped to the canonical set.
var ErrInvalidRole = errors.New("invalid role")

// Role is the sole authorization key of a user.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStaff        Role = "staff"
	RoleVeterinarian Role = "veterinarian"
)

// Roles lists the canonical roles in display order.
var Roles = []Role{RoleAdmin, RoleStaff, RoleVeterinarian}

// legacyRoles maps the older vocabulary still present in stored profiles.
var legacyRoles = map[string]Role{
	"farmer": RoleStaff,
	"vet":    RoleVeterinarian,
}

// NormalizeRole maps raw role text onto the canonical vocabulary. Unknown
// values are returned lower-cased and unchanged so the access policy can apply
// its fallback.
func NormalizeRole(raw string) Role {
	value := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := legacyRoles[value]; ok {
		return canonical
	}
	return Role(value)
}

// ParseRole normalizes raw and rejects anything outside the canonical set.
func ParseRole(raw string) (Role, error) {
	role := NormalizeRole(raw)
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Valid reports whether the role is canonical.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON normalizes legacy role names read from the store.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = NormalizeRole(raw)
	return nil
}

// UnmarshalBSONValue normalizes legacy role names read from MongoDB.
func (r *Role) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	str, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		*r = ""
		return nil
	}
	*r = NormalizeRole(str)
	return nil
}

// User is a dashboard account profile.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	FullName  string    `json:"full_name" bson:"full_name"`
	Role      Role      `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// RecordID implements repository.Record.
func (u User) RecordID() string { return u.ID }

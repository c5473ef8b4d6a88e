package domain

import "time"

// Role is a free-form label carried into issued tokens. It is stored and
// propagated verbatim; this service does not validate it against an enum.
type Role string

// DefaultRole is assigned when a signup request carries no role.
const DefaultRole Role = "customer"

// User is an account record. Email is the natural key and is always stored
// in normalized form (trimmed, lower-cased). PasswordHash is opaque bcrypt
// output; the raw password is never stored or logged.
type User struct {
	ID           string    `bson:"_id,omitempty"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         Role      `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

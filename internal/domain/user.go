package domain

import "github.com/google/uuid"

// User is the identity supplied by the auth layer. A nil *User means the
// caller is anonymous.
type User struct {
	ID   uuid.UUID
	Name string
	Role string
}

// RoleOperator marks users allowed to confirm and complete bookings.
const RoleOperator = "operator"

// DisplayName returns the name shown on reviews, falling back to "Anonymous".
func (u User) DisplayName() string {
	if u.Name == "" {
		return "Anonymous"
	}
	return u.Name
}

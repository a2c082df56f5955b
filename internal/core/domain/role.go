package domain

import "math"

// Role categorises a user session and controls the price multiplier
// applied to every product the user sees.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleFriend   Role = "friend"
	RoleNormal   Role = "normal"
	RoleOpponent Role = "opponent"
)

// multipliers is the pricing rule table. Roles are mutually exclusive;
// anything not listed pays the base price.
var multipliers = map[Role]float64{
	RoleFriend:   0.8,
	RoleOpponent: 1.2,
}

// ParseRole normalises a role string. Unknown values fall back to
// RoleNormal rather than failing: a session with a bad role still
// browses at base price.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleFriend, RoleNormal, RoleOpponent:
		return Role(s)
	default:
		return RoleNormal
	}
}

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFriend, RoleNormal, RoleOpponent:
		return true
	}
	return false
}

// Multiplier returns the price factor for the role. Absent or unknown
// roles (including the empty anonymous session) map to 1.0.
func (r Role) Multiplier() float64 {
	if m, ok := multipliers[r]; ok {
		return m
	}
	return 1.0
}

// PriceFor applies the role multiplier to a base price, rounded to cents.
// Total over its domain; no error conditions.
func PriceFor(basePrice float64, role Role) float64 {
	return math.Round(basePrice*role.Multiplier()*100) / 100
}

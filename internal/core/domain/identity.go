package domain

// IdentityPhase tells whether an identity has been confirmed by the backend.
type IdentityPhase string

const (
	// PhaseTentative identities are decoded from the token alone.
	PhaseTentative IdentityPhase = "tentative"
	// PhaseConfirmed identities come from /users/me.
	PhaseConfirmed IdentityPhase = "confirmed"
)

// Identity is who the client believes it is logged in as.
type Identity struct {
	Username string        `json:"username"`
	Role     Role          `json:"role"`
	Phase    IdentityPhase `json:"phase"`
}

// Confirmed reports whether the backend vouched for this identity.
func (i *Identity) Confirmed() bool {
	return i != nil && i.Phase == PhaseConfirmed
}

// IsAdmin reports whether the identity may use admin features. A tentative
// identity is never treated as admin.
func (i *Identity) IsAdmin() bool {
	return i.Confirmed() && i.Role == RoleAdmin
}

// TentativeIdentity builds an unconfirmed identity from a token subject.
func TentativeIdentity(username string) *Identity {
	return &Identity{Username: username, Role: RoleUnknown, Phase: PhaseTentative}
}

// ConfirmedIdentity builds an identity from a backend user record.
func ConfirmedIdentity(u *User) *Identity {
	return &Identity{Username: u.Username, Role: u.Role, Phase: PhaseConfirmed}
}

// Health is the backend health report.
type Health struct {
	Status    string     `json:"status"`
	Version   string     `json:"version,omitempty"`
	Uptime    string     `json:"uptime,omitempty"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
}

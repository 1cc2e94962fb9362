package domain

import "time"

// Invitation is a single-use, time-limited token that authorises account
// creation with a pre-assigned role. It is invalid after ExpiresAt or once
// AcceptedAt is set.
type Invitation struct {
	ID         string     `json:"_id,omitempty"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	Token      string     `json:"token,omitempty"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt,omitempty"`
}

// InviteGrant is what the API returns when an admin issues an invitation.
type InviteGrant struct {
	Invite      Invitation `json:"invite"`
	InviteToken string     `json:"inviteToken"`
	InviteLink  string     `json:"inviteLink"`
}

// InviteClaim is the pre-filled registration data behind a valid invite token.
type InviteClaim struct {
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

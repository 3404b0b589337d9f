package domain

import "time"

// MemberRole scopes what a user may do inside a home.
type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleMember MemberRole = "MEMBER"
)

// Home is a household that owns lists, items, and memberships.
type Home struct {
	ID        string
	Name      string
	Image     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership binds a user to a home with a role.
type Membership struct {
	ID        string
	UserID    string
	HomeID    string
	Role      MemberRole
	CreatedAt time.Time
}

// Invitation is a pending request for an existing user to join a home.
// Accepting creates a Membership first, then the invitation is deleted.
type Invitation struct {
	ID        string
	UserID    string
	HomeID    string
	CreatedAt time.Time
}

// InvitationDetail carries the display names needed for resolution messages.
type InvitationDetail struct {
	Invitation
	UserName string
	HomeName string
}

// HomeMember is a membership joined with its user for home detail views.
type HomeMember struct {
	Membership
	User User
}

// HomeDetail aggregates everything the home view needs in one read.
type HomeDetail struct {
	Home
	Members []HomeMember
	Lists   []List
	Items   []Item
}

// List groups items inside a home.
type List struct {
	ID        string
	HomeID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is a shopping-list entry owned by a home.
type Item struct {
	ID          string
	HomeID      string
	Name        string
	Image       *string
	Description string
	Price       string
	Categories  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

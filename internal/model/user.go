package model

import "time"

type Role string

const (
	RoleStudent  Role = "student"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusPending     UserStatus = "pending"
	UserStatusSuspended   UserStatus = "suspended"
	UserStatusDeactivated UserStatus = "deactivated"
)

type UserAction string

const (
	UserActionActivate   UserAction = "activate"
	UserActionSuspend    UserAction = "suspend"
	UserActionReactivate UserAction = "reactivate"
	UserActionDeactivate UserAction = "deactivate"
)

// UserTransitions is the account status machine. Deactivated is terminal.
var UserTransitions = Transitions[UserStatus, UserAction]{
	UserStatusPending: {
		UserActionActivate:   UserStatusActive,
		UserActionSuspend:    UserStatusSuspended,
		UserActionDeactivate: UserStatusDeactivated,
	},
	UserStatusActive: {
		UserActionSuspend:    UserStatusSuspended,
		UserActionDeactivate: UserStatusDeactivated,
	},
	UserStatusSuspended: {
		UserActionReactivate: UserStatusActive,
		UserActionDeactivate: UserStatusDeactivated,
	},
}

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	StatusReason string     `json:"status_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Actor is the authenticated caller of a domain operation.
type Actor struct {
	UserID int64
	Role   Role
	Status UserStatus
}

// ActorFor builds the actor for a loaded user.
func ActorFor(u *User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, Status: u.Status}
}

// CanAct reports whether the actor may perform role-gated writes.
func (a Actor) CanAct() bool {
	return a.UserID != 0 && a.Status == UserStatusActive
}

// Is reports whether the actor is active and holds role.
func (a Actor) Is(role Role) bool {
	return a.CanAct() && a.Role == role
}

// Owns reports whether the actor is the referenced user.
func (a Actor) Owns(userID int64) bool {
	return SameID(a.UserID, userID)
}

// UserCount is one bucket of the users-by-role-and-status breakdown.
type UserCount struct {
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
	Count  int        `json:"count"`
}

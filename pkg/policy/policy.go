// Package policy decides whether an authenticated actor may act on a
// resource. Decisions are pure; callers turn a denial into a Forbidden error.
package policy

// Role is the authorization role carried by users and tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Actor is the identity behind the current request.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Action names an operation subject to authorization.
type Action string

const (
	ReadUser       Action = "user:read"
	UpdateUser     Action = "user:update"
	ChangePassword Action = "user:change_password"
	ListUsers      Action = "user:list"
	DeleteUser     Action = "user:delete"
	AssignRole     Action = "user:assign_role"
	CreateAdmin    Action = "user:create_admin"

	ReadExpense     Action = "expense:read"
	CreateExpense   Action = "expense:create"
	UpdateExpense   Action = "expense:update"
	DeleteExpense   Action = "expense:delete"
	ListExpenses    Action = "expense:list"
	ReassignExpense Action = "expense:reassign"
)

var adminOnly = map[Action]bool{
	ListUsers:       true,
	DeleteUser:      true,
	AssignRole:      true,
	CreateAdmin:     true,
	ReassignExpense: true,
}

// CanAct reports whether actor may perform action on a resource owned by
// ownerID. For users the owner is the user itself.
func CanAct(actor Actor, action Action, ownerID string) bool {
	if actor.IsAdmin() {
		return true
	}
	if adminOnly[action] {
		return false
	}
	return actor.ID != "" && actor.ID == ownerID
}

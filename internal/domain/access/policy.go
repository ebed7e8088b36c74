package access

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("actor is not authenticated")
	ErrUnknownRole     = errors.New("unknown role")
)

// Role is a user's privilege tier. Roles are totally ordered: player < manager < admin.
type Role string

const (
	RolePlayer  Role = "player"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RolePlayer:  1,
	RoleManager: 2,
	RoleAdmin:   3,
}

func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := roleRank[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r meets the min threshold. Unknown roles never do.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

// Actor is the resolved identity behind a request.
type Actor struct {
	Email string
	Role  Role
}

func (a Actor) Authenticated() bool {
	return strings.TrimSpace(a.Email) != "" && a.Role.Valid()
}

type Operation string

const (
	OpCreateEntry  Operation = "entry.create"
	OpSubmitPick   Operation = "pick.submit"
	OpEditPick     Operation = "pick.edit"
	OpViewOwn      Operation = "own.view"
	OpViewAll      Operation = "admin.view"
	OpVerifyEntry  Operation = "entry.verify"
	OpRecordResult Operation = "result.record"
	OpChangeRole   Operation = "user.change_role"
	OpManageTeams  Operation = "team.manage"
)

type rule struct {
	minRole Role
	// selfScoped operations act on something the actor owns.
	selfScoped bool
	// overrideRole, when set, lets holders skip the ownership check.
	overrideRole Role
}

var policy = map[Operation]rule{
	OpCreateEntry:  {minRole: RolePlayer, selfScoped: true},
	OpSubmitPick:   {minRole: RolePlayer, selfScoped: true},
	OpEditPick:     {minRole: RolePlayer, selfScoped: true},
	OpViewOwn:      {minRole: RolePlayer, selfScoped: true, overrideRole: RoleManager},
	OpViewAll:      {minRole: RoleManager},
	OpVerifyEntry:  {minRole: RoleManager},
	OpRecordResult: {minRole: RoleManager},
	OpChangeRole:   {minRole: RoleAdmin},
	OpManageTeams:  {minRole: RoleAdmin},
}

// MinimumRole returns the lowest role allowed to perform op.
func MinimumRole(op Operation) (Role, bool) {
	r, ok := policy[op]
	return r.minRole, ok
}

// Authorize decides whether actor may perform op. targetOwner is the owner email of the
// object being acted on and is only consulted for self-scoped operations.
func Authorize(actor Actor, op Operation, targetOwner string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	r, ok := policy[op]
	if !ok {
		return fmt.Errorf("%w: unknown operation %q", ErrForbidden, op)
	}
	if !actor.Role.AtLeast(r.minRole) {
		return fmt.Errorf("%w: %s requires role %s", ErrForbidden, op, r.minRole)
	}
	if !r.selfScoped {
		return nil
	}
	if r.overrideRole != "" && actor.Role.AtLeast(r.overrideRole) {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(actor.Email), strings.TrimSpace(targetOwner)) {
		return fmt.Errorf("%w: %s is limited to the owner", ErrForbidden, op)
	}

	return nil
}

package indicator

import (
	"strings"

	"github.com/smazurov/statusled/internal/status"
)

// Role is a network indicator role; roles combine into a status word.
type Role uint8

// Network roles.
const (
	RolePhysical Role = 1 << iota
	RoleSlave
	RoleTunnel
)

func (r Role) String() string {
	var parts []string
	if r&RolePhysical != 0 {
		parts = append(parts, "physical")
	}
	if r&RoleSlave != 0 {
		parts = append(parts, "slave")
	}
	if r&RoleTunnel != 0 {
		parts = append(parts, "tunnel")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// DefaultCheck is the check applied to members configured without one.
// Physical interfaces are judged by carrier, the others by admin state.
func (r Role) DefaultCheck() status.CheckMode {
	if r == RolePhysical {
		return status.CheckLink
	}
	return status.CheckUp
}

// Member is one interface reference inside a group.
type Member struct {
	Name  string
	Check status.CheckMode
}

// InterfaceGroup is the set of interfaces backing one role. The group is up
// when any member satisfies its check; an empty group is always up.
type InterfaceGroup struct {
	Role    Role
	Members []Member

	previous bool
	seeded   bool
}

// Names returns the member interface names.
func (g *InterfaceGroup) Names() []string {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = m.Name
	}
	return names
}

// Evaluate computes the aggregate and compares it with the previous
// evaluation. The first evaluation only seeds the previous value.
func (g *InterfaceGroup) Evaluate(table *status.Table) (up, changed bool) {
	up = g.Up(table)
	changed = g.seeded && up != g.previous
	g.previous = up
	g.seeded = true
	return up, changed
}

// Up evaluates the group against the shared status table.
func (g *InterfaceGroup) Up(table *status.Table) bool {
	if len(g.Members) == 0 {
		return true
	}
	for _, m := range g.Members {
		if m.Check.Satisfied(table.Lookup(m.Name)) {
			return true
		}
	}
	return false
}

package authz

import (
	"fmt"
	"strings"
)

// Guard — именованный предикат; описание попадает в ответ 403 и в лог.
type Guard struct {
	Name        string
	Description string
	Allow       Predicate
}

// Gatekeeper собирает гварды с учётом настраиваемой политики администратора.
type Gatekeeper struct {
	adminRoles []string
}

func NewGatekeeper(adminRoles []string) *Gatekeeper {
	if len(adminRoles) == 0 {
		adminRoles = []string{RoleAdmin}
	}
	return &Gatekeeper{adminRoles: adminRoles}
}

func (g *Gatekeeper) AdminRoles() []string {
	return append([]string(nil), g.adminRoles...)
}

func (g *Gatekeeper) HasRole(role string) Guard {
	return Guard{
		Name:        "has_role",
		Description: fmt.Sprintf("Access denied. Required role: %s", role),
		Allow:       Require(role),
	}
}

func (g *Gatekeeper) HasAnyRole(roles ...string) Guard {
	return Guard{
		Name:        "has_any_role",
		Description: fmt.Sprintf("Access denied. Required one of: %s", strings.Join(roles, ", ")),
		Allow:       AnyOf(roles...),
	}
}

func (g *Gatekeeper) HasAllRoles(roles ...string) Guard {
	return Guard{
		Name:        "has_all_roles",
		Description: fmt.Sprintf("Access denied. Required all of: %s", strings.Join(roles, ", ")),
		Allow:       AllOf(roles...),
	}
}

// IsAdmin проходит для любой роли из ADMIN_ROLES.
func (g *Gatekeeper) IsAdmin() Guard {
	return Guard{
		Name:        "is_admin",
		Description: "Admin access required",
		Allow:       AnyOf(g.adminRoles...),
	}
}

package authz

import (
	"encoding/json"
	"sort"
	"strings"
)

// RoleSet — неупорядоченное множество имён ролей. Нулевое значение пусто.
type RoleSet struct {
	names map[string]struct{}
}

func NewRoleSet(names ...string) RoleSet {
	rs := RoleSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		rs.names[n] = struct{}{}
	}
	return rs
}

// OrDefault гарантирует инвариант: пустой набор превращается в набор по умолчанию.
func (rs RoleSet) OrDefault(def RoleSet) RoleSet {
	if rs.Len() == 0 {
		return def
	}
	return rs
}

func (rs RoleSet) Has(role string) bool {
	_, ok := rs.names[role]
	return ok
}

func (rs RoleSet) Len() int { return len(rs.names) }

// Names возвращает роли в отсортированном порядке, чтобы логи и ответы были стабильны.
func (rs RoleSet) Names() []string {
	out := make([]string, 0, len(rs.names))
	for n := range rs.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (rs RoleSet) String() string {
	return "{" + strings.Join(rs.Names(), ",") + "}"
}

func (rs RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.Names())
}

// Predicate — решение гварда над набором ролей.
type Predicate func(RoleSet) bool

// Require проходит, только если роль есть в наборе.
func Require(role string) Predicate {
	return func(rs RoleSet) bool { return rs.Has(role) }
}

// AnyOf — логическое ИЛИ по списку ролей. Пустой список никогда не проходит.
func AnyOf(roles ...string) Predicate {
	return func(rs RoleSet) bool {
		for _, r := range roles {
			if rs.Has(r) {
				return true
			}
		}
		return false
	}
}

// AllOf — логическое И по списку ролей. Пустой список проходит всегда.
func AllOf(roles ...string) Predicate {
	return func(rs RoleSet) bool {
		for _, r := range roles {
			if !rs.Has(r) {
				return false
			}
		}
		return true
	}
}

package jack

import (
	"fmt"
	"strings"
)

// A Scope is one named pocket of declarations (class fields, subroutine
// locals, ...), holding variables in the order they were declared so that
// each one's VM segment index is just its position in the slice.
type Scope struct {
	name    string
	entries []Variable
}

// register appends 'v' to the scope, rejecting a name already declared in it.
func (s *Scope) register(v Variable) error {
	if _, _, found := s.resolve(v.Name); found {
		return fmt.Errorf("'%s' already declared in scope '%s'", v.Name, s.name)
	}
	s.entries = append(s.entries, v)
	return nil
}

func (s *Scope) resolve(name string) (uint16, Variable, bool) {
	for idx, entry := range s.entries {
		if entry.Name == name {
			return uint16(idx), entry, true
		}
	}
	return 0, Variable{}, false
}

// ScopeTable tracks the class scope (static + field) and, while compiling a
// subroutine, the subroutine scope (parameter + local) layered on top of it.
// Subroutine-scope lookups shadow class-scope ones, matching the Jack name
// resolution rules.
type ScopeTable struct {
	static Scope

	field     Scope
	local     Scope
	parameter Scope
}

func NewScopeTable() *ScopeTable {
	return &ScopeTable{static: Scope{name: "Global"}}
}

// PushClassScope resets the static and field scopes for a new class, the field
// scope being named "<class>.Global".
func (st *ScopeTable) PushClassScope(class string) {
	st.static = Scope{name: "Global"}
	st.field = Scope{name: fmt.Sprintf("%s.Global", class)}
}

func (st *ScopeTable) PopClassScope() { st.field = Scope{} }

// PushSubRoutineScope resets the parameter/local scopes for a new subroutine,
// named "<class>.<method>" by swapping "Global" out of the class scope's name.
func (st *ScopeTable) PushSubRoutineScope(method string) {
	name := strings.ReplaceAll(st.GetScope(), "Global", method)
	st.local = Scope{name: name}
	st.parameter = Scope{name: name}
}

func (st *ScopeTable) PopSubroutineScope() { st.local, st.parameter = Scope{}, Scope{} }

// GetScope reports the innermost currently active scope's name, used to
// name subroutine scopes and to recover the current class for bare calls.
func (st *ScopeTable) GetScope() string {
	if st.local.name != "" {
		return st.local.name
	}
	if st.field.name != "" {
		return st.field.name
	}
	return "Global"
}

// RegisterVariable inserts 'v' into the scope matching its Kind. Two
// variables of the same kind declared with the same name in the same scope
// violate the symbol-table invariant and are rejected; a local/parameter is
// still free to shadow a field/static of the same name, since those live in
// different scopes entirely.
func (st *ScopeTable) RegisterVariable(v Variable) error {
	switch v.Kind {
	case Local:
		return st.local.register(v)
	case Field:
		return st.field.register(v)
	case Parameter:
		return st.parameter.register(v)
	case Static:
		return st.static.register(v)
	}
	return nil
}

// ResolveVariable searches, in order, the local, parameter, field and static
// scopes and returns the VM segment index together with the matched
// Variable. Subroutine-scope entries shadow class-scope ones by virtue of
// being searched first.
func (st *ScopeTable) ResolveVariable(name string) (uint16, Variable, error) {
	for _, scope := range []*Scope{&st.local, &st.parameter, &st.field, &st.static} {
		if idx, v, found := scope.resolve(name); found {
			return idx, v, nil
		}
	}
	return 0, Variable{}, fmt.Errorf("variable '%s' undeclared, not found in any scope", name)
}

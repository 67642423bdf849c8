package lx

import (
	"sort"

	"github.com/l3x61/lx/internal/contract"
)

// slot is one binding. A slot with bound == false is a placeholder: the name
// is lexically visible but reading it fails until Finalize.
type slot struct {
	value Value
	bound bool
}

// Env is a lexical scope with a parent link. Lookups walk parent-ward, so a
// closure sees the chain as it was nested where the closure was created.
//
// Envs are shared: every closure created in a scope and every child scope
// keeps it alive. They are destroyed only by the Tracker that registered them.
type Env struct {
	parent   *Env
	table    map[string]*slot
	released bool
}

// NewEnv creates a new lexical scope with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]*slot)}
}

// Parent returns the enclosing scope, or nil for a root.
func (e *Env) Parent() *Env {
	e.live()
	return e.parent
}

// Released reports whether the owning Tracker has destroyed this scope.
func (e *Env) Released() bool { return e.released }

// DeclareBind binds name to v in this scope. Shadowing an outer binding is
// allowed; redeclaring within the same scope fails with AlreadyDeclared.
func (e *Env) DeclareBind(name string, v Value) error {
	e.live()
	if _, ok := e.table[name]; ok {
		return &Error{Kind: AlreadyDeclared, Msg: name}
	}
	e.table[name] = &slot{value: v, bound: true}
	return nil
}

// DeclarePlaceholder declares name in this scope without a value.
func (e *Env) DeclarePlaceholder(name string) error {
	e.live()
	if _, ok := e.table[name]; ok {
		return &Error{Kind: AlreadyDeclared, Msg: name}
	}
	e.table[name] = &slot{}
	return nil
}

// Finalize gives a placeholder of this scope its value. Bindings are single
// assignment: finalizing a bound slot fails with AlreadyDeclared.
func (e *Env) Finalize(name string, v Value) error {
	e.live()
	s, ok := e.table[name]
	if !ok {
		return &Error{Kind: NotDefined, Msg: name}
	}
	if s.bound {
		return &Error{Kind: AlreadyDeclared, Msg: name + " is already bound"}
	}
	s.value, s.bound = v, true
	return nil
}

// Assign overwrites the nearest declaration of name. It exists for hosts
// (the REPL's result slot); the language itself never reassigns.
func (e *Env) Assign(name string, v Value) error {
	for cur := e; cur != nil; cur = cur.parent {
		cur.live()
		if s, ok := cur.table[name]; ok {
			s.value, s.bound = v, true
			return nil
		}
	}
	return &Error{Kind: NotDefined, Msg: name}
}

// Lookup retrieves the nearest binding of name. Unbound placeholders fail
// with NotDefined exactly like absent names.
func (e *Env) Lookup(name string) (Value, error) {
	for cur := e; cur != nil; cur = cur.parent {
		cur.live()
		if s, ok := cur.table[name]; ok {
			if !s.bound {
				return Null, &Error{Kind: NotDefined, Msg: name + " is used before its definition is complete"}
			}
			return s.value, nil
		}
	}
	return Null, &Error{Kind: NotDefined, Msg: name}
}

// Names returns the names declared in this scope, sorted.
func (e *Env) Names() []string {
	e.live()
	names := make([]string, 0, len(e.table))
	for k := range e.table {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// local returns the slot for name in this scope only.
func (e *Env) local(name string) (Value, bool, bool) {
	s, ok := e.table[name]
	if !ok {
		return Null, false, false
	}
	return s.value, s.bound, true
}

func (e *Env) live() {
	contract.Assertf(!e.released, "use of a released environment")
}

func (e *Env) release() {
	e.table = nil
	e.parent = nil
	e.released = true
}

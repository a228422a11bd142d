package ir

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// Operation is a single operation definition with its types resolved against
// the schema. Source holds the canonical rendering of the definition.
type Operation struct {
	Name         string
	Operation    ast.Operation
	RootType     *ast.Definition
	Variables    []*Variable
	Source       string
	SelectionSet *SelectionSet
}

type Variable struct {
	Name string
	Type *ast.Type
}

// Fragment is a named fragment definition with its type condition resolved.
type Fragment struct {
	Name          string
	Source        string
	TypeCondition *ast.Definition
	SelectionSet  *SelectionSet
}

// SelectionSet carries the concrete object types the enclosing position can
// resolve to at runtime, alongside the selections requested there.
type SelectionSet struct {
	ParentType    *ast.Definition
	PossibleTypes []*ast.Definition
	Selections    []Selection
}

type Selection interface {
	isSelection()
}

var _ Selection = (*Field)(nil)
var _ Selection = (*TypeCondition)(nil)
var _ Selection = (*BooleanCondition)(nil)
var _ Selection = (*FragmentSpread)(nil)

type Field struct {
	Alias             string
	Name              string
	Type              *ast.Type
	Arguments         ast.ArgumentList
	IsConditional     bool
	Description       string
	IsDeprecated      bool
	DeprecationReason string
	SelectionSet      *SelectionSet // nil for leaf fields
}

func (f *Field) isSelection() {}

func (f *Field) ResponseKey() string {
	if f.Alias != "" {
		return f.Alias
	}

	return f.Name
}

// TypeCondition is an inline `... on T` selection. Its selection set's
// possible types are already intersected with the enclosing set's.
type TypeCondition struct {
	Type         *ast.Definition
	SelectionSet *SelectionSet
}

func (tc *TypeCondition) isSelection() {}

// BooleanCondition is a selection guarded by @include or @skip with a
// variable argument. Inverted is true for @skip.
type BooleanCondition struct {
	VariableName string
	Inverted     bool
	SelectionSet *SelectionSet
}

func (bc *BooleanCondition) isSelection() {}

// FragmentSpread references a named fragment. SelectionSet is the fragment's
// own selection set narrowed to the types possible at the spread position.
type FragmentSpread struct {
	FragmentName string
	SelectionSet *SelectionSet
}

func (fs *FragmentSpread) isSelection() {}

func ContainsType(defs []*ast.Definition, elem *ast.Definition) bool {
	for _, def := range defs {
		if def == elem {
			return true
		}
	}

	return false
}

// IsSupersetOf reports whether every type in target is contained in
// possibleTypes.
func IsSupersetOf(possibleTypes, target []*ast.Definition) bool {
	for _, typ := range target {
		if !ContainsType(possibleTypes, typ) {
			return false
		}
	}

	return true
}

func SameTypeSet(a, b []*ast.Definition) bool {
	return IsSupersetOf(a, b) && IsSupersetOf(b, a)
}

// IntersectTypes keeps the elements of a that also appear in b, preserving
// a's order.
func IntersectTypes(a, b []*ast.Definition) []*ast.Definition {
	result := make([]*ast.Definition, 0, len(a))
	for _, typ := range a {
		if ContainsType(b, typ) {
			result = append(result, typ)
		}
	}

	return result
}

package legacyir

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// Result maps every operation and fragment of a compiled document to its
// flattened form. It is built once per compilation run and not mutated
// afterwards.
type Result struct {
	Operations map[string]*CompiledOperation
	Fragments  map[string]*CompiledFragment
	TypesUsed  []*ast.Definition
	Options    Options
}

type CompiledOperation struct {
	OperationName string
	OperationType ast.Operation
	RootType      *ast.Definition
	Variables     []*Variable
	Source        string

	Fields          []*Field
	FragmentSpreads []string
	InlineFragments []*CompiledInlineFragment

	// FragmentsReferenced is the transitive closure of fragment names
	// reachable from the operation, in discovery order.
	FragmentsReferenced []string
	// SourceWithFragments is the operation source followed by the source of
	// every referenced fragment, joined by newlines. OperationID is derived
	// from exactly this text.
	SourceWithFragments string
	OperationID         string
}

type CompiledFragment struct {
	FragmentName  string
	Source        string
	TypeCondition *ast.Definition
	PossibleTypes []*ast.Definition

	Fields          []*Field
	FragmentSpreads []string
	InlineFragments []*CompiledInlineFragment
}

// CompiledInlineFragment restricts a group of fields to a single concrete
// runtime type. PossibleTypes always holds exactly the type condition.
type CompiledInlineFragment struct {
	TypeCondition   *ast.Definition
	PossibleTypes   []*ast.Definition
	Fields          []*Field
	FragmentSpreads []string
}

type Field struct {
	ResponseKey       string
	FieldName         string
	Type              *ast.Type
	Args              []*Argument
	IsConditional     bool
	Description       string
	IsDeprecated      bool
	DeprecationReason string

	// Populated only for fields with a nested selection set.
	Fields          []*Field
	FragmentSpreads []string
	InlineFragments []*CompiledInlineFragment
}

type Argument struct {
	Name  string
	Value *ast.Value
}

type Variable struct {
	Name string
	Type *ast.Type
}

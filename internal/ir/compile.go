package ir

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

var typeNameMetaFieldDef = &ast.FieldDefinition{
	Name: "__typename",
	Type: ast.NonNullNamedType("String", nil),
}

// Compiler resolves a query document against a schema and produces the typed
// IR consumed by the lowering step. It holds no mutable state besides the
// fragment memo, so a single instance can compile every definition of one
// document.
type Compiler struct {
	schema   *ast.Schema
	document *ast.QueryDocument

	fragments map[string]*Fragment
	building  map[string]bool
}

func NewCompiler(schema *ast.Schema, document *ast.QueryDocument) *Compiler {
	return &Compiler{
		schema:    schema,
		document:  document,
		fragments: make(map[string]*Fragment),
		building:  make(map[string]bool),
	}
}

func (c *Compiler) Operation(def *ast.OperationDefinition) (*Operation, error) {
	rootType, err := c.operationRootType(def)
	if err != nil {
		return nil, err
	}

	variables := make([]*Variable, 0, len(def.VariableDefinitions))
	for _, varDef := range def.VariableDefinitions {
		variables = append(variables, &Variable{
			Name: varDef.Variable,
			Type: varDef.Type,
		})
	}

	selectionSet, err := c.compileSelectionSet(rootType, c.possibleTypes(rootType), def.SelectionSet)
	if err != nil {
		return nil, err
	}

	return &Operation{
		Name:         def.Name,
		Operation:    def.Operation,
		RootType:     rootType,
		Variables:    variables,
		Source:       renderOperationSource(def),
		SelectionSet: selectionSet,
	}, nil
}

// Fragment compiles the named fragment definition, memoizing the result so
// repeated spreads share one compiled form.
func (c *Compiler) Fragment(name string) (*Fragment, error) {
	if fragment, ok := c.fragments[name]; ok {
		return fragment, nil
	}

	def := c.document.Fragments.ForName(name)
	if def == nil {
		return nil, gqlerror.Errorf(`cannot find fragment "%s"`, name)
	}

	if c.building[name] {
		return nil, errorPosf(def.Position, `cyclic reference in fragment "%s"`, name)
	}
	c.building[name] = true
	defer delete(c.building, name)

	typeCondition := c.schema.Types[def.TypeCondition]
	if typeCondition == nil {
		return nil, errorPosf(def.Position, `fragment "%s" has unknown type condition "%s"`, name, def.TypeCondition)
	}

	selectionSet, err := c.compileSelectionSet(typeCondition, c.possibleTypes(typeCondition), def.SelectionSet)
	if err != nil {
		return nil, err
	}

	fragment := &Fragment{
		Name:          name,
		Source:        renderFragmentSource(def),
		TypeCondition: typeCondition,
		SelectionSet:  selectionSet,
	}
	c.fragments[name] = fragment

	return fragment, nil
}

// Fragments returns every fragment compiled so far, keyed by name.
func (c *Compiler) Fragments() map[string]*Fragment {
	return c.fragments
}

func (c *Compiler) compileSelectionSet(parentType *ast.Definition, possibleTypes []*ast.Definition, selectionSet ast.SelectionSet) (*SelectionSet, error) {
	result := &SelectionSet{
		ParentType:    parentType,
		PossibleTypes: possibleTypes,
	}

	for _, selection := range selectionSet {
		switch selection := selection.(type) {
		case *ast.Field:
			compiled, err := c.compileField(parentType, selection)
			if err != nil {
				return nil, err
			}
			wrapped, keep := wrapInBooleanConditions(compiled, parentType, possibleTypes, selection.Directives)
			if keep {
				result.Selections = append(result.Selections, wrapped)
			}

		case *ast.InlineFragment:
			condition := parentType
			if selection.TypeCondition != "" {
				condition = c.schema.Types[selection.TypeCondition]
				if condition == nil {
					return nil, errorPosf(selection.Position, `inline fragment has unknown type condition "%s"`, selection.TypeCondition)
				}
			}

			narrowed := IntersectTypes(c.possibleTypes(condition), possibleTypes)
			inner, err := c.compileSelectionSet(condition, narrowed, selection.SelectionSet)
			if err != nil {
				return nil, err
			}

			var compiled Selection = &TypeCondition{
				Type:         condition,
				SelectionSet: inner,
			}
			wrapped, keep := wrapInBooleanConditions(compiled, parentType, possibleTypes, selection.Directives)
			if keep {
				result.Selections = append(result.Selections, wrapped)
			}

		case *ast.FragmentSpread:
			fragment, err := c.Fragment(selection.Name)
			if err != nil {
				return nil, err
			}

			narrowed := IntersectTypes(fragment.SelectionSet.PossibleTypes, possibleTypes)
			var compiled Selection = &FragmentSpread{
				FragmentName: fragment.Name,
				SelectionSet: &SelectionSet{
					ParentType:    fragment.TypeCondition,
					PossibleTypes: narrowed,
					Selections:    fragment.SelectionSet.Selections,
				},
			}
			wrapped, keep := wrapInBooleanConditions(compiled, parentType, possibleTypes, selection.Directives)
			if keep {
				result.Selections = append(result.Selections, wrapped)
			}

		default:
			return nil, fmt.Errorf("unexpected selection type: %T", selection)
		}
	}

	return result, nil
}

func (c *Compiler) compileField(parentType *ast.Definition, field *ast.Field) (*Field, error) {
	fieldDef := typeNameMetaFieldDef
	if field.Name != typeNameMetaFieldDef.Name {
		fieldDef = parentType.Fields.ForName(field.Name)
		if fieldDef == nil {
			return nil, errorPosf(field.Position, "cannot query field '%s' on type '%s'", field.Name, parentType.Name)
		}
	}

	compiled := &Field{
		Alias:         field.Alias,
		Name:          field.Name,
		Type:          fieldDef.Type,
		Arguments:     field.Arguments,
		IsConditional: isConditional(field.Directives),
		Description:   fieldDef.Description,
	}

	if deprecated := fieldDef.Directives.ForName("deprecated"); deprecated != nil {
		compiled.IsDeprecated = true
		if reason := deprecated.Arguments.ForName("reason"); reason != nil {
			compiled.DeprecationReason = reason.Value.Raw
		}
	}

	if len(field.SelectionSet) != 0 {
		returnType := c.schema.Types[fieldDef.Type.Name()]
		if returnType == nil || !isCompositeType(returnType) {
			return nil, errorPosf(field.Position, "field '%s' of type '%s' must not have a selection set", field.Name, fieldDef.Type.String())
		}

		selectionSet, err := c.compileSelectionSet(returnType, c.possibleTypes(returnType), field.SelectionSet)
		if err != nil {
			return nil, err
		}
		compiled.SelectionSet = selectionSet
	}

	return compiled, nil
}

func (c *Compiler) operationRootType(def *ast.OperationDefinition) (*ast.Definition, error) {
	var rootType *ast.Definition
	switch def.Operation {
	case ast.Query:
		rootType = c.schema.Query
	case ast.Mutation:
		rootType = c.schema.Mutation
	case ast.Subscription:
		rootType = c.schema.Subscription
	default:
		return nil, fmt.Errorf("unexpected operation: %s", def.Operation)
	}

	if rootType == nil {
		return nil, errorPosf(def.Position, "schema does not support %s operations", def.Operation)
	}

	return rootType, nil
}

func (c *Compiler) possibleTypes(def *ast.Definition) []*ast.Definition {
	if def.IsAbstractType() {
		return c.schema.GetPossibleTypes(def)
	}

	return []*ast.Definition{def}
}

func isCompositeType(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Object, ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

// errorPosf is gqlerror.ErrorPosf tolerating selections and definitions
// without source positions, as hand-built documents produce.
func errorPosf(pos *ast.Position, format string, args ...interface{}) *gqlerror.Error {
	if pos == nil || pos.Src == nil {
		return gqlerror.Errorf(format, args...)
	}

	return gqlerror.ErrorPosf(pos, format, args...)
}

func isConditional(directives ast.DirectiveList) bool {
	return directives.ForName("include") != nil || directives.ForName("skip") != nil
}

// wrapInBooleanConditions nests selection inside one BooleanCondition per
// variable-valued @include/@skip directive. Constant-valued directives are
// resolved in place; keep is false when a constant excludes the selection
// entirely.
func wrapInBooleanConditions(selection Selection, parentType *ast.Definition, possibleTypes []*ast.Definition, directives ast.DirectiveList) (Selection, bool) {
	for i := len(directives) - 1; i >= 0; i-- {
		directive := directives[i]
		if directive.Name != "include" && directive.Name != "skip" {
			continue
		}
		inverted := directive.Name == "skip"

		condition := directive.Arguments.ForName("if")
		if condition == nil {
			continue
		}

		switch condition.Value.Kind {
		case ast.Variable:
			selection = &BooleanCondition{
				VariableName: condition.Value.Raw,
				Inverted:     inverted,
				SelectionSet: &SelectionSet{
					ParentType:    parentType,
					PossibleTypes: possibleTypes,
					Selections:    []Selection{selection},
				},
			}
		case ast.BooleanValue:
			include := condition.Value.Raw == "true"
			if include == inverted {
				return nil, false
			}
		}
	}

	return selection, true
}

func renderOperationSource(def *ast.OperationDefinition) string {
	return renderSource(&ast.QueryDocument{
		Operations: ast.OperationList{def},
	})
}

func renderFragmentSource(def *ast.FragmentDefinition) string {
	return renderSource(&ast.QueryDocument{
		Fragments: ast.FragmentDefinitionList{def},
	})
}

// renderSource formats the definition with the gqlparser formatter, giving
// every definition a canonical text independent of source whitespace.
func renderSource(doc *ast.QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)

	return strings.TrimRight(buf.String(), "\n")
}

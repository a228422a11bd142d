// Package legacyir lowers GraphQL operations and fragments into the
// flattened "legacy" intermediate representation consumed by client code
// generators: per level, the fields that apply to every possible runtime
// type, the fragment spreads visible there, and one inline fragment per
// concrete type a narrower type condition expands to. Each operation also
// gets a deterministic content identifier over its source plus the sources
// of every transitively referenced fragment, used for persisted-query
// matching.
package legacyir

import (
	"context"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/gqlforge/legacyir/internal/ir"
	"github.com/gqlforge/legacyir/internal/log"
)

// Compile lowers every operation and fragment of document against schema.
// The document is expected to be validated (gqlparser.LoadQuery); feeding an
// unvalidated document yields errors for unknown fields, types and
// fragments. Compile reads schema and document only, so callers may compile
// multiple documents against one schema concurrently.
func Compile(ctx context.Context, schema *ast.Schema, document *ast.QueryDocument, opts ...Option) (*Result, error) {
	logger := log.FromContext(ctx)

	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	compiler := ir.NewCompiler(schema, document)
	lower := &lowerer{opts: options}

	result := &Result{
		Operations: make(map[string]*CompiledOperation, len(document.Operations)),
		Fragments:  make(map[string]*CompiledFragment, len(document.Fragments)),
		Options:    options,
	}

	for _, def := range document.Fragments {
		fragment, err := compiler.Fragment(def.Name)
		if err != nil {
			return nil, err
		}

		compiled, err := lowerFragment(lower, fragment)
		if err != nil {
			return nil, err
		}
		result.Fragments[fragment.Name] = compiled
	}

	operations := make([]*ir.Operation, 0, len(document.Operations))
	for _, def := range document.Operations {
		operation, err := compiler.Operation(def)
		if err != nil {
			return nil, err
		}
		operations = append(operations, operation)

		compiled, err := lowerOperation(lower, compiler, operation, options)
		if err != nil {
			return nil, err
		}
		result.Operations[operation.Name] = compiled

		logger.V(1).Info(
			"lowered operation",
			"operation", operation.Name,
			"fields", len(compiled.Fields),
			"inlineFragments", len(compiled.InlineFragments),
			"fragmentsReferenced", len(compiled.FragmentsReferenced),
		)
	}

	result.TypesUsed = compiler.TypesUsed(operations)

	logger.Info(
		"compiled document",
		"operations", len(result.Operations),
		"fragments", len(result.Fragments),
		"typesUsed", len(result.TypesUsed),
	)

	return result, nil
}

func lowerOperation(lower *lowerer, compiler *ir.Compiler, operation *ir.Operation, options Options) (*CompiledOperation, error) {
	fragmentsReferenced, err := ir.CollectFragmentsReferenced(operation.SelectionSet, compiler.Fragments())
	if err != nil {
		return nil, gqlerror.Errorf("operation %q: %s", operation.Name, err.Error())
	}

	sources := make([]string, 0, 1+len(fragmentsReferenced))
	sources = append(sources, operation.Source)
	for _, name := range fragmentsReferenced {
		fragment := compiler.Fragments()[name]
		if fragment == nil {
			return nil, gqlerror.Errorf(`operation %q references undefined fragment %q`, operation.Name, name)
		}
		sources = append(sources, fragment.Source)
	}
	sourceWithFragments := strings.Join(sources, "\n")

	var operationID string
	if options.GenerateOperationIDs {
		operationID = OperationID(sourceWithFragments)
	}

	fields, fragmentSpreads, inlineFragments, err := lower.lowerSelectionSet(operation.SelectionSet)
	if err != nil {
		return nil, err
	}

	variables := make([]*Variable, 0, len(operation.Variables))
	for _, variable := range operation.Variables {
		variables = append(variables, &Variable{
			Name: variable.Name,
			Type: variable.Type,
		})
	}

	return &CompiledOperation{
		OperationName:       operation.Name,
		OperationType:       operation.Operation,
		RootType:            operation.RootType,
		Variables:           variables,
		Source:              operation.Source,
		Fields:              fields,
		FragmentSpreads:     fragmentSpreads,
		InlineFragments:     inlineFragments,
		FragmentsReferenced: fragmentsReferenced,
		SourceWithFragments: sourceWithFragments,
		OperationID:         operationID,
	}, nil
}

func lowerFragment(lower *lowerer, fragment *ir.Fragment) (*CompiledFragment, error) {
	fields, fragmentSpreads, inlineFragments, err := lower.lowerSelectionSet(fragment.SelectionSet)
	if err != nil {
		return nil, err
	}

	return &CompiledFragment{
		FragmentName:    fragment.Name,
		Source:          fragment.Source,
		TypeCondition:   fragment.TypeCondition,
		PossibleTypes:   fragment.SelectionSet.PossibleTypes,
		Fields:          fields,
		FragmentSpreads: fragmentSpreads,
		InlineFragments: inlineFragments,
	}, nil
}

package legacyir

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlforge/legacyir/internal/ir"
	"github.com/gqlforge/legacyir/internal/typecase"
)

// maxSelectionDepth bounds the mutual recursion between selection-set and
// field lowering. Documents this deep do not occur in practice; hitting the
// cap almost certainly means the upstream fragment closure let a cycle
// through.
const maxSelectionDepth = 500

type lowerer struct {
	opts  Options
	depth int
}

// lowerSelectionSet flattens one selection set: the fields applying to every
// possible runtime type, the fragment spreads visible at this level, and one
// inline fragment per concrete type a narrower variant expands to.
func (l *lowerer) lowerSelectionSet(selectionSet *ir.SelectionSet) (fields []*Field, fragmentSpreads []string, inlineFragments []*CompiledInlineFragment, err error) {
	l.depth++
	defer func() { l.depth-- }()
	if l.depth > maxSelectionDepth {
		return nil, nil, nil, fmt.Errorf("selection sets nested deeper than %d levels; check for cyclic fragment spreads", maxSelectionDepth)
	}

	partitioned := selectionSet
	if l.opts.MergeInFieldsFromFragmentSpreads {
		partitioned = ir.MergeInFragmentSpreads(selectionSet)
	}
	tc := typecase.ForSelectionSet(partitioned)

	fields, err = l.lowerFields(tc.Default().Fields)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, variant := range tc.Variants() {
		if ir.SameTypeSet(ir.IntersectTypes(variant.PossibleTypes, selectionSet.PossibleTypes), selectionSet.PossibleTypes) {
			// No added selectivity over the enclosing set.
			continue
		}

		variantSpreads, err := collectFragmentSpreads(selectionSet, variant.PossibleTypes)
		if err != nil {
			return nil, nil, nil, err
		}
		if variant.FieldCount() == 0 && len(variantSpreads) == 0 {
			continue
		}

		variantFields, err := l.lowerFields(variant.Fields)
		if err != nil {
			return nil, nil, nil, err
		}

		for _, typ := range variant.PossibleTypes {
			inlineFragments = append(inlineFragments, &CompiledInlineFragment{
				TypeCondition:   typ,
				PossibleTypes:   []*ast.Definition{typ},
				Fields:          variantFields,
				FragmentSpreads: variantSpreads,
			})
		}
	}

	fragmentSpreads, err = collectFragmentSpreads(selectionSet, selectionSet.PossibleTypes)
	if err != nil {
		return nil, nil, nil, err
	}

	return fields, fragmentSpreads, inlineFragments, nil
}

func (l *lowerer) lowerFields(fields []*ir.Field) ([]*Field, error) {
	result := make([]*Field, 0, len(fields))
	for _, field := range fields {
		lowered, err := l.lowerField(field)
		if err != nil {
			return nil, err
		}
		result = append(result, lowered)
	}

	return result, nil
}

func (l *lowerer) lowerField(field *ir.Field) (*Field, error) {
	args := make([]*Argument, 0, len(field.Arguments))
	for _, arg := range field.Arguments {
		args = append(args, &Argument{
			Name:  arg.Name,
			Value: arg.Value,
		})
	}

	lowered := &Field{
		ResponseKey:       field.ResponseKey(),
		FieldName:         field.Name,
		Type:              field.Type,
		Args:              args,
		IsConditional:     field.IsConditional,
		Description:       field.Description,
		IsDeprecated:      field.IsDeprecated,
		DeprecationReason: field.DeprecationReason,
	}

	if field.SelectionSet != nil {
		fields, fragmentSpreads, inlineFragments, err := l.lowerSelectionSet(field.SelectionSet)
		if err != nil {
			return nil, err
		}
		lowered.Fields = fields
		lowered.FragmentSpreads = fragmentSpreads
		lowered.InlineFragments = inlineFragments
	}

	return lowered, nil
}

// collectFragmentSpreads walks the direct selections of selectionSet and
// returns the fragment spreads visible when the runtime type is restricted
// to possibleTypes, in source order. A type condition is entered only when
// it matches every type of the restriction; spreads under a narrower
// condition belong to that condition's own inline fragment instead. Boolean
// directive conditions never affect type applicability, so they are always
// entered.
func collectFragmentSpreads(selectionSet *ir.SelectionSet, possibleTypes []*ast.Definition) ([]string, error) {
	var spreads []string
	for _, selection := range selectionSet.Selections {
		switch selection := selection.(type) {
		case *ir.Field:
			// Nested selection sets are classified at their own level.

		case *ir.FragmentSpread:
			spreads = append(spreads, selection.FragmentName)

		case *ir.TypeCondition:
			if !ir.IsSupersetOf(selection.SelectionSet.PossibleTypes, possibleTypes) {
				continue
			}
			nested, err := collectFragmentSpreads(selection.SelectionSet, possibleTypes)
			if err != nil {
				return nil, err
			}
			spreads = append(spreads, nested...)

		case *ir.BooleanCondition:
			nested, err := collectFragmentSpreads(selection.SelectionSet, possibleTypes)
			if err != nil {
				return nil, err
			}
			spreads = append(spreads, nested...)

		default:
			return nil, fmt.Errorf("unexpected selection type: %T", selection)
		}
	}

	return spreads, nil
}

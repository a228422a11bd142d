// Package typecase partitions a selection set's fields by the runtime types
// they apply to: one default variant for fields selected on every possible
// type, plus one variant per narrower possible-type subset introduced by
// type conditions.
package typecase

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlforge/legacyir/internal/ir"
)

type Variant struct {
	PossibleTypes []*ast.Definition
	Fields        []*ir.Field
}

func (v *Variant) FieldCount() int {
	return len(v.Fields)
}

type TypeCase struct {
	defaultVariant *Variant
	variants       []*Variant
	variantsByKey  map[string]*Variant
}

// ForSelectionSet partitions selectionSet. Named fragment spreads contribute
// no fields here; callers that want spread fields folded in apply
// ir.MergeInFragmentSpreads before partitioning.
func ForSelectionSet(selectionSet *ir.SelectionSet) *TypeCase {
	tc := &TypeCase{
		defaultVariant: &Variant{
			PossibleTypes: selectionSet.PossibleTypes,
		},
		variantsByKey: make(map[string]*Variant),
	}
	tc.visit(selectionSet.Selections, selectionSet.PossibleTypes, false)

	return tc
}

// Default returns the variant holding fields that apply to every possible
// type of the partitioned selection set.
func (tc *TypeCase) Default() *Variant {
	return tc.defaultVariant
}

// Variants returns the narrower variants in discovery order.
func (tc *TypeCase) Variants() []*Variant {
	return tc.variants
}

func (tc *TypeCase) visit(selections []ir.Selection, possibleTypes []*ast.Definition, conditional bool) {
	if len(possibleTypes) == 0 {
		return
	}

	for _, selection := range selections {
		switch selection := selection.(type) {
		case *ir.Field:
			tc.addField(selection, possibleTypes, conditional)

		case *ir.TypeCondition:
			narrowed := ir.IntersectTypes(possibleTypes, selection.SelectionSet.PossibleTypes)
			tc.visit(selection.SelectionSet.Selections, narrowed, conditional)

		case *ir.BooleanCondition:
			tc.visit(selection.SelectionSet.Selections, possibleTypes, true)

		case *ir.FragmentSpread:
			// Spread fields reach the partition only via
			// ir.MergeInFragmentSpreads, but a spread that narrows the
			// runtime type still opens a variant so the spread reference
			// survives at the right nesting level.
			narrowed := ir.IntersectTypes(possibleTypes, selection.SelectionSet.PossibleTypes)
			if len(narrowed) == 0 || ir.SameTypeSet(narrowed, tc.defaultVariant.PossibleTypes) {
				continue
			}
			tc.variantFor(narrowed)
		}
	}
}

func (tc *TypeCase) addField(field *ir.Field, possibleTypes []*ast.Definition, conditional bool) {
	if conditional && !field.IsConditional {
		copied := *field
		copied.IsConditional = true
		field = &copied
	}

	if ir.SameTypeSet(possibleTypes, tc.defaultVariant.PossibleTypes) {
		tc.defaultVariant.Fields = append(tc.defaultVariant.Fields, field)
		return
	}

	variant := tc.variantFor(possibleTypes)
	variant.Fields = append(variant.Fields, field)
}

func (tc *TypeCase) variantFor(possibleTypes []*ast.Definition) *Variant {
	key := typeSetKey(possibleTypes)
	variant := tc.variantsByKey[key]
	if variant == nil {
		variant = &Variant{
			PossibleTypes: possibleTypes,
		}
		tc.variantsByKey[key] = variant
		tc.variants = append(tc.variants, variant)
	}

	return variant
}

func typeSetKey(possibleTypes []*ast.Definition) string {
	names := make([]string, 0, len(possibleTypes))
	for _, typ := range possibleTypes {
		names = append(names, typ.Name)
	}

	return strings.Join(names, "|")
}

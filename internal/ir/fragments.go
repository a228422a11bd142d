package ir

import (
	"fmt"
)

// CollectFragmentsReferenced returns the names of every fragment transitively
// reachable from selectionSet, in discovery order. A name already collected
// is not re-entered, so the walk terminates even on cyclic fragment graphs.
func CollectFragmentsReferenced(selectionSet *SelectionSet, fragments map[string]*Fragment) ([]string, error) {
	collected := make([]string, 0)
	seen := make(map[string]bool)

	var visit func(selectionSet *SelectionSet) error
	visit = func(selectionSet *SelectionSet) error {
		for _, selection := range selectionSet.Selections {
			switch selection := selection.(type) {
			case *Field:
				if selection.SelectionSet != nil {
					if err := visit(selection.SelectionSet); err != nil {
						return err
					}
				}

			case *TypeCondition:
				if err := visit(selection.SelectionSet); err != nil {
					return err
				}

			case *BooleanCondition:
				if err := visit(selection.SelectionSet); err != nil {
					return err
				}

			case *FragmentSpread:
				if seen[selection.FragmentName] {
					continue
				}
				seen[selection.FragmentName] = true
				collected = append(collected, selection.FragmentName)

				fragment := fragments[selection.FragmentName]
				if fragment == nil {
					return fmt.Errorf("cannot find fragment %q", selection.FragmentName)
				}
				if err := visit(fragment.SelectionSet); err != nil {
					return err
				}

			default:
				return fmt.Errorf("unexpected selection type: %T", selection)
			}
		}

		return nil
	}

	if err := visit(selectionSet); err != nil {
		return nil, err
	}

	return collected, nil
}

// MergeInFragmentSpreads returns an equivalent selection set in which every
// fragment spread is replaced by a type condition carrying the fragment's
// selections. Only the structural selections of this level are rewritten;
// nested field selection sets are left alone, since they are merged when
// their own level is lowered.
func MergeInFragmentSpreads(selectionSet *SelectionSet) *SelectionSet {
	result := &SelectionSet{
		ParentType:    selectionSet.ParentType,
		PossibleTypes: selectionSet.PossibleTypes,
		Selections:    make([]Selection, 0, len(selectionSet.Selections)),
	}

	for _, selection := range selectionSet.Selections {
		switch selection := selection.(type) {
		case *TypeCondition:
			result.Selections = append(result.Selections, &TypeCondition{
				Type:         selection.Type,
				SelectionSet: MergeInFragmentSpreads(selection.SelectionSet),
			})

		case *BooleanCondition:
			result.Selections = append(result.Selections, &BooleanCondition{
				VariableName: selection.VariableName,
				Inverted:     selection.Inverted,
				SelectionSet: MergeInFragmentSpreads(selection.SelectionSet),
			})

		case *FragmentSpread:
			result.Selections = append(result.Selections, &TypeCondition{
				Type:         selection.SelectionSet.ParentType,
				SelectionSet: MergeInFragmentSpreads(selection.SelectionSet),
			})

		default:
			result.Selections = append(result.Selections, selection)
		}
	}

	return result
}

package legacyir

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
	"github.com/vektah/gqlparser/v2/ast"
)

var _ json.Marshaler = (*Result)(nil)
var _ yaml.InterfaceMarshaler = (*Result)(nil)

// marshalObject flattens the result into plain maps and slices so both YAML
// and JSON render type references as names instead of whole schema
// definitions.
func (r *Result) marshalObject() (interface{}, error) {
	type argumentYAML struct {
		Name  string `json:"name" yaml:"name"`
		Value string `json:"value" yaml:"value"`
	}
	type variableYAML struct {
		Name string `json:"name" yaml:"name"`
		Type string `json:"type" yaml:"type"`
	}
	type fieldYAML struct {
		ResponseKey       string      `json:"responseKey" yaml:"responseKey"`
		FieldName         string      `json:"fieldName" yaml:"fieldName"`
		Type              string      `json:"type" yaml:"type"`
		Args              interface{} `json:"args,omitempty" yaml:"args,omitempty"`
		IsConditional     bool        `json:"isConditional,omitempty" yaml:"isConditional,omitempty"`
		Description       string      `json:"description,omitempty" yaml:"description,omitempty"`
		IsDeprecated      bool        `json:"isDeprecated,omitempty" yaml:"isDeprecated,omitempty"`
		DeprecationReason string      `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
		Fields            interface{} `json:"fields,omitempty" yaml:"fields,omitempty"`
		FragmentSpreads   []string    `json:"fragmentSpreads,omitempty" yaml:"fragmentSpreads,omitempty"`
		InlineFragments   interface{} `json:"inlineFragments,omitempty" yaml:"inlineFragments,omitempty"`
	}
	type inlineFragmentYAML struct {
		TypeCondition   string      `json:"typeCondition" yaml:"typeCondition"`
		PossibleTypes   []string    `json:"possibleTypes" yaml:"possibleTypes"`
		Fields          interface{} `json:"fields,omitempty" yaml:"fields,omitempty"`
		FragmentSpreads []string    `json:"fragmentSpreads,omitempty" yaml:"fragmentSpreads,omitempty"`
	}
	type operationYAML struct {
		OperationName       string          `json:"operationName" yaml:"operationName"`
		OperationType       string          `json:"operationType" yaml:"operationType"`
		RootType            string          `json:"rootType" yaml:"rootType"`
		Variables           []*variableYAML `json:"variables,omitempty" yaml:"variables,omitempty"`
		Source              string          `json:"source" yaml:"source"`
		Fields              interface{}     `json:"fields,omitempty" yaml:"fields,omitempty"`
		FragmentSpreads     []string        `json:"fragmentSpreads,omitempty" yaml:"fragmentSpreads,omitempty"`
		InlineFragments     interface{}     `json:"inlineFragments,omitempty" yaml:"inlineFragments,omitempty"`
		FragmentsReferenced []string        `json:"fragmentsReferenced,omitempty" yaml:"fragmentsReferenced,omitempty"`
		SourceWithFragments string          `json:"sourceWithFragments" yaml:"sourceWithFragments"`
		OperationID         string          `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	}
	type fragmentYAML struct {
		FragmentName    string      `json:"fragmentName" yaml:"fragmentName"`
		Source          string      `json:"source" yaml:"source"`
		TypeCondition   string      `json:"typeCondition" yaml:"typeCondition"`
		PossibleTypes   []string    `json:"possibleTypes" yaml:"possibleTypes"`
		Fields          interface{} `json:"fields,omitempty" yaml:"fields,omitempty"`
		FragmentSpreads []string    `json:"fragmentSpreads,omitempty" yaml:"fragmentSpreads,omitempty"`
		InlineFragments interface{} `json:"inlineFragments,omitempty" yaml:"inlineFragments,omitempty"`
	}
	type resultYAML struct {
		Operations map[string]*operationYAML `json:"operations" yaml:"operations"`
		Fragments  map[string]*fragmentYAML  `json:"fragments" yaml:"fragments"`
		TypesUsed  []string                  `json:"typesUsed,omitempty" yaml:"typesUsed,omitempty"`
		Options    Options                   `json:"options" yaml:"options"`
	}

	typeNames := func(defs []*ast.Definition) []string {
		names := make([]string, 0, len(defs))
		for _, def := range defs {
			names = append(names, def.Name)
		}
		return names
	}

	var marshalFields func(fields []*Field) []*fieldYAML
	var marshalInlineFragments func(inlineFragments []*CompiledInlineFragment) []*inlineFragmentYAML

	marshalFields = func(fields []*Field) []*fieldYAML {
		if len(fields) == 0 {
			return nil
		}
		result := make([]*fieldYAML, 0, len(fields))
		for _, field := range fields {
			args := make([]*argumentYAML, 0, len(field.Args))
			for _, arg := range field.Args {
				args = append(args, &argumentYAML{
					Name:  arg.Name,
					Value: arg.Value.String(),
				})
			}
			var argsValue interface{}
			if len(args) != 0 {
				argsValue = args
			}
			var nestedFields interface{}
			if nested := marshalFields(field.Fields); nested != nil {
				nestedFields = nested
			}
			var nestedInline interface{}
			if nested := marshalInlineFragments(field.InlineFragments); nested != nil {
				nestedInline = nested
			}
			result = append(result, &fieldYAML{
				ResponseKey:       field.ResponseKey,
				FieldName:         field.FieldName,
				Type:              field.Type.String(),
				Args:              argsValue,
				IsConditional:     field.IsConditional,
				Description:       field.Description,
				IsDeprecated:      field.IsDeprecated,
				DeprecationReason: field.DeprecationReason,
				Fields:            nestedFields,
				FragmentSpreads:   field.FragmentSpreads,
				InlineFragments:   nestedInline,
			})
		}
		return result
	}

	marshalInlineFragments = func(inlineFragments []*CompiledInlineFragment) []*inlineFragmentYAML {
		if len(inlineFragments) == 0 {
			return nil
		}
		result := make([]*inlineFragmentYAML, 0, len(inlineFragments))
		for _, inlineFragment := range inlineFragments {
			var fields interface{}
			if nested := marshalFields(inlineFragment.Fields); nested != nil {
				fields = nested
			}
			result = append(result, &inlineFragmentYAML{
				TypeCondition:   inlineFragment.TypeCondition.Name,
				PossibleTypes:   typeNames(inlineFragment.PossibleTypes),
				Fields:          fields,
				FragmentSpreads: inlineFragment.FragmentSpreads,
			})
		}
		return result
	}

	marshalVariables := func(variables []*Variable) []*variableYAML {
		if len(variables) == 0 {
			return nil
		}
		result := make([]*variableYAML, 0, len(variables))
		for _, variable := range variables {
			result = append(result, &variableYAML{
				Name: variable.Name,
				Type: variable.Type.String(),
			})
		}
		return result
	}

	out := &resultYAML{
		Operations: make(map[string]*operationYAML, len(r.Operations)),
		Fragments:  make(map[string]*fragmentYAML, len(r.Fragments)),
		TypesUsed:  typeNames(r.TypesUsed),
		Options:    r.Options,
	}

	for name, operation := range r.Operations {
		var fields, inline interface{}
		if nested := marshalFields(operation.Fields); nested != nil {
			fields = nested
		}
		if nested := marshalInlineFragments(operation.InlineFragments); nested != nil {
			inline = nested
		}
		out.Operations[name] = &operationYAML{
			OperationName:       operation.OperationName,
			OperationType:       string(operation.OperationType),
			RootType:            operation.RootType.Name,
			Variables:           marshalVariables(operation.Variables),
			Source:              operation.Source,
			Fields:              fields,
			FragmentSpreads:     operation.FragmentSpreads,
			InlineFragments:     inline,
			FragmentsReferenced: operation.FragmentsReferenced,
			SourceWithFragments: operation.SourceWithFragments,
			OperationID:         operation.OperationID,
		}
	}

	for name, fragment := range r.Fragments {
		var fields, inline interface{}
		if nested := marshalFields(fragment.Fields); nested != nil {
			fields = nested
		}
		if nested := marshalInlineFragments(fragment.InlineFragments); nested != nil {
			inline = nested
		}
		out.Fragments[name] = &fragmentYAML{
			FragmentName:    fragment.FragmentName,
			Source:          fragment.Source,
			TypeCondition:   fragment.TypeCondition.Name,
			PossibleTypes:   typeNames(fragment.PossibleTypes),
			Fields:          fields,
			FragmentSpreads: fragment.FragmentSpreads,
			InlineFragments: inline,
		}
	}

	return out, nil
}

func (r *Result) MarshalYAML() (interface{}, error) {
	return r.marshalObject()
}

func (r *Result) MarshalJSON() ([]byte, error) {
	obj, err := r.marshalObject()
	if err != nil {
		return nil, err
	}

	return json.Marshal(obj)
}

package ir

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// TypesUsed collects the named input types referenced by the operations'
// variables, expanded transitively through input object fields. Built-in
// scalars are skipped. Order follows first discovery across the operations.
func (c *Compiler) TypesUsed(operations []*Operation) []*ast.Definition {
	var typesUsed []*ast.Definition
	seen := make(map[string]bool)

	var visit func(typ *ast.Type)
	visit = func(typ *ast.Type) {
		def := c.schema.Types[typ.Name()]
		if def == nil || def.BuiltIn || seen[def.Name] {
			return
		}

		switch def.Kind {
		case ast.Scalar, ast.Enum:
			seen[def.Name] = true
			typesUsed = append(typesUsed, def)

		case ast.InputObject:
			seen[def.Name] = true
			typesUsed = append(typesUsed, def)
			for _, field := range def.Fields {
				visit(field.Type)
			}
		}
	}

	for _, operation := range operations {
		for _, variable := range operation.Variables {
			visit(variable.Type)
		}
	}

	return typesUsed
}

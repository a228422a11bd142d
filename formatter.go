package legacyir

import (
	"io"
	"sort"
	"strings"
)

// Formatter renders compiled output as an indented, line-oriented text form,
// mainly for golden tests and debugging. Operations and fragments are
// rendered in name order; everything inside a record keeps its lowering
// order.
type Formatter interface {
	FormatResult(result *Result)
}

func NewFormatter(w io.Writer) Formatter {
	return &formatter{writer: w}
}

type formatter struct {
	writer io.Writer

	indent int
}

func (f *formatter) writeString(s string) {
	_, _ = f.writer.Write([]byte(s))
}

func (f *formatter) WriteLine(parts ...string) *formatter {
	f.writeString(strings.Repeat("\t", f.indent))
	f.writeString(strings.Join(parts, " "))
	f.writeString("\n")

	return f
}

func (f *formatter) IncrementIndent() {
	f.indent++
}

func (f *formatter) DecrementIndent() {
	f.indent--
}

func (f *formatter) FormatResult(result *Result) {
	operationNames := make([]string, 0, len(result.Operations))
	for name := range result.Operations {
		operationNames = append(operationNames, name)
	}
	sort.Strings(operationNames)

	for _, name := range operationNames {
		f.FormatOperation(result.Operations[name])
	}

	fragmentNames := make([]string, 0, len(result.Fragments))
	for name := range result.Fragments {
		fragmentNames = append(fragmentNames, name)
	}
	sort.Strings(fragmentNames)

	for _, name := range fragmentNames {
		f.FormatFragment(result.Fragments[name])
	}

	if len(result.TypesUsed) != 0 {
		names := make([]string, 0, len(result.TypesUsed))
		for _, typ := range result.TypesUsed {
			names = append(names, typ.Name)
		}
		f.WriteLine("types used:", strings.Join(names, ", "))
	}
}

func (f *formatter) FormatOperation(operation *CompiledOperation) {
	f.WriteLine(string(operation.OperationType), operation.OperationName, "on", operation.RootType.Name)
	f.IncrementIndent()

	for _, variable := range operation.Variables {
		f.WriteLine("$"+variable.Name+":", variable.Type.String())
	}
	f.formatBody(operation.Fields, operation.FragmentSpreads, operation.InlineFragments)
	if len(operation.FragmentsReferenced) != 0 {
		f.WriteLine("fragments referenced:", strings.Join(operation.FragmentsReferenced, ", "))
	}
	if operation.OperationID != "" {
		f.WriteLine("id:", operation.OperationID)
	}

	f.DecrementIndent()
}

func (f *formatter) FormatFragment(fragment *CompiledFragment) {
	possibleTypeNames := make([]string, 0, len(fragment.PossibleTypes))
	for _, typ := range fragment.PossibleTypes {
		possibleTypeNames = append(possibleTypeNames, typ.Name)
	}

	f.WriteLine("fragment", fragment.FragmentName, "on", fragment.TypeCondition.Name,
		"("+strings.Join(possibleTypeNames, ", ")+")")
	f.IncrementIndent()
	f.formatBody(fragment.Fields, fragment.FragmentSpreads, fragment.InlineFragments)
	f.DecrementIndent()
}

func (f *formatter) formatBody(fields []*Field, fragmentSpreads []string, inlineFragments []*CompiledInlineFragment) {
	for _, field := range fields {
		f.FormatField(field)
	}
	if len(fragmentSpreads) != 0 {
		f.WriteLine("fragment spreads:", strings.Join(fragmentSpreads, ", "))
	}
	for _, inlineFragment := range inlineFragments {
		f.WriteLine("inline fragment on", inlineFragment.TypeCondition.Name)
		f.IncrementIndent()
		f.formatBody(inlineFragment.Fields, inlineFragment.FragmentSpreads, nil)
		f.DecrementIndent()
	}
}

func (f *formatter) FormatField(field *Field) {
	parts := []string{"field"}
	if field.ResponseKey != field.FieldName {
		parts = append(parts, field.ResponseKey+":")
	}
	parts = append(parts, field.FieldName)

	if len(field.Args) != 0 {
		args := make([]string, 0, len(field.Args))
		for _, arg := range field.Args {
			args = append(args, arg.Name+": "+arg.Value.String())
		}
		parts = append(parts, "("+strings.Join(args, ", ")+")")
	}

	parts = append(parts, field.Type.String())

	var notes []string
	if field.IsConditional {
		notes = append(notes, "conditional")
	}
	if field.IsDeprecated {
		notes = append(notes, "deprecated")
	}
	if len(notes) != 0 {
		parts = append(parts, "["+strings.Join(notes, ", ")+"]")
	}

	f.WriteLine(parts...)

	if len(field.Fields) != 0 || len(field.FragmentSpreads) != 0 || len(field.InlineFragments) != 0 {
		f.IncrementIndent()
		f.formatBody(field.Fields, field.FragmentSpreads, field.InlineFragments)
		f.DecrementIndent()
	}
}

package legacyir

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlforge/legacyir/internal/log"
	"github.com/gqlforge/legacyir/internal/testutils"
)

// TestCompile_Golden compiles every query under _testdata/compile/assets and
// compares the formatted result against _testdata/compile/expected. Each
// query names its schema and options in leading comments, see
// internal/testutils.
func TestCompile_Golden(t *testing.T) {
	queryFiles, err := filepath.Glob("_testdata/compile/assets/*.graphql")
	if err != nil {
		t.Fatal(err)
	}
	if len(queryFiles) == 0 {
		t.Fatal("no query files found")
	}

	for _, queryFile := range queryFiles {
		queryFile := queryFile
		t.Run(filepath.Base(queryFile), func(t *testing.T) {
			b, err := os.ReadFile(queryFile)
			if err != nil {
				t.Fatal(err)
			}
			querySource := string(b)

			schemaFile := testutils.FindSchemaFileName(t, querySource)
			b, err = os.ReadFile(filepath.Join("_testdata/compile/assets", schemaFile))
			if err != nil {
				t.Fatal(err)
			}

			schema, gErr := gqlparser.LoadSchema(&ast.Source{
				Name:  schemaFile,
				Input: string(b),
			})
			if gErr != nil {
				t.Fatal(gErr)
			}

			document, gErrs := gqlparser.LoadQuery(schema, querySource)
			if gErrs != nil {
				t.Fatal(gErrs)
			}

			opts := []Option{
				WithAddTypename(testutils.FindOptionBool(t, "addTypename", querySource)),
				WithMergeInFieldsFromFragmentSpreads(testutils.FindOptionBool(t, "mergeInFieldsFromFragmentSpreads", querySource)),
				WithGenerateOperationIDs(testutils.FindOptionBool(t, "generateOperationIds", querySource)),
			}
			if namespace := testutils.FindOptionString(t, "namespace", querySource); namespace != "" {
				opts = append(opts, WithNamespace(namespace))
			}

			ctx := log.WithLogger(context.Background(), testr.New(t))
			result, err := Compile(ctx, schema, document, opts...)
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			NewFormatter(&buf).FormatResult(result)

			expectFile := filepath.Join(
				"_testdata/compile/expected",
				filepath.Base(queryFile[:len(queryFile)-len(".graphql")])+".txt",
			)
			testutils.CheckGoldenFile(t, buf.Bytes(), expectFile)
		})
	}
}

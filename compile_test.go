package legacyir

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func TestCompile_OperationID(t *testing.T) {
	query := heredoc.Doc(`
		query PetNames {
			pet {
				name
				...PetFields
			}
		}
		fragment PetFields on Pet {
			name
		}
	`)

	result := compileTestDocument(t, petSchema, query, WithGenerateOperationIDs(true))
	operation := result.Operations["PetNames"]
	require.NotNil(t, operation)

	require.Len(t, operation.OperationID, 64)
	assert.Equal(t, strings.ToLower(operation.OperationID), operation.OperationID)
	assert.Equal(t, OperationID(operation.SourceWithFragments), operation.OperationID)

	// Whitespace outside tokens never reaches the hash: the source is
	// canonicalized before concatenation.
	reformatted := "query PetNames { pet {\n\t\t\tname,   ...PetFields } }\n" +
		"fragment PetFields on Pet { name }"
	again := compileTestDocument(t, petSchema, reformatted, WithGenerateOperationIDs(true))
	assert.Equal(t, operation.OperationID, again.Operations["PetNames"].OperationID)
	assert.Equal(t, operation.SourceWithFragments, again.Operations["PetNames"].SourceWithFragments)

	// A different operation name is different source, and a different id.
	renamed := strings.ReplaceAll(query, "PetNames", "OtherPetNames")
	other := compileTestDocument(t, petSchema, renamed, WithGenerateOperationIDs(true))
	assert.NotEqual(t, operation.OperationID, other.Operations["OtherPetNames"].OperationID)
}

func TestCompile_OperationIDDisabledByDefault(t *testing.T) {
	result := compileTestDocument(t, petSchema, `query PetNames { pet { name } }`)
	assert.Empty(t, result.Operations["PetNames"].OperationID)
	assert.NotEmpty(t, result.Operations["PetNames"].SourceWithFragments)
}

func TestCompile_FragmentClosureOrder(t *testing.T) {
	result := compileTestDocument(t, petSchema, heredoc.Doc(`
		query PetNames {
			pet {
				...Second
				...First
			}
		}
		fragment First on Pet {
			...Third
		}
		fragment Second on Pet {
			name
		}
		fragment Third on Pet {
			name
		}
	`))

	operation := result.Operations["PetNames"]
	assert.Equal(t, []string{"Second", "First", "Third"}, operation.FragmentsReferenced)

	// Operation source first, then each referenced fragment in closure
	// order, newline separated.
	parts := strings.Split(operation.SourceWithFragments, "\nfragment ")
	require.Len(t, parts, 4)
	assert.True(t, strings.HasPrefix(parts[0], "query PetNames"))
	assert.True(t, strings.HasPrefix(parts[1], "Second on Pet"))
	assert.True(t, strings.HasPrefix(parts[2], "First on Pet"))
	assert.True(t, strings.HasPrefix(parts[3], "Third on Pet"))
}

func TestCompile_MissingFragment(t *testing.T) {
	schema, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "schema.graphqls",
		Input: petSchema,
	})
	require.NoError(t, err)

	// Bypass query validation to exercise the compiler's own diagnostic.
	document, pErr := parser.ParseQuery(&ast.Source{
		Name:  "query.graphql",
		Input: `query PetNames { pet { ...Missing } }`,
	})
	require.Nil(t, pErr)

	_, cErr := Compile(context.Background(), schema, document)
	require.Error(t, cErr)
	assert.Contains(t, cErr.Error(), `cannot find fragment "Missing"`)
}

func TestCompile_FieldMetadata(t *testing.T) {
	schema := heredoc.Doc(`
		type Query {
			"The current hero."
			hero(episode: Episode): Character
		}
		enum Episode {
			NEWHOPE
			EMPIRE
		}
		type Character {
			name: String!
			cuteness: Int @deprecated(reason: "Too subjective.")
		}
	`)

	result := compileTestDocument(t, schema, heredoc.Doc(`
		query HeroDetails {
			h: hero(episode: EMPIRE) {
				name
				cuteness
			}
		}
	`))

	operation := result.Operations["HeroDetails"]
	require.Equal(t, []string{"h"}, fieldNames(operation.Fields))

	hero := operation.Fields[0]
	assert.Equal(t, "hero", hero.FieldName)
	assert.Equal(t, "Character", hero.Type.String())
	assert.Equal(t, "The current hero.", hero.Description)
	require.Len(t, hero.Args, 1)
	assert.Equal(t, "episode", hero.Args[0].Name)
	assert.Equal(t, "EMPIRE", hero.Args[0].Value.String())

	cuteness := hero.Fields[1]
	assert.True(t, cuteness.IsDeprecated)
	assert.Equal(t, "Too subjective.", cuteness.DeprecationReason)
	assert.False(t, hero.Fields[0].IsDeprecated)
}

func TestCompile_Variables(t *testing.T) {
	schema := heredoc.Doc(`
		type Query {
			search(term: String!, limit: Int): [String!]
		}
	`)

	result := compileTestDocument(t, schema, heredoc.Doc(`
		query Search($term: String!, $limit: Int) {
			search(term: $term, limit: $limit)
		}
	`))

	operation := result.Operations["Search"]
	require.Len(t, operation.Variables, 2)
	assert.Equal(t, "term", operation.Variables[0].Name)
	assert.Equal(t, "String!", operation.Variables[0].Type.String())
	assert.Equal(t, "limit", operation.Variables[1].Name)
	assert.Equal(t, "Int", operation.Variables[1].Type.String())
	assert.Equal(t, ast.Query, operation.OperationType)
	assert.Equal(t, "Query", operation.RootType.Name)
}

func TestCompile_TypesUsed(t *testing.T) {
	schema := heredoc.Doc(`
		type Query {
			hero(episode: Episode): String
		}
		type Mutation {
			createReview(episode: Episode, review: ReviewInput!): String
		}
		enum Episode {
			NEWHOPE
			EMPIRE
		}
		input ReviewInput {
			stars: Int!
			commentary: String
			favorite: ColorInput
		}
		input ColorInput {
			red: Int!
			green: Int!
			blue: Int!
		}
	`)

	result := compileTestDocument(t, schema, heredoc.Doc(`
		mutation CreateReview($episode: Episode, $review: ReviewInput!) {
			createReview(episode: $episode, review: $review)
		}
	`))

	names := make([]string, 0, len(result.TypesUsed))
	for _, typ := range result.TypesUsed {
		names = append(names, typ.Name)
	}
	assert.Equal(t, []string{"Episode", "ReviewInput", "ColorInput"}, names)
}

func TestCompile_MultipleOperations(t *testing.T) {
	schema := heredoc.Doc(`
		type Query {
			hero(episode: Episode): Character
			villain(rank: RankInput): Character
		}
		enum Episode {
			NEWHOPE
			EMPIRE
		}
		input RankInput {
			level: Int!
		}
		type Character {
			name: String!
		}
	`)

	heroQuery := heredoc.Doc(`
		query HeroName($episode: Episode) {
			hero(episode: $episode) {
				...CharacterName
			}
		}
	`)
	villainQuery := heredoc.Doc(`
		query VillainName($rank: RankInput) {
			villain(rank: $rank) {
				...CharacterName
			}
		}
	`)
	fragment := heredoc.Doc(`
		fragment CharacterName on Character {
			name
		}
	`)

	result := compileTestDocument(t, schema, heroQuery+villainQuery+fragment,
		WithGenerateOperationIDs(true),
	)
	require.Len(t, result.Operations, 2)

	hero := result.Operations["HeroName"]
	villain := result.Operations["VillainName"]
	require.NotNil(t, hero)
	require.NotNil(t, villain)

	assert.Equal(t, []string{"CharacterName"}, hero.FragmentsReferenced)
	assert.Equal(t, []string{"CharacterName"}, villain.FragmentsReferenced)
	assert.NotEqual(t, hero.OperationID, villain.OperationID)

	// A textually identical operation with the same fragment closure gets
	// the same id no matter what else the document contains.
	alone := compileTestDocument(t, schema, heroQuery+fragment,
		WithGenerateOperationIDs(true),
	)
	assert.Equal(t, alone.Operations["HeroName"].SourceWithFragments, hero.SourceWithFragments)
	assert.Equal(t, alone.Operations["HeroName"].OperationID, hero.OperationID)

	// Input types keep first-discovery order across the operations.
	names := make([]string, 0, len(result.TypesUsed))
	for _, typ := range result.TypesUsed {
		names = append(names, typ.Name)
	}
	assert.Equal(t, []string{"Episode", "RankInput"}, names)
}

func TestCompile_Options(t *testing.T) {
	result := compileTestDocument(t, petSchema, `query PetNames { pet { name } }`,
		WithAddTypename(true),
		WithPassthroughCustomScalars(true),
		WithCustomScalarsPrefix("GQL"),
		WithNamespace("PetAPI"),
	)

	assert.True(t, result.Options.AddTypename)
	assert.True(t, result.Options.PassthroughCustomScalars)
	assert.Equal(t, "GQL", result.Options.CustomScalarsPrefix)
	assert.Equal(t, "PetAPI", result.Options.Namespace)
	assert.False(t, result.Options.MergeInFieldsFromFragmentSpreads)
}

func TestCompile_Determinism(t *testing.T) {
	query := heredoc.Doc(`
		query PetDetails {
			pet {
				name
				... on Dog {
					barkVolume
				}
				... on Cat {
					...CatFields
				}
			}
		}
		fragment CatFields on Cat {
			lives
		}
	`)

	format := func(result *Result) string {
		var buf bytes.Buffer
		NewFormatter(&buf).FormatResult(result)
		return buf.String()
	}

	first := compileTestDocument(t, petSchema, query, WithGenerateOperationIDs(true))
	second := compileTestDocument(t, petSchema, query, WithGenerateOperationIDs(true))

	assert.Equal(t, format(first), format(second))
}

package testutils

import (
	"fmt"
	"regexp"
)

// Test assets are .graphql files that carry their configuration in leading
// comments:
//
//	# schema: pets.graphqls
//	# option:mergeInFieldsFromFragmentSpreads: true

func FindSchemaFileName(t TestingT, source string) string {
	t.Helper()

	re := regexp.MustCompile(`(?m)^# schema:\s*([^\s]+)$`)

	ss := re.FindStringSubmatch(source)
	if len(ss) != 2 {
		t.Fatal("schema file directive not found")
	}

	return ss[1]
}

func findOption(t TestingT, optionName, source string) string {
	t.Helper()

	pattern := fmt.Sprintf(`(?m)^# option:%s:\s*([^\s]+)$`, regexp.QuoteMeta(optionName))
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}

	ss := re.FindStringSubmatch(source)
	if len(ss) != 2 {
		return ""
	}

	return ss[1]
}

func FindOptionString(t TestingT, optionName, source string) string {
	t.Helper()

	return findOption(t, optionName, source)
}

func FindOptionBool(t TestingT, optionName, source string) bool {
	t.Helper()

	return findOption(t, optionName, source) == "true"
}

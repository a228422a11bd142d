package legacyir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationID(t *testing.T) {
	// Digest of the UTF-8 bytes, rendered as 64 lowercase hex characters.
	assert.Equal(t,
		"cc38d014b47b5abcb6cf34cea686326f924c672140e5ce0d18cd64b1e7e41487",
		OperationID("query Hello {\n\thello\n}"),
	)
	assert.Equal(t,
		"ae42d7f6c9613133b1e000454e144b4fdfc852114cc2321f7f5528a042b3aaba",
		OperationID("query Hello {\n\thello\n}\nfragment F on Query {\n\thello\n}"),
	)

	// Identical input, identical id.
	assert.Equal(t, OperationID("query {}"), OperationID("query {}"))
	assert.NotEqual(t, OperationID("query {}"), OperationID("query { }"))
}

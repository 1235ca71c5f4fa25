package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExceptionBlock(t *testing.T) {
	script := `try {
	System.log("working");
} catch (err) {
	System.error("failed");
} finally {
	System.log("cleanup");
}`

	block, ok := ExtractExceptionBlock(script)
	require.True(t, ok)

	assert.Contains(t, block.TryBody, `System.log("working");`)
	assert.Equal(t, "err", block.CatchVar)
	assert.Contains(t, block.CatchBody, `System.error("failed");`)
	assert.True(t, block.HasFinally)
	assert.Contains(t, block.FinallyBody, `System.log("cleanup");`)
	assert.Equal(t, len(script), block.End)
}

func TestExtractExceptionBlock_NestedBraces(t *testing.T) {
	// Brace counting, not regular expressions: the nested if must stay
	// inside the try body.
	script := `try {
	if (x > 1) { System.log("big"); }
} catch (e) {
	System.log("caught");
}`

	block, ok := ExtractExceptionBlock(script)
	require.True(t, ok)
	assert.Contains(t, block.TryBody, `if (x > 1) { System.log("big"); }`)
	assert.Contains(t, block.CatchBody, "caught")
}

func TestExtractExceptionBlock_NoTry(t *testing.T) {
	_, ok := ExtractExceptionBlock(`System.log("plain");`)
	assert.False(t, ok)
}

func TestExtractExceptionBlock_TryWithoutCatch(t *testing.T) {
	// A bare try/finally is not a recognized idiom for this engine.
	script := `try {
	System.log("working");
} finally {
	System.log("cleanup");
}`

	_, ok := ExtractExceptionBlock(script)
	assert.False(t, ok)
}

func TestExceptionBlock_Rethrows(t *testing.T) {
	block := &ExceptionBlock{CatchBody: `System.error("bad"); throw err;`}
	assert.True(t, block.Rethrows())

	block = &ExceptionBlock{CatchBody: `System.error("bad");`}
	assert.False(t, block.Rethrows())
}

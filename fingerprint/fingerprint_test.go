package fingerprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_Deterministic(t *testing.T) {
	a := Signature("fetch", []any{"A", 7}, nil)
	b := Signature("fetch", []any{"A", 7}, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, "fetch(A, 7)", a)
}

func TestSignature_DistinctArgs(t *testing.T) {
	assert.NotEqual(t,
		Signature("multiply", []any{2, 3}, nil),
		Signature("multiply", []any{4, 5}, nil),
	)
}

func TestSignature_KwargsSorted(t *testing.T) {
	a := Signature("query", []any{1}, Kwargs{"alpha": true, "beta": "x"})
	b := Signature("query", []any{1}, Kwargs{"beta": "x", "alpha": true})
	assert.Equal(t, a, b)
	assert.Equal(t, "query(1){alpha=true, beta=x}", a)
}

func TestSignature_EmptyKwargsOmitted(t *testing.T) {
	assert.Equal(t, "op()", Signature("op", nil, Kwargs{}))
}

func TestSignature_LongKeyTruncated(t *testing.T) {
	long := strings.Repeat("x", 400)
	key := Signature("op", []any{long}, nil)

	// 149 readable chars + "_" + 40 hex chars of SHA-1.
	require.Len(t, key, truncateLength+1+40)
	assert.True(t, strings.HasPrefix(key, "op("))
	assert.Equal(t, "_", string(key[truncateLength]))

	// Same call, same truncated key.
	assert.Equal(t, key, Signature("op", []any{long}, nil))

	// A different overlong argument with the same prefix must still differ.
	other := Signature("op", []any{long + "y"}, nil)
	assert.NotEqual(t, key, other)
	assert.Equal(t, key[:truncateLength], other[:truncateLength])
}

func TestSignature_ShortKeyVerbatim(t *testing.T) {
	arg := strings.Repeat("a", 170) // "f(" + arg + ")" stays below MaxKeyLength
	assert.Equal(t, "f("+arg+")", Signature("f", []any{arg}, nil))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "fetch", Operation("fetch(A, 7)"))
	assert.Equal(t, "plain", Operation("plain"))
}

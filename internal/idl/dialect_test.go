package idl

import (
	"errors"
	"testing"

	"periscope-sol/internal/idlerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Priority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		dialect Dialect
		spec    string
	}{
		{
			name:    "address and name present is canonical",
			input:   `{"address":"Prog111","name":"foo","version":"1.0.0","metadata":{"name":"foo","version":"1.0.0","spec":"0.1.0"},"instructions":[]}`,
			dialect: DialectCanonical,
			spec:    "0.1.0",
		},
		{
			name:    "name only is legacy",
			input:   legacyMinimal,
			dialect: DialectLegacy,
			spec:    "legacy",
		},
		{
			name:    "non-string address with name falls to legacy",
			input:   `{"address":null,"name":"foo","version":"1.0.0","instructions":[]}`,
			dialect: DialectLegacy,
			spec:    "legacy",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, dialect, err := ParseWithDialect([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, dialect)
			assert.Equal(t, tt.spec, doc.Metadata.Spec)
		})
	}
}

func TestParse_CanonicalFailureIsFatal(t *testing.T) {
	// address 是字符串时，即使旧格式可以解析也不再尝试
	input := `{"address":"Prog111","name":"foo","version":"1.0.0","instructions":[]}`
	_, err := Parse([]byte(input))
	require.Error(t, err)
	assert.True(t, errors.Is(err, idlerr.ErrParseFailed))
	assert.Contains(t, err.Error(), "metadata")
}

func TestParse_LegacyFailureFallsThroughToCanonicalError(t *testing.T) {
	// name 存在但旧格式缺少 version，规范格式也失败：报告规范格式的错误
	_, err := Parse([]byte(`{"name":"foo","instructions":[]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, idlerr.ErrParseFailed))
	assert.Contains(t, err.Error(), "address")
}

func TestParse_NeitherDialectMatches(t *testing.T) {
	// 没有 address 也没有 name：规范格式与旧格式都失败
	_, err := Parse([]byte(`{"metadata":{"name":"foo","version":"1.0.0","spec":"0.1.0"},"instructions":[]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, idlerr.ErrParseFailed))
	assert.Contains(t, err.Error(), "missing field `address`")
}

func TestParse_InvalidJSON(t *testing.T) {
	for _, input := range []string{``, `not json`, `[1,2,3]`, `"str"`} {
		_, err := Parse([]byte(input))
		require.Error(t, err, input)
		assert.Equal(t, idlerr.KindParseFailed, idlerr.KindOf(err))
	}
}

func TestParse_Canonical(t *testing.T) {
	doc, err := Parse([]byte(canonicalSample))
	require.NoError(t, err)
	assert.Equal(t, "whirlpool", doc.Metadata.Name)
	assert.Len(t, doc.Instructions, 1)
}

func TestDialect_String(t *testing.T) {
	assert.Equal(t, "canonical", DialectCanonical.String())
	assert.Equal(t, "legacy", DialectLegacy.String())
}

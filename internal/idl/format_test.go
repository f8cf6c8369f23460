package idl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_String(t *testing.T) {
	var vec Type
	require.NoError(t, json.Unmarshal([]byte(`{"vec":"u64"}`), &vec))
	assert.Equal(t, "Vec<u64>", vec.String())

	tests := []struct {
		ty   Type
		want string
	}{
		{PrimitiveType("bool"), "bool"},
		{OptionOf(VecOf(PrimitiveType("u8"))), "Option<Vec<u8>>"},
		{ArrayOf(PrimitiveType("u8"), 32), "[u8; 32]"},
		{VecOf(ArrayOf(DefinedType("Tick"), 88)), "Vec<[Tick; 88]>"},
		{DefinedType("PoolState"), "PoolState"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ty.String())
	}
}

func TestFormatDiscriminator(t *testing.T) {
	assert.Equal(t, "(none)", FormatDiscriminator(nil))
	assert.Equal(t, "(none)", FormatDiscriminator(Discriminator{}))
	assert.Equal(t, "[66 06 3d 12 01 da eb ea]", FormatDiscriminator([]byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}))
}

func nestedAccounts() []AccountItem {
	return []AccountItem{
		SingleAccount(Account{Name: "payer", Signer: true}),
		GroupAccounts("pool", []AccountItem{
			SingleAccount(Account{Name: "state", Writable: true}),
			GroupAccounts("vaults", []AccountItem{
				SingleAccount(Account{Name: "vault_a"}),
				SingleAccount(Account{Name: "vault_b"}),
			}),
		}),
		GroupAccounts("empty", nil),
		SingleAccount(Account{Name: "system_program"}),
	}
}

func TestCountAccounts(t *testing.T) {
	assert.Equal(t, 0, CountAccounts(nil))
	assert.Equal(t, 5, CountAccounts(nestedAccounts()))
}

func TestFlattenAccounts(t *testing.T) {
	flat := FlattenAccounts(nestedAccounts())
	require.Len(t, flat, 5)

	names := make([]string, len(flat))
	for i, na := range flat {
		assert.Equal(t, i+1, na.Number)
		names[i] = na.Account.Name
	}
	assert.Equal(t, []string{"payer", "state", "vault_a", "vault_b", "system_program"}, names)

	assert.Empty(t, flat[0].Groups)
	assert.Equal(t, []string{"pool"}, flat[1].Groups)
	assert.Equal(t, []string{"pool", "vaults"}, flat[2].Groups)
	assert.Equal(t, []string{"pool", "vaults"}, flat[3].Groups)
	assert.Empty(t, flat[4].Groups)
}

func TestDocument_FindInstruction(t *testing.T) {
	doc := &Document{Instructions: []Instruction{{Name: "initialize"}, {Name: "swapBaseIn"}}}

	ix, ok := doc.FindInstruction("SWAPBASEIN")
	require.True(t, ok)
	assert.Equal(t, "swapBaseIn", ix.Name)

	_, ok = doc.FindInstruction("withdraw")
	assert.False(t, ok)

	assert.Equal(t, []string{"initialize", "swapBaseIn"}, doc.InstructionNames())
}

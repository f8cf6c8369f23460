package idl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyMinimal = `{"name":"foo","version":"1.0.0","instructions":[{"name":"initialize","accounts":[{"name":"signer","isMut":true,"isSigner":true}],"args":[]}],"accounts":[],"types":[],"events":[],"errors":[]}`

const legacyFull = `{
  "version": "0.1.0",
  "name": "pump",
  "instructions": [
    {
      "name": "buy",
      "docs": ["Buys tokens from a bonding curve."],
      "accounts": [
        {"name": "global", "isMut": false, "isSigner": false},
        {"name": "user", "isMut": true, "isSigner": true},
        {"name": "referrer", "isMut": true, "isSigner": false, "isOptional": true},
        {"name": "swap", "accounts": [
          {"name": "bondingCurve", "isMut": true, "isSigner": false}
        ]}
      ],
      "args": [
        {"name": "amount", "type": "u64"},
        {"name": "creator", "type": "publicKey"},
        {"name": "path", "type": {"vec": "publicKey"}},
        {"name": "hint", "type": {"option": {"array": ["u8", 4]}}},
        {"name": "params", "type": {"defined": "BuyParams"}}
      ]
    }
  ],
  "accounts": [
    {"name": "BondingCurve", "type": {"kind": "struct", "fields": [
      {"name": "virtualTokenReserves", "type": "u64"},
      {"name": "creator", "type": "publicKey"}
    ]}}
  ],
  "types": [
    {"name": "BuyParams", "type": {"kind": "struct", "fields": [{"name": "slippage", "type": "u16"}]}},
    {"name": "Side", "type": {"kind": "enum", "variants": [
      {"name": "Bid"},
      {"name": "Ask", "fields": [{"name": "limit", "type": {"defined": {"name": "Limit"}}}]}
    ]}}
  ],
  "events": [
    {"name": "TradeEvent", "fields": [{"name": "mint", "type": "publicKey", "index": false}]}
  ],
  "errors": [{"code": 6000, "name": "NotAuthorized", "msg": "The given account is not authorized"}],
  "metadata": {"address": "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P", "origin": "anchor"}
}`

func TestLegacy_MinimalScenario(t *testing.T) {
	var legacy LegacyDocument
	require.NoError(t, json.Unmarshal([]byte(legacyMinimal), &legacy))
	doc := legacy.ToCanonical()

	assert.Equal(t, "", doc.Address)
	assert.Equal(t, "foo", doc.Metadata.Name)
	assert.Equal(t, "1.0.0", doc.Metadata.Version)
	assert.Equal(t, "legacy", doc.Metadata.Spec)

	require.Len(t, doc.Instructions, 1)
	ix := doc.Instructions[0]
	assert.Equal(t, "initialize", ix.Name)
	assert.Equal(t, Discriminator{}, ix.Discriminator)
	require.Len(t, ix.Accounts, 1)
	require.Equal(t, AccountItemSingle, ix.Accounts[0].Kind)
	assert.Equal(t, Account{Name: "signer", Writable: true, Signer: true, Optional: false}, *ix.Accounts[0].Single)
	assert.Empty(t, ix.Args)
}

func TestLegacy_FullConversion(t *testing.T) {
	var legacy LegacyDocument
	require.NoError(t, json.Unmarshal([]byte(legacyFull), &legacy))
	doc := legacy.ToCanonical()

	assert.Equal(t, "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P", doc.Address)
	assert.Equal(t, "legacy", doc.Metadata.Spec)

	ix := doc.Instructions[0]
	require.Len(t, ix.Accounts, 4)
	assert.Equal(t, Account{Name: "global"}, *ix.Accounts[0].Single)
	assert.Equal(t, Account{Name: "referrer", Writable: true, Optional: true}, *ix.Accounts[2].Single)
	require.Equal(t, AccountItemGroup, ix.Accounts[3].Kind)
	assert.Equal(t, "swap", ix.Accounts[3].Group.Name)
	assert.Equal(t, "bondingCurve", ix.Accounts[3].Group.Accounts[0].Single.Name)

	args := ix.Args
	assert.Equal(t, PrimitiveType("u64"), args[0].Type)
	assert.Equal(t, PrimitiveType("pubkey"), args[1].Type)
	assert.Equal(t, VecOf(PrimitiveType("pubkey")), args[2].Type)
	assert.Equal(t, OptionOf(ArrayOf(PrimitiveType("u8"), 4)), args[3].Type)
	assert.Equal(t, DefinedType("BuyParams"), args[4].Type)

	// 账户只保留引用，结构体并入 types 且排在最前
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, AccountRef{Name: "BondingCurve", Discriminator: Discriminator{}}, doc.Accounts[0])
	require.Len(t, doc.Types, 3)
	assert.Equal(t, "BondingCurve", doc.Types[0].Name)
	assert.Equal(t, PrimitiveType("pubkey"), doc.Types[0].Type.Fields[1].Type)
	assert.Equal(t, "BuyParams", doc.Types[1].Name)

	side := doc.Types[2].Type
	require.Equal(t, TypeDefEnum, side.Kind)
	assert.Nil(t, side.Variants[0].Fields)
	require.NotNil(t, side.Variants[1].Fields)
	assert.Equal(t, EnumFieldsNamed, side.Variants[1].Fields.Kind)
	assert.Equal(t, DefinedType("Limit"), side.Variants[1].Fields.Named[0].Type)

	// 事件字段被丢弃，也不并入 types
	require.Len(t, doc.Events, 1)
	assert.Equal(t, EventRef{Name: "TradeEvent", Discriminator: Discriminator{}}, doc.Events[0])
	for _, td := range doc.Types {
		assert.NotEqual(t, "TradeEvent", td.Name)
	}

	require.Len(t, doc.Errors, 1)
	assert.Equal(t, "NotAuthorized", doc.Errors[0].Name)
}

func TestLegacy_PublicKeyRename(t *testing.T) {
	var ty LegacyType
	require.NoError(t, json.Unmarshal([]byte(`"publicKey"`), &ty))
	assert.Equal(t, PrimitiveType("pubkey"), ty.toCanonical())

	require.NoError(t, json.Unmarshal([]byte(`"PublicKey"`), &ty))
	assert.Equal(t, PrimitiveType("PublicKey"), ty.toCanonical(), "only the exact legacy spelling is renamed")

	require.NoError(t, json.Unmarshal([]byte(`{"array":["publicKey",2]}`), &ty))
	assert.Equal(t, ArrayOf(PrimitiveType("pubkey"), 2), ty.toCanonical())
}

func TestLegacy_RoundTripStable(t *testing.T) {
	for _, input := range []string{legacyMinimal, legacyFull} {
		var legacy LegacyDocument
		require.NoError(t, json.Unmarshal([]byte(input), &legacy))
		direct := legacy.ToCanonical()

		out, err := direct.MarshalCanonical()
		require.NoError(t, err)

		reparsed, err := Parse(out)
		require.NoError(t, err)
		assert.Equal(t, direct, reparsed)
	}
}

func TestLegacy_RequiredFields(t *testing.T) {
	tests := []string{
		`{"version":"1.0.0"}`,
		`{"name":"foo"}`,
		`{"name":"foo","version":"1","instructions":[{"accounts":[]}]}`,
		`{"name":"foo","version":"1","types":[{"name":"T","type":{"kind":"tuple"}}]}`,
		`{"name":"foo","version":"1","types":[{"name":"T","type":{"kind":"struct","fields":[{"name":"a"}]}}]}`,
		`{"name":"foo","version":"1","types":[{"name":"T","type":{"kind":"struct","fields":[{"name":"a","type":{"hashMap":["u8","u8"]}}]}}]}`,
	}
	for _, input := range tests {
		var legacy LegacyDocument
		assert.Error(t, json.Unmarshal([]byte(input), &legacy), input)
	}
}

func TestLegacy_OptionalCollections(t *testing.T) {
	var legacy LegacyDocument
	require.NoError(t, json.Unmarshal([]byte(`{"name":"bare","version":"0.0.1"}`), &legacy))
	doc := legacy.ToCanonical()

	assert.NotNil(t, doc.Instructions)
	assert.NotNil(t, doc.Accounts)
	assert.NotNil(t, doc.Types)
	assert.NotNil(t, doc.Events)
	assert.NotNil(t, doc.Errors)
}

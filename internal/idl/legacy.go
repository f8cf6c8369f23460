package idl

import (
	"encoding/json"
	"fmt"

	"periscope-sol/internal/consts"
)

// LegacyDocument 旧版 Anchor IDL（0.29 之前）：name/version 在根节点，
// accounts 与 events 带完整结构体定义，指令账户使用 isMut/isSigner。
type LegacyDocument struct {
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	Metadata     *LegacyMetadata     `json:"metadata,omitempty"`
	Instructions []LegacyInstruction `json:"instructions"`
	Accounts     []LegacyTypeDef     `json:"accounts"`
	Types        []LegacyTypeDef     `json:"types"`
	Events       []LegacyEvent       `json:"events"`
	Errors       []ErrorDef          `json:"errors"`
}

type LegacyMetadata struct {
	Address       *string `json:"address,omitempty"`
	Origin        *string `json:"origin,omitempty"`
	BinaryVersion *string `json:"binaryVersion,omitempty"`
	LibVersion    *string `json:"libVersion,omitempty"`
}

type LegacyInstruction struct {
	Name     string                    `json:"name"`
	Docs     []string                  `json:"docs,omitempty"`
	Accounts []LegacyInstructionAccount `json:"accounts"`
	Args     []LegacyField             `json:"args"`
}

// LegacyInstructionAccount 单个账户；带 accounts 字段时为组合账户（嵌套组）
type LegacyInstructionAccount struct {
	Name       string                     `json:"name"`
	IsMut      bool                       `json:"isMut"`
	IsSigner   bool                       `json:"isSigner"`
	IsOptional bool                       `json:"isOptional,omitempty"`
	Docs       []string                   `json:"docs,omitempty"`
	Accounts   []LegacyInstructionAccount `json:"accounts,omitempty"`

	isGroup bool
}

type LegacyTypeDef struct {
	Name string          `json:"name"`
	Docs []string        `json:"docs,omitempty"`
	Type LegacyTypeDefTy `json:"type"`
}

type LegacyTypeDefTy struct {
	Kind     TypeDefKind
	Fields   []LegacyField
	Variants []LegacyEnumVariant
}

type LegacyEnumVariant struct {
	Name   string         `json:"name"`
	Fields *[]LegacyField `json:"fields,omitempty"`
}

type LegacyField struct {
	Name string     `json:"name"`
	Docs []string   `json:"docs,omitempty"`
	Type LegacyType `json:"type"`
}

// LegacyType 与 Type 结构相同，区别在于 defined 直接是字符串，且基础类型使用 "publicKey"
type LegacyType struct {
	Primitive string
	Complex   *LegacyTypeComplex
}

type LegacyTypeComplex struct {
	Kind  TypeComplexKind
	Inner *LegacyType
	Size  int
	Name  string
}

// LegacyEvent 旧格式事件带字段定义，转换时字段会被丢弃
type LegacyEvent struct {
	Name   string        `json:"name"`
	Fields []LegacyField `json:"fields"`
}

// ---------------- 解码 ----------------

func (l *LegacyDocument) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "legacy idl", "name", "version"); err != nil {
		return err
	}
	type alias LegacyDocument
	return json.Unmarshal(data, (*alias)(l))
}

func (ix *LegacyInstruction) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "legacy instruction", "name"); err != nil {
		return err
	}
	type alias LegacyInstruction
	return json.Unmarshal(data, (*alias)(ix))
}

func (a *LegacyInstructionAccount) UnmarshalJSON(data []byte) error {
	obj, err := requireFields(data, "legacy instruction account", "name")
	if err != nil {
		return err
	}
	type alias LegacyInstructionAccount
	if err := json.Unmarshal(data, (*alias)(a)); err != nil {
		return err
	}
	_, a.isGroup = obj["accounts"]
	return nil
}

func (td *LegacyTypeDef) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "legacy type def", "name", "type"); err != nil {
		return err
	}
	type alias LegacyTypeDef
	return json.Unmarshal(data, (*alias)(td))
}

func (t *LegacyTypeDefTy) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "legacy type def body", "kind"); err != nil {
		return err
	}
	var w struct {
		Kind     string              `json:"kind"`
		Fields   []LegacyField       `json:"fields"`
		Variants []LegacyEnumVariant `json:"variants"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "struct":
		*t = LegacyTypeDefTy{Kind: TypeDefStruct, Fields: w.Fields}
	case "enum":
		*t = LegacyTypeDefTy{Kind: TypeDefEnum, Variants: w.Variants}
	default:
		return fmt.Errorf("legacy type def body: unknown kind %q", w.Kind)
	}
	return nil
}

func (v *LegacyEnumVariant) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "legacy enum variant", "name"); err != nil {
		return err
	}
	type alias LegacyEnumVariant
	return json.Unmarshal(data, (*alias)(v))
}

func (f *LegacyField) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "legacy field", "name", "type"); err != nil {
		return err
	}
	type alias LegacyField
	return json.Unmarshal(data, (*alias)(f))
}

func (e *LegacyEvent) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "legacy event", "name"); err != nil {
		return err
	}
	type alias LegacyEvent
	return json.Unmarshal(data, (*alias)(e))
}

func (t *LegacyType) UnmarshalJSON(data []byte) error {
	switch firstToken(data) {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = LegacyType{Primitive: s}
		return nil
	case '{':
		var c LegacyTypeComplex
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		*t = LegacyType{Complex: &c}
		return nil
	default:
		return fmt.Errorf("legacy type: expected string or object, got %s", truncate(data))
	}
}

func (c *LegacyTypeComplex) UnmarshalJSON(data []byte) error {
	key, value, err := singleKey(data)
	if err != nil {
		return err
	}
	switch key {
	case "vec", "option":
		var inner LegacyType
		if err := json.Unmarshal(value, &inner); err != nil {
			return err
		}
		kind := TypeVec
		if key == "option" {
			kind = TypeOption
		}
		*c = LegacyTypeComplex{Kind: kind, Inner: &inner}
	case "array":
		var pair []json.RawMessage
		if err := json.Unmarshal(value, &pair); err != nil {
			return fmt.Errorf("legacy array type: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("legacy array type: expected [type, size], got %d elements", len(pair))
		}
		var inner LegacyType
		if err := json.Unmarshal(pair[0], &inner); err != nil {
			return err
		}
		var size uint32
		if err := json.Unmarshal(pair[1], &size); err != nil {
			return fmt.Errorf("legacy array type: invalid size: %w", err)
		}
		*c = LegacyTypeComplex{Kind: TypeArray, Inner: &inner, Size: int(size)}
	case "defined":
		name, err := legacyDefinedName(value)
		if err != nil {
			return err
		}
		*c = LegacyTypeComplex{Kind: TypeDefined, Name: name}
	default:
		return fmt.Errorf("legacy type: unknown variant `%s`", key)
	}
	return nil
}

// legacyDefinedName 旧格式为 {"defined": "Name"}，部分 0.29 产物已是 {"defined": {"name": "Name"}}
func legacyDefinedName(value json.RawMessage) (string, error) {
	var name string
	if firstToken(value) == '{' {
		obj, err := requireFields(value, "legacy defined type", "name")
		if err != nil {
			return "", err
		}
		value = obj["name"]
	}
	if err := json.Unmarshal(value, &name); err != nil {
		return "", fmt.Errorf("legacy defined type: %w", err)
	}
	return name, nil
}

// ---------------- 转换为规范格式 ----------------

// ToCanonical 转换规则：
//   - 根 name/version -> Metadata，Spec 固定为 "legacy"；地址只取 metadata.address
//   - accounts 的结构体定义并入 types（accounts 在前），根 accounts 只保留名字，discriminator 为空
//   - events 只保留名字，字段定义直接丢弃
//   - isMut/isSigner/isOptional -> writable/signer/optional
//   - "publicKey" -> "pubkey"，vec/option/array/defined 一一对应
//   - 枚举变体字段统一视为 Named
func (l *LegacyDocument) ToCanonical() *Document {
	doc := &Document{
		Metadata: Metadata{
			Name:    l.Name,
			Version: l.Version,
			Spec:    consts.LegacySpecMarker,
		},
		Instructions: make([]Instruction, 0, len(l.Instructions)),
		Accounts:     make([]AccountRef, 0, len(l.Accounts)),
		Types:        make([]TypeDef, 0, len(l.Accounts)+len(l.Types)),
		Events:       make([]EventRef, 0, len(l.Events)),
		Errors:       make([]ErrorDef, 0, len(l.Errors)),
	}
	if l.Metadata != nil && l.Metadata.Address != nil {
		doc.Address = *l.Metadata.Address
	}

	for _, ix := range l.Instructions {
		doc.Instructions = append(doc.Instructions, ix.toCanonical())
	}
	for _, acc := range l.Accounts {
		doc.Accounts = append(doc.Accounts, AccountRef{Name: acc.Name, Discriminator: Discriminator{}})
		doc.Types = append(doc.Types, acc.toCanonical())
	}
	for _, td := range l.Types {
		doc.Types = append(doc.Types, td.toCanonical())
	}
	for _, ev := range l.Events {
		doc.Events = append(doc.Events, EventRef{Name: ev.Name, Discriminator: Discriminator{}})
	}
	doc.Errors = append(doc.Errors, l.Errors...)

	doc.normalize()
	return doc
}

func (ix LegacyInstruction) toCanonical() Instruction {
	return Instruction{
		Name:          ix.Name,
		Discriminator: Discriminator{},
		Accounts:      convertLegacyAccounts(ix.Accounts),
		Args:          convertLegacyFields(ix.Args),
	}
}

func convertLegacyAccounts(accounts []LegacyInstructionAccount) []AccountItem {
	items := make([]AccountItem, 0, len(accounts))
	for _, a := range accounts {
		if a.isGroup {
			items = append(items, GroupAccounts(a.Name, convertLegacyAccounts(a.Accounts)))
			continue
		}
		items = append(items, SingleAccount(Account{
			Name:     a.Name,
			Writable: a.IsMut,
			Signer:   a.IsSigner,
			Optional: a.IsOptional,
		}))
	}
	return items
}

func (td LegacyTypeDef) toCanonical() TypeDef {
	switch td.Type.Kind {
	case TypeDefEnum:
		variants := make([]EnumVariant, 0, len(td.Type.Variants))
		for _, v := range td.Type.Variants {
			variant := EnumVariant{Name: v.Name}
			if v.Fields != nil {
				variant.Fields = NamedFields(convertLegacyFields(*v.Fields))
			}
			variants = append(variants, variant)
		}
		return TypeDef{Name: td.Name, Type: EnumType(variants)}
	default:
		return TypeDef{Name: td.Name, Type: StructType(convertLegacyFields(td.Type.Fields))}
	}
}

func convertLegacyFields(fields []LegacyField) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, Field{Name: f.Name, Type: f.Type.toCanonical()})
	}
	return out
}

func (t LegacyType) toCanonical() Type {
	if t.Complex == nil {
		if t.Primitive == "publicKey" {
			return PrimitiveType("pubkey")
		}
		return PrimitiveType(t.Primitive)
	}

	c := t.Complex
	switch c.Kind {
	case TypeVec:
		return VecOf(c.Inner.toCanonical())
	case TypeOption:
		return OptionOf(c.Inner.toCanonical())
	case TypeArray:
		return ArrayOf(c.Inner.toCanonical(), c.Size)
	case TypeDefined:
		return DefinedType(c.Name)
	default:
		return PrimitiveType(t.Primitive)
	}
}

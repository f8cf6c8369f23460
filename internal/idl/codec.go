package idl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// 无标签 JSON 的判别顺序（格式错误的输入可能同时满足多种形状，顺序固定）：
//   - Type: 首个 token 为字符串 -> Primitive；为对象 -> Complex（对象必须恰好一个 key）
//   - AccountItem: 对象中存在 "accounts" key -> Group；否则 -> Single
//   - EnumFields: 首个元素是同时带 "name" 和 "type" 的对象 -> Named；否则 -> Tuple

// requireFields 检查 JSON 对象中必需字段是否存在
func requireFields(data []byte, what string, keys ...string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%s: expected object, got null", what)
	}
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return nil, fmt.Errorf("%s: missing field `%s`", what, key)
		}
	}
	return obj, nil
}

func firstToken(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// ---------------- Document ----------------

func (d *Document) UnmarshalJSON(data []byte) error {
	obj, err := requireFields(data, "idl", "address", "metadata", "instructions")
	if err != nil {
		return err
	}
	if firstToken(obj["address"]) != '"' {
		return errors.New("idl: field `address` must be a string")
	}
	type alias Document
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Document(a)
	d.normalize()
	return nil
}

// normalize 把所有 nil 切片换成空切片，保证重新序列化时数组始终存在且 discriminator 为 []
func (d *Document) normalize() {
	if d.Instructions == nil {
		d.Instructions = []Instruction{}
	}
	for i := range d.Instructions {
		ix := &d.Instructions[i]
		if ix.Discriminator == nil {
			ix.Discriminator = Discriminator{}
		}
		if ix.Accounts == nil {
			ix.Accounts = []AccountItem{}
		}
		normalizeAccountItems(ix.Accounts)
		if ix.Args == nil {
			ix.Args = []Field{}
		}
	}
	if d.Accounts == nil {
		d.Accounts = []AccountRef{}
	}
	for i := range d.Accounts {
		if d.Accounts[i].Discriminator == nil {
			d.Accounts[i].Discriminator = Discriminator{}
		}
	}
	if d.Types == nil {
		d.Types = []TypeDef{}
	}
	for i := range d.Types {
		ty := &d.Types[i].Type
		switch ty.Kind {
		case TypeDefStruct:
			if ty.Fields == nil {
				ty.Fields = []Field{}
			}
		case TypeDefEnum:
			if ty.Variants == nil {
				ty.Variants = []EnumVariant{}
			}
		}
	}
	if d.Events == nil {
		d.Events = []EventRef{}
	}
	for i := range d.Events {
		if d.Events[i].Discriminator == nil {
			d.Events[i].Discriminator = Discriminator{}
		}
	}
	if d.Errors == nil {
		d.Errors = []ErrorDef{}
	}
}

func normalizeAccountItems(items []AccountItem) {
	for _, item := range items {
		switch item.Kind {
		case AccountItemSingle:
		case AccountItemGroup:
			if item.Group.Accounts == nil {
				item.Group.Accounts = []AccountItem{}
			}
			normalizeAccountItems(item.Group.Accounts)
		}
	}
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "metadata", "name", "version", "spec"); err != nil {
		return err
	}
	type alias Metadata
	return json.Unmarshal(data, (*alias)(m))
}

func (ix *Instruction) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "instruction", "name", "accounts", "args"); err != nil {
		return err
	}
	type alias Instruction
	return json.Unmarshal(data, (*alias)(ix))
}

// ---------------- AccountItem ----------------

func (item AccountItem) MarshalJSON() ([]byte, error) {
	switch item.Kind {
	case AccountItemSingle:
		return json.Marshal(item.Single)
	case AccountItemGroup:
		return json.Marshal(item.Group)
	default:
		return nil, fmt.Errorf("account item: unknown kind %d", item.Kind)
	}
}

func (item *AccountItem) UnmarshalJSON(data []byte) error {
	obj, err := requireFields(data, "account item", "name")
	if err != nil {
		return err
	}
	if _, isGroup := obj["accounts"]; isGroup {
		var group AccountGroup
		if err := json.Unmarshal(data, &group); err != nil {
			return err
		}
		*item = AccountItem{Kind: AccountItemGroup, Group: &group}
		return nil
	}
	var account Account
	if err := json.Unmarshal(data, &account); err != nil {
		return err
	}
	*item = AccountItem{Kind: AccountItemSingle, Single: &account}
	return nil
}

func (g *AccountGroup) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "account group", "name", "accounts"); err != nil {
		return err
	}
	type alias AccountGroup
	return json.Unmarshal(data, (*alias)(g))
}

func (p *Pda) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "pda", "seeds"); err != nil {
		return err
	}
	type alias Pda
	return json.Unmarshal(data, (*alias)(p))
}

// ---------------- Seed ----------------

type seedWire struct {
	Kind    SeedKind        `json:"kind"`
	Value   json.RawMessage `json:"value,omitempty"`
	Path    string          `json:"path,omitempty"`
	Account string          `json:"account,omitempty"`
}

func (s Seed) MarshalJSON() ([]byte, error) {
	w := seedWire{Kind: s.Kind, Path: s.Path, Account: s.Account}
	if len(s.Value) > 0 {
		w.Value = json.RawMessage(s.Value)
	}
	return json.Marshal(w)
}

func (s *Seed) UnmarshalJSON(data []byte) error {
	var w seedWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case SeedConst:
		if len(w.Value) == 0 {
			return errors.New("seed: const seed missing field `value`")
		}
	case SeedAccount, SeedArg:
		if w.Path == "" {
			return fmt.Errorf("seed: %s seed missing field `path`", w.Kind)
		}
	default:
		return fmt.Errorf("seed: unknown kind %q", w.Kind)
	}
	var value []byte
	if len(w.Value) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, w.Value); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		value = buf.Bytes()
	}
	*s = Seed{Kind: w.Kind, Value: value, Path: w.Path, Account: w.Account}
	return nil
}

// ---------------- Field / TypeDef ----------------

func (f *Field) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "field", "name", "type"); err != nil {
		return err
	}
	type alias Field
	return json.Unmarshal(data, (*alias)(f))
}

func (td *TypeDef) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "type def", "name", "type"); err != nil {
		return err
	}
	type alias TypeDef
	return json.Unmarshal(data, (*alias)(td))
}

type typeDefTyWire struct {
	Kind     string        `json:"kind"`
	Fields   []Field       `json:"fields,omitempty"`
	Variants []EnumVariant `json:"variants,omitempty"`
}

func (t TypeDefTy) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TypeDefStruct:
		fields := t.Fields
		if fields == nil {
			fields = []Field{}
		}
		return json.Marshal(struct {
			Kind   string  `json:"kind"`
			Fields []Field `json:"fields"`
		}{"struct", fields})
	case TypeDefEnum:
		variants := t.Variants
		if variants == nil {
			variants = []EnumVariant{}
		}
		return json.Marshal(struct {
			Kind     string        `json:"kind"`
			Variants []EnumVariant `json:"variants"`
		}{"enum", variants})
	default:
		return nil, fmt.Errorf("type def: unknown kind %d", t.Kind)
	}
}

func (t *TypeDefTy) UnmarshalJSON(data []byte) error {
	obj, err := requireFields(data, "type def body", "kind")
	if err != nil {
		return err
	}
	var w typeDefTyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "struct":
		if _, ok := obj["fields"]; !ok {
			return errors.New("type def body: struct missing field `fields`")
		}
		*t = TypeDefTy{Kind: TypeDefStruct, Fields: w.Fields}
	case "enum":
		if _, ok := obj["variants"]; !ok {
			return errors.New("type def body: enum missing field `variants`")
		}
		*t = TypeDefTy{Kind: TypeDefEnum, Variants: w.Variants}
	default:
		return fmt.Errorf("type def body: unknown kind %q", w.Kind)
	}
	return nil
}

func (v *EnumVariant) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "enum variant", "name"); err != nil {
		return err
	}
	type alias EnumVariant
	if err := json.Unmarshal(data, (*alias)(v)); err != nil {
		return err
	}
	// 空字段列表等同于无字段
	if v.Fields != nil && v.Fields.Len() == 0 {
		v.Fields = nil
	}
	return nil
}

// ---------------- EnumFields ----------------

func (f EnumFields) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case EnumFieldsTuple:
		return json.Marshal(f.Tuple)
	case EnumFieldsNamed:
		return json.Marshal(f.Named)
	default:
		return nil, fmt.Errorf("enum fields: unknown kind %d", f.Kind)
	}
}

func (f *EnumFields) UnmarshalJSON(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("enum fields: %w", err)
	}
	if len(elems) > 0 && isNamedField(elems[0]) {
		var named []Field
		if err := json.Unmarshal(data, &named); err != nil {
			return err
		}
		*f = EnumFields{Kind: EnumFieldsNamed, Named: named}
		return nil
	}
	var tuple []Type
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	*f = EnumFields{Kind: EnumFieldsTuple, Tuple: tuple}
	return nil
}

func isNamedField(raw json.RawMessage) bool {
	if firstToken(raw) != '{' {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, hasName := obj["name"]
	_, hasType := obj["type"]
	return hasName && hasType
}

// ---------------- Type ----------------

func (t Type) MarshalJSON() ([]byte, error) {
	if t.IsPrimitive() {
		return json.Marshal(t.Primitive)
	}
	return json.Marshal(t.Complex)
}

func (t *Type) UnmarshalJSON(data []byte) error {
	switch firstToken(data) {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Type{Primitive: s}
		return nil
	case '{':
		var c TypeComplex
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		*t = Type{Complex: &c}
		return nil
	default:
		return fmt.Errorf("type: expected string or object, got %s", truncate(data))
	}
}

func (c TypeComplex) MarshalJSON() ([]byte, error) {
	var value interface{}
	switch c.Kind {
	case TypeVec, TypeOption:
		value = c.Inner
	case TypeArray:
		value = []interface{}{c.Inner, c.Size}
	case TypeDefined:
		value = struct {
			Name string `json:"name"`
		}{c.Name}
	default:
		return nil, fmt.Errorf("type: unknown complex kind %d", c.Kind)
	}
	return json.Marshal(map[string]interface{}{c.Kind.key(): value})
}

func (c *TypeComplex) UnmarshalJSON(data []byte) error {
	key, value, err := singleKey(data)
	if err != nil {
		return err
	}
	switch key {
	case "vec", "option":
		var inner Type
		if err := json.Unmarshal(value, &inner); err != nil {
			return err
		}
		kind := TypeVec
		if key == "option" {
			kind = TypeOption
		}
		*c = TypeComplex{Kind: kind, Inner: &inner}
	case "array":
		inner, size, err := decodeArray(value)
		if err != nil {
			return err
		}
		*c = TypeComplex{Kind: TypeArray, Inner: &inner, Size: size}
	case "defined":
		obj, err := requireFields(value, "defined type", "name")
		if err != nil {
			return err
		}
		var name string
		if err := json.Unmarshal(obj["name"], &name); err != nil {
			return fmt.Errorf("defined type: %w", err)
		}
		*c = TypeComplex{Kind: TypeDefined, Name: name}
	default:
		return fmt.Errorf("type: unknown variant `%s`", key)
	}
	return nil
}

// singleKey 外部标签的枚举对象必须恰好只有一个 key
func singleKey(data []byte) (string, json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("type: expected object with a single key, got %d keys", len(obj))
	}
	for k, v := range obj {
		return k, v, nil
	}
	return "", nil, nil
}

// decodeArray 解析 [T, N] 形式的定长数组
func decodeArray(value json.RawMessage) (Type, int, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(value, &pair); err != nil {
		return Type{}, 0, fmt.Errorf("array type: %w", err)
	}
	if len(pair) != 2 {
		return Type{}, 0, fmt.Errorf("array type: expected [type, size], got %d elements", len(pair))
	}
	var inner Type
	if err := json.Unmarshal(pair[0], &inner); err != nil {
		return Type{}, 0, err
	}
	var size uint32
	if err := json.Unmarshal(pair[1], &size); err != nil {
		return Type{}, 0, fmt.Errorf("array type: invalid size: %w", err)
	}
	return inner, int(size), nil
}

// ---------------- refs / errors ----------------

func (r *AccountRef) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "account ref", "name"); err != nil {
		return err
	}
	type alias AccountRef
	return json.Unmarshal(data, (*alias)(r))
}

func (r *EventRef) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "event ref", "name"); err != nil {
		return err
	}
	type alias EventRef
	return json.Unmarshal(data, (*alias)(r))
}

func (e *ErrorDef) UnmarshalJSON(data []byte) error {
	if _, err := requireFields(data, "error", "code", "name"); err != nil {
		return err
	}
	type alias ErrorDef
	return json.Unmarshal(data, (*alias)(e))
}

// ---------------- Discriminator ----------------

func (d Discriminator) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, b := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d", b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (d *Discriminator) UnmarshalJSON(data []byte) error {
	switch firstToken(data) {
	case 'n':
		*d = Discriminator{}
		return nil
	case '[':
	default:
		return fmt.Errorf("discriminator: expected array of bytes, got %s", truncate(data))
	}
	var values []byte
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("discriminator: %w", err)
	}
	if values == nil {
		values = []byte{}
	}
	*d = values
	return nil
}

func truncate(data []byte) string {
	const max = 32
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}

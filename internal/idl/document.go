package idl

// Document 是规范化后的 IDL 文档（Anchor 0.1.0 spec 结构），两种方言最终都转换为它。
// 构造完成后只读，由调用方独占。
type Document struct {
	Address      string        `json:"address"` // 程序地址（base58），旧格式缺失时为空串
	Metadata     Metadata      `json:"metadata"`
	Instructions []Instruction `json:"instructions"`
	Accounts     []AccountRef  `json:"accounts"` // 只有名字和 discriminator，结构体定义在 Types 中
	Types        []TypeDef     `json:"types"`
	Events       []EventRef    `json:"events"` // 同 Accounts
	Errors       []ErrorDef    `json:"errors"`
}

type Metadata struct {
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Spec        string  `json:"spec"` // IDL spec 版本，旧格式转换时固定为 "legacy"
	Description *string `json:"description,omitempty"`
}

type Instruction struct {
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
	Accounts      []AccountItem `json:"accounts"`
	Args          []Field       `json:"args"`
}

// AccountItemKind 区分指令账户列表中的单个账户与嵌套账户组
type AccountItemKind uint8

const (
	AccountItemSingle AccountItemKind = iota
	AccountItemGroup
)

// AccountItem 是 Single(Account) | Group(AccountGroup) 的标签联合，按 Kind 取对应字段
type AccountItem struct {
	Kind   AccountItemKind
	Single *Account
	Group  *AccountGroup
}

type AccountGroup struct {
	Name     string        `json:"name"`
	Accounts []AccountItem `json:"accounts"`
}

type Account struct {
	Name     string  `json:"name"`
	Writable bool    `json:"writable,omitempty"`
	Signer   bool    `json:"signer,omitempty"`
	Optional bool    `json:"optional,omitempty"`
	Address  *string `json:"address,omitempty"` // 固定地址（如 system program）
	Pda      *Pda    `json:"pda,omitempty"`
}

type Pda struct {
	Seeds   []Seed `json:"seeds"`
	Program *Seed  `json:"program,omitempty"`
}

// SeedKind PDA seed 的种类，对应 JSON 中的 "kind"
type SeedKind string

const (
	SeedConst   SeedKind = "const"
	SeedAccount SeedKind = "account"
	SeedArg     SeedKind = "arg"
)

// Seed const 类型只保留原始 value；account/arg 类型保留 path
type Seed struct {
	Kind    SeedKind
	Value   []byte // const 的原始 JSON
	Path    string
	Account string // account 类型可选的账户类型名
}

type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

type TypeDef struct {
	Name string    `json:"name"`
	Type TypeDefTy `json:"type"`
}

// TypeDefKind 自定义类型的种类
type TypeDefKind uint8

const (
	TypeDefStruct TypeDefKind = iota
	TypeDefEnum
)

// TypeDefTy 是 Struct(fields) | Enum(variants) 的标签联合
type TypeDefTy struct {
	Kind     TypeDefKind
	Fields   []Field       // TypeDefStruct
	Variants []EnumVariant // TypeDefEnum
}

type EnumVariant struct {
	Name   string      `json:"name"`
	Fields *EnumFields `json:"fields,omitempty"`
}

// EnumFieldsKind 枚举变体字段的形式
type EnumFieldsKind uint8

const (
	EnumFieldsTuple EnumFieldsKind = iota
	EnumFieldsNamed
)

// EnumFields 是 Tuple([]Type) | Named([]Field) 的标签联合，两者互斥且非空
type EnumFields struct {
	Kind  EnumFieldsKind
	Tuple []Type
	Named []Field
}

func (f *EnumFields) Len() int {
	switch f.Kind {
	case EnumFieldsTuple:
		return len(f.Tuple)
	case EnumFieldsNamed:
		return len(f.Named)
	default:
		return 0
	}
}

// Type 要么是基础类型（Primitive 非空、Complex 为 nil），要么是复合类型
type Type struct {
	Primitive string
	Complex   *TypeComplex
}

func (t Type) IsPrimitive() bool {
	return t.Complex == nil
}

// TypeComplexKind 复合类型的种类，对应 JSON 对象的唯一 key
type TypeComplexKind uint8

const (
	TypeVec TypeComplexKind = iota
	TypeOption
	TypeArray
	TypeDefined
)

func (k TypeComplexKind) key() string {
	switch k {
	case TypeVec:
		return "vec"
	case TypeOption:
		return "option"
	case TypeArray:
		return "array"
	case TypeDefined:
		return "defined"
	default:
		return ""
	}
}

// TypeComplex Vec/Option/Array 使用 Inner，Array 额外使用 Size，Defined 只使用 Name
type TypeComplex struct {
	Kind  TypeComplexKind
	Inner *Type
	Size  int
	Name  string
}

type AccountRef struct {
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
}

type EventRef struct {
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
}

type ErrorDef struct {
	Code uint32  `json:"code"`
	Name string  `json:"name"`
	Msg  *string `json:"msg,omitempty"`
}

// Discriminator 序列化为数字数组（而不是 base64），缺失时为空切片而不是 nil
type Discriminator []byte

// 以下为构造辅助函数

func PrimitiveType(name string) Type {
	return Type{Primitive: name}
}

func VecOf(inner Type) Type {
	return Type{Complex: &TypeComplex{Kind: TypeVec, Inner: &inner}}
}

func OptionOf(inner Type) Type {
	return Type{Complex: &TypeComplex{Kind: TypeOption, Inner: &inner}}
}

func ArrayOf(inner Type, size int) Type {
	return Type{Complex: &TypeComplex{Kind: TypeArray, Inner: &inner, Size: size}}
}

func DefinedType(name string) Type {
	return Type{Complex: &TypeComplex{Kind: TypeDefined, Name: name}}
}

func SingleAccount(account Account) AccountItem {
	return AccountItem{Kind: AccountItemSingle, Single: &account}
}

func GroupAccounts(name string, items []AccountItem) AccountItem {
	return AccountItem{Kind: AccountItemGroup, Group: &AccountGroup{Name: name, Accounts: items}}
}

func StructType(fields []Field) TypeDefTy {
	return TypeDefTy{Kind: TypeDefStruct, Fields: fields}
}

func EnumType(variants []EnumVariant) TypeDefTy {
	return TypeDefTy{Kind: TypeDefEnum, Variants: variants}
}

// NamedFields 空列表返回 nil，保证 "存在即非空"
func NamedFields(fields []Field) *EnumFields {
	if len(fields) == 0 {
		return nil
	}
	return &EnumFields{Kind: EnumFieldsNamed, Named: fields}
}

package idl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// String 渲染为 Rust 风格的类型名：Vec<u64>、Option<Vec<u8>>、[u8; 32]，defined 只保留名字
func (t Type) String() string {
	if t.IsPrimitive() {
		return t.Primitive
	}
	c := t.Complex
	switch c.Kind {
	case TypeVec:
		return fmt.Sprintf("Vec<%s>", c.Inner)
	case TypeOption:
		return fmt.Sprintf("Option<%s>", c.Inner)
	case TypeArray:
		return fmt.Sprintf("[%s; %d]", c.Inner, c.Size)
	case TypeDefined:
		return c.Name
	default:
		return ""
	}
}

// FormatDiscriminator 十六进制显示，如 [af af 6d 1f]，空时为 (none)
func FormatDiscriminator(d []byte) string {
	if len(d) == 0 {
		return "(none)"
	}
	parts := make([]string, len(d))
	for i, b := range d {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// CountAccounts 递归统计账户数量（组本身不计数）
func CountAccounts(items []AccountItem) int {
	count := 0
	for _, item := range items {
		switch item.Kind {
		case AccountItemSingle:
			count++
		case AccountItemGroup:
			count += CountAccounts(item.Group.Accounts)
		}
	}
	return count
}

// NumberedAccount 深度优先展开后的账户，Number 从 1 开始连续编号，
// Groups 为从外到内的所属组名
type NumberedAccount struct {
	Number  int
	Groups  []string
	Account *Account
}

// FlattenAccounts 按源顺序深度优先展开账户列表
func FlattenAccounts(items []AccountItem) []NumberedAccount {
	out := make([]NumberedAccount, 0, CountAccounts(items))
	flattenInto(&out, items, nil)
	return out
}

func flattenInto(out *[]NumberedAccount, items []AccountItem, groups []string) {
	for _, item := range items {
		switch item.Kind {
		case AccountItemSingle:
			*out = append(*out, NumberedAccount{
				Number:  len(*out) + 1,
				Groups:  groups,
				Account: item.Single,
			})
		case AccountItemGroup:
			nested := make([]string, len(groups), len(groups)+1)
			copy(nested, groups)
			flattenInto(out, item.Group.Accounts, append(nested, item.Group.Name))
		}
	}
}

// FindInstruction 按名字查找指令，忽略大小写
func (d *Document) FindInstruction(name string) (*Instruction, bool) {
	for i := range d.Instructions {
		if strings.EqualFold(d.Instructions[i].Name, name) {
			return &d.Instructions[i], true
		}
	}
	return nil, false
}

func (d *Document) InstructionNames() []string {
	names := make([]string, len(d.Instructions))
	for i, ix := range d.Instructions {
		names[i] = ix.Name
	}
	return names
}

// MarshalCanonical 序列化为规范格式 JSON（缓存中持久化的就是这个形状）
func (d *Document) MarshalCanonical() ([]byte, error) {
	return json.Marshal(d)
}

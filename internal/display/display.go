package display

import (
	"fmt"
	"io"
	"strings"

	"periscope-sol/internal/idl"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// 找不到指令时最多列出的候选数
const maxSuggestions = 10

// Printer 把 IDL 渲染为终端文本
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) paint(s string, colors ...text.Color) string {
	if !p.color {
		return s
	}
	return text.Colors(colors).Sprint(s)
}

func (p *Printer) header(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.paint(title, text.Bold, text.FgCyan))
	fmt.Fprintln(p.w, p.paint(strings.Repeat("─", 50), text.Faint))
}

func (p *Printer) subheader(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.paint(title, text.Bold, text.FgWhite))
}

func (p *Printer) field(key, value string) {
	fmt.Fprintf(p.w, "  %s: %s\n", p.paint(key, text.Faint), value)
}

func (p *Printer) none() {
	fmt.Fprintf(p.w, "  %s\n", p.paint("(none)", text.Faint))
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	return t
}

// Overview 程序概览：名称、版本、地址与各部分数量
func (p *Printer) Overview(doc *idl.Document) {
	p.header("Program: " + doc.Metadata.Name)

	p.field("Version", doc.Metadata.Version)
	p.field("Address", doc.Address)
	p.field("Spec", doc.Metadata.Spec)
	if doc.Metadata.Description != nil {
		p.field("Description", *doc.Metadata.Description)
	}

	p.subheader("Summary")
	fmt.Fprintf(p.w, "  %s Instructions, %s Accounts, %s Types, %s Events, %s Errors\n",
		p.paint(fmt.Sprint(len(doc.Instructions)), text.FgGreen),
		p.paint(fmt.Sprint(len(doc.Accounts)), text.FgYellow),
		p.paint(fmt.Sprint(len(doc.Types)), text.FgBlue),
		p.paint(fmt.Sprint(len(doc.Events)), text.FgMagenta),
		p.paint(fmt.Sprint(len(doc.Errors)), text.FgRed),
	)
	fmt.Fprintln(p.w)
}

// InstructionList 指令列表，附带账户数与参数数
func (p *Printer) InstructionList(doc *idl.Document) {
	p.header(fmt.Sprintf("Instructions for %s (%d total)", doc.Metadata.Name, len(doc.Instructions)))
	if len(doc.Instructions) == 0 {
		p.none()
		fmt.Fprintln(p.w)
		return
	}

	t := p.newTable()
	t.AppendHeader(table.Row{"#", "Name", "Accounts", "Args"})
	for i, ix := range doc.Instructions {
		t.AppendRow(table.Row{i + 1, p.paint(ix.Name, text.FgGreen), idl.CountAccounts(ix.Accounts), len(ix.Args)})
	}
	t.Render()
	fmt.Fprintln(p.w)
}

// InstructionDetail 单条指令：discriminator、账户（按深度优先编号，组名单独成行）与参数
func (p *Printer) InstructionDetail(ix *idl.Instruction) {
	p.header("Instruction: " + p.paint(ix.Name, text.FgGreen))
	p.field("Discriminator", idl.FormatDiscriminator(ix.Discriminator))

	p.subheader(fmt.Sprintf("Accounts (%d)", idl.CountAccounts(ix.Accounts)))
	if len(ix.Accounts) == 0 {
		p.none()
	} else {
		p.accountTable(ix.Accounts)
	}

	p.subheader(fmt.Sprintf("Arguments (%d)", len(ix.Args)))
	if len(ix.Args) == 0 {
		p.none()
	} else {
		t := p.newTable()
		t.AppendHeader(table.Row{"#", "Name", "Type"})
		for i, arg := range ix.Args {
			t.AppendRow(table.Row{i + 1, p.paint(arg.Name, text.FgYellow), p.paint(arg.Type.String(), text.FgBlue)})
		}
		t.Render()
	}
	fmt.Fprintln(p.w)
}

func (p *Printer) accountTable(items []idl.AccountItem) {
	t := p.newTable()
	t.AppendHeader(table.Row{"#", "Name", "Constraints", "Address"})

	var current []string
	for _, na := range idl.FlattenAccounts(items) {
		// 进入新的组时先输出组名
		common := commonPrefix(current, na.Groups)
		for depth := common; depth < len(na.Groups); depth++ {
			name := strings.Repeat("  ", depth) + "▸ " + na.Groups[depth]
			t.AppendRow(table.Row{"", p.paint(name, text.Bold)})
		}
		current = na.Groups

		acc := na.Account
		name := strings.Repeat("  ", len(na.Groups)) + p.paint(acc.Name, text.FgYellow)
		address := ""
		if acc.Address != nil {
			address = p.paint(*acc.Address, text.Faint)
		}
		t.AppendRow(table.Row{na.Number, name, p.constraints(acc), address})
	}
	t.Render()
}

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// constraints 形如 [signer, writable, optional]
func (p *Printer) constraints(acc *idl.Account) string {
	var tags []string
	if acc.Signer {
		tags = append(tags, p.paint("signer", text.FgGreen))
	}
	if acc.Writable {
		tags = append(tags, p.paint("writable", text.FgMagenta))
	}
	if acc.Optional {
		tags = append(tags, p.paint("optional", text.Faint))
	}
	if len(tags) == 0 {
		return ""
	}
	return "[" + strings.Join(tags, ", ") + "]"
}

// Errors 错误码表
func (p *Printer) Errors(doc *idl.Document) {
	p.header(fmt.Sprintf("Errors for %s (%d total)", doc.Metadata.Name, len(doc.Errors)))
	if len(doc.Errors) == 0 {
		p.none()
		fmt.Fprintln(p.w)
		return
	}

	t := p.newTable()
	t.AppendHeader(table.Row{"Code", "Name", "Message"})
	for _, e := range doc.Errors {
		msg := "-"
		if e.Msg != nil {
			msg = *e.Msg
		}
		t.AppendRow(table.Row{p.paint(fmt.Sprint(e.Code), text.FgRed), p.paint(e.Name, text.FgYellow), msg})
	}
	t.Render()
	fmt.Fprintln(p.w)
}

// Error 输出错误信息
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint("Error:", text.Bold, text.FgRed), msg)
}

// InstructionNotFound 找不到指令时列出部分可用指令
func (p *Printer) InstructionNotFound(name string, available []string) {
	p.Error(fmt.Sprintf("Instruction '%s' not found", name))
	if len(available) == 0 {
		return
	}

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.paint("Available instructions:", text.Faint))
	for i, ixName := range available {
		if i == maxSuggestions {
			break
		}
		fmt.Fprintf(p.w, "  - %s\n", p.paint(ixName, text.FgGreen))
	}
	if len(available) > maxSuggestions {
		fmt.Fprintf(p.w, "  %s more...\n", p.paint(fmt.Sprintf("(+%d)", len(available)-maxSuggestions), text.Faint))
	}
}

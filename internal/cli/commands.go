package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <program>",
		Short: "Show an overview of the program IDL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			a.printer(cmd).Overview(doc)
			return nil
		},
	}
}

func (a *app) newInstructionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "instructions <program>",
		Aliases: []string{"ixs"},
		Short:   "List all instructions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			a.printer(cmd).InstructionList(doc)
			return nil
		},
	}
}

func (a *app) newInstructionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "instruction <program> <name>",
		Aliases: []string{"ix"},
		Short:   "Show accounts and arguments of one instruction",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			ix, ok := doc.FindInstruction(args[1])
			if !ok {
				a.printer(cmd).InstructionNotFound(args[1], doc.InstructionNames())
				return errReported
			}
			a.printer(cmd).InstructionDetail(ix)
			return nil
		},
	}
}

func (a *app) newErrorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "errors <program>",
		Short: "List the program's custom error codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			a.printer(cmd).Errors(doc)
			return nil
		},
	}
}

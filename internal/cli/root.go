// Package cli 实现 periscope 命令行：从链上、文件或 URL 获取 Anchor IDL 并在终端展示。
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"periscope-sol/internal/cache"
	"periscope-sol/internal/config"
	"periscope-sol/internal/display"
	"periscope-sol/internal/idl"
	"periscope-sol/internal/logic/fetcher"
	"periscope-sol/internal/types"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var Version = "0.1.0"

// errReported 表示错误信息已经输出过，main 只需设置退出码
var errReported = errors.New("already reported")

// Env 命令运行所需的外部依赖，测试时替换
type Env struct {
	ConfigPath string
	Cache      cache.IdlCache
	NewFetcher func(rpcURL string) cache.Retriever
	Color      bool
}

// DefaultEnv 使用用户配置目录、进程内缓存与真实 RPC/HTTP 客户端
func DefaultEnv() (*Env, error) {
	path, err := config.CLIConfigPath()
	if err != nil {
		return nil, err
	}
	return &Env{
		ConfigPath: path,
		Cache:      cache.NewMemoryIdlCache(),
		NewFetcher: func(rpcURL string) cache.Retriever { return fetcher.NewFetcher(rpcURL) },
		Color:      os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd()),
	}, nil
}

type rootFlags struct {
	url     string
	refresh bool
	idl     string
}

type app struct {
	env   *Env
	flags rootFlags
	cfg   *config.CLIConfig
}

// NewRootCmd 创建根命令
func NewRootCmd(env *Env) *cobra.Command {
	a := &app{env: env}

	rootCmd := &cobra.Command{
		Use:   "periscope",
		Short: "Inspect Anchor program IDLs",
		Long: `periscope fetches the Anchor IDL of a Solana program and prints its
instructions, accounts and errors. Both the legacy (pre 0.30) and the
current IDL formats are supported.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.LoadCLIConfig(env.ConfigPath, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.flags.url, "url", "u", "", "Solana RPC URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&a.flags.refresh, "refresh", false, "Skip the IDL cache lookup and fetch again (the cache lives for the process)")
	rootCmd.PersistentFlags().StringVar(&a.flags.idl, "idl", "", "Load the IDL from a local file or URL instead of on-chain")

	rootCmd.AddCommand(a.newInspectCommand())
	rootCmd.AddCommand(a.newInstructionsCommand())
	rootCmd.AddCommand(a.newInstructionCommand())
	rootCmd.AddCommand(a.newErrorsCommand())
	rootCmd.AddCommand(a.newConfigCommand())

	return rootCmd
}

// Execute 运行命令并把错误输出到 errOut，返回进程退出码
func Execute(ctx context.Context, cmd *cobra.Command, errOut io.Writer, color bool) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			display.NewPrinter(errOut, color).Error(err.Error())
		}
		return 1
	}
	return 0
}

func (a *app) printer(cmd *cobra.Command) *display.Printer {
	return display.NewPrinter(cmd.OutOrStdout(), a.env.Color)
}

// loadDocument 按 --idl 决定来源，链上来源经过缓存
func (a *app) loadDocument(cmd *cobra.Command, programArg string) (*idl.Document, error) {
	program, err := types.TryPubkeyFromBase58(programArg)
	if err != nil {
		return nil, fmt.Errorf("invalid program address %q", programArg)
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	src := fetcher.ParseSource(a.flags.idl, program)
	retriever := cache.NewCachedFetcher(a.env.NewFetcher(a.cfg.RpcURL), a.env.Cache)
	return retriever.Retrieve(cmd.Context(), src, a.flags.refresh)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"periscope-sol/internal/consts"
	"periscope-sol/internal/idlerr"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	cliConfigDir  = "periscope"
	cliConfigFile = "config.yaml"
	envPrefix     = "PERISCOPE_"
)

// CLIConfig 命令行工具的本地配置，保存在 ~/.config/periscope/config.yaml
type CLIConfig struct {
	RpcURL string `koanf:"rpc_url" yaml:"rpc_url"`
}

func DefaultCLIConfig() *CLIConfig {
	return &CLIConfig{RpcURL: consts.DefaultRpcURL}
}

// CLIConfigPath 返回配置文件路径
func CLIConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", idlerr.ConfigInvalid("could not determine config directory", err)
	}
	return filepath.Join(dir, cliConfigDir, cliConfigFile), nil
}

// CLIConfigExists 配置文件是否存在
func CLIConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadCLIConfig 按 默认值 < 配置文件 < 环境变量(PERISCOPE_*) < 命令行参数 的优先级加载。
// 文件不存在或为空时使用默认值。flags 中只有显式设置的 --url 会覆盖 rpc_url。
func LoadCLIConfig(path string, flags *pflag.FlagSet) (*CLIConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"rpc_url": consts.DefaultRpcURL,
	}, "."), nil); err != nil {
		return nil, idlerr.ConfigInvalid("failed to load defaults", err)
	}

	if path != "" {
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, idlerr.ConfigInvalid("failed to stat config", err)
		case info.Size() > 0:
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, idlerr.ConfigInvalid("failed to parse config", err)
			}
		}
	}

	// PERISCOPE_RPC_URL -> rpc_url
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, idlerr.ConfigInvalid("failed to load env vars", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name != "url" {
				return "", nil
			}
			return "rpc_url", posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, idlerr.ConfigInvalid("failed to load flags", err)
		}
	}

	var cfg CLIConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, idlerr.ConfigInvalid("unable to decode config", err)
	}
	return &cfg, nil
}

// Save 写入配置文件，目录不存在时自动创建
func (c *CLIConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return idlerr.ConfigInvalid("failed to create config directory", err)
	}
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return idlerr.ConfigInvalid("failed to serialize config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return idlerr.ConfigInvalid("failed to write config", err)
	}
	return nil
}

func (c *CLIConfig) Validate() error {
	if !strings.HasPrefix(c.RpcURL, "http://") && !strings.HasPrefix(c.RpcURL, "https://") {
		return idlerr.ConfigInvalid(fmt.Sprintf("RPC URL must start with http:// or https://, got %q", c.RpcURL), nil)
	}
	return nil
}

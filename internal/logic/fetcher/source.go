package fetcher

import (
	"fmt"
	"strings"

	"periscope-sol/internal/types"
)

// SourceKind IDL 的来源
type SourceKind uint8

const (
	SourceOnChain SourceKind = iota
	SourceLocalFile
	SourceRemoteURL
)

func (k SourceKind) String() string {
	switch k {
	case SourceOnChain:
		return "on-chain"
	case SourceLocalFile:
		return "file"
	case SourceRemoteURL:
		return "url"
	default:
		return "unknown"
	}
}

// Source 是 OnChain(program) | LocalFile(path) | RemoteURL(url) 的标签联合
type Source struct {
	Kind    SourceKind
	Program types.Pubkey // SourceOnChain
	Path    string       // SourceLocalFile
	URL     string       // SourceRemoteURL
}

func OnChain(program types.Pubkey) Source {
	return Source{Kind: SourceOnChain, Program: program}
}

func LocalFile(path string) Source {
	return Source{Kind: SourceLocalFile, Path: path}
}

func RemoteURL(url string) Source {
	return Source{Kind: SourceRemoteURL, URL: url}
}

func (s Source) String() string {
	switch s.Kind {
	case SourceOnChain:
		return fmt.Sprintf("on-chain(%s)", s.Program)
	case SourceLocalFile:
		return fmt.Sprintf("file(%s)", s.Path)
	case SourceRemoteURL:
		return fmt.Sprintf("url(%s)", s.URL)
	default:
		return "unknown"
	}
}

// ParseSource 把命令行 --idl 参数解析为来源：http(s) 前缀为 URL，否则为本地文件；
// 参数为空时使用链上来源。
func ParseSource(idlFlag string, program types.Pubkey) Source {
	switch {
	case idlFlag == "":
		return OnChain(program)
	case strings.HasPrefix(idlFlag, "http://"), strings.HasPrefix(idlFlag, "https://"):
		return RemoteURL(NormalizeGithubURL(idlFlag))
	default:
		return LocalFile(idlFlag)
	}
}

// NormalizeGithubURL 把 github.com/.../blob/... 页面地址转换为 raw.githubusercontent.com 原始文件地址
func NormalizeGithubURL(url string) string {
	if strings.Contains(url, "github.com") && strings.Contains(url, "/blob/") {
		url = strings.ReplaceAll(url, "github.com", "raw.githubusercontent.com")
		return strings.ReplaceAll(url, "/blob/", "/")
	}
	return url
}

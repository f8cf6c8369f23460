package fetcher

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"periscope-sol/internal/consts"
	"periscope-sol/internal/idl"
	"periscope-sol/internal/idlerr"
	"periscope-sol/internal/logic/address"
	"periscope-sol/internal/logic/decompress"
	"periscope-sol/internal/logic/envelope"
	"periscope-sol/internal/pkg/logger"
	"periscope-sol/internal/types"
	"periscope-sol/internal/utils"
)

// Fetcher 组合地址派生、账户读取、头部解析、解压与方言识别。
// 只持有不可变的外部依赖，可并发调用。
type Fetcher struct {
	accounts    AccountReader
	http        HTTPGetter
	files       FileReader
	httpTimeout time.Duration
}

type Option func(*Fetcher)

func WithAccountReader(r AccountReader) Option {
	return func(f *Fetcher) { f.accounts = r }
}

func WithHTTPGetter(g HTTPGetter) Option {
	return func(f *Fetcher) { f.http = g }
}

func WithFileReader(r FileReader) Option {
	return func(f *Fetcher) { f.files = r }
}

func WithHTTPTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.httpTimeout = d }
}

// NewFetcher 默认使用 rpcURL 的 blocto 客户端、go-zero httpc 与本地文件系统
func NewFetcher(rpcURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		files:       OSFileReader{},
		httpTimeout: consts.HttpFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.accounts == nil {
		f.accounts = NewRpcAccountReader(rpcURL)
	}
	if f.http == nil {
		f.http = NewHttpcGetter()
	}
	return f
}

// Retrieve 从指定来源获取 IDL 并转换为规范文档。任何失败都直接返回，不重试，不返回部分结果。
func (f *Fetcher) Retrieve(ctx context.Context, src Source) (*idl.Document, error) {
	switch src.Kind {
	case SourceOnChain:
		return f.fetchFromChain(ctx, src.Program)
	case SourceLocalFile:
		return f.loadFromFile(src.Path)
	case SourceRemoteURL:
		return f.fetchFromURL(ctx, src.URL)
	default:
		return nil, errors.New("unknown idl source")
	}
}

// Result 批量获取中单个来源的结果
type Result struct {
	Source   Source
	Document *idl.Document
	Err      error
}

// RetrieveMany 使用最多 workers 个协程并发获取，结果顺序与 sources 一致
func (f *Fetcher) RetrieveMany(ctx context.Context, sources []Source, workers int) []Result {
	return utils.ParallelMap(sources, workers, func(src Source) Result {
		if err := ctx.Err(); err != nil {
			return Result{Source: src, Err: err}
		}
		doc, err := f.Retrieve(ctx, src)
		return Result{Source: src, Document: doc, Err: err}
	})
}

func (f *Fetcher) fetchFromChain(ctx context.Context, program types.Pubkey) (*idl.Document, error) {
	idlAddress, err := address.DeriveIdlAddress(program)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := f.accounts.GetAccountData(ctx, idlAddress.String())
	if err != nil {
		if isAccountNotFound(err) {
			return nil, idlerr.AccountNotFound(program.String())
		}
		return nil, idlerr.RpcFailed(err)
	}
	logger.Debugf("[Fetcher] 读取 IDL 账户成功, program=%s idl=%s size=%d 耗时=%v",
		program, idlAddress, len(data), time.Since(start))

	payload, err := envelope.Payload(data)
	if err != nil {
		return nil, err
	}
	text, err := decompress.Inflate(payload)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(text) {
		return nil, idlerr.InvalidUtf8()
	}
	return idl.Parse(text)
}

func (f *Fetcher) loadFromFile(path string) (*idl.Document, error) {
	data, err := f.files.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, idlerr.FileNotFound(path)
		}
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, idlerr.InvalidUtf8()
	}
	return idl.Parse(data)
}

func (f *Fetcher) fetchFromURL(ctx context.Context, url string) (*idl.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.httpTimeout)
	defer cancel()

	status, body, err := f.http.Get(ctx, url)
	if err != nil {
		return nil, idlerr.NetworkFailed("HTTP request failed", err)
	}
	if status < 200 || status > 299 {
		return nil, idlerr.HttpStatus(status, url)
	}
	return idl.Parse(body)
}

// isAccountNotFound 只能通过错误文本判断，RPC 客户端没有结构化的错误码
func isAccountNotFound(err error) bool {
	msg := err.Error()
	for _, marker := range consts.AccountNotFoundMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// FetchFromChain 使用 rpcURL 从链上 IDL 账户获取
func FetchFromChain(ctx context.Context, program types.Pubkey, rpcURL string) (*idl.Document, error) {
	return NewFetcher(rpcURL).Retrieve(ctx, OnChain(program))
}

// LoadFromFile 从本地 JSON 文件加载
func LoadFromFile(path string) (*idl.Document, error) {
	f := &Fetcher{files: OSFileReader{}}
	return f.loadFromFile(path)
}

// FetchFromURL 从远程 URL 获取，URL 需指向原始 JSON（GitHub 页面地址请先经过 NormalizeGithubURL）
func FetchFromURL(ctx context.Context, url string) (*idl.Document, error) {
	f := &Fetcher{http: NewHttpcGetter(), httpTimeout: consts.HttpFetchTimeout}
	return f.fetchFromURL(ctx, url)
}

package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"periscope-sol/internal/consts"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/zeromicro/go-zero/rest/httpc"
)

// AccountReader 读取链上账户数据。账户不存在时返回的错误文本需包含
// consts.AccountNotFoundMarkers 中的任一片段。
type AccountReader interface {
	GetAccountData(ctx context.Context, address string) ([]byte, error)
}

// HTTPGetter 发起 GET 请求，返回状态码与响应体
type HTTPGetter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// FileReader 读取本地文件，文件不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// RpcAccountReader 基于 blocto solana-go-sdk 的账户读取器
type RpcAccountReader struct {
	client *client.Client
}

func NewRpcAccountReader(endpoint string) *RpcAccountReader {
	return &RpcAccountReader{client: client.NewClient(endpoint)}
}

func (r *RpcAccountReader) GetAccountData(ctx context.Context, address string) ([]byte, error) {
	info, err := r.client.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, err
	}
	// 账户不存在时 SDK 返回零值而不是错误，这里按 RPC 的报错文本补上
	if info.Lamports == 0 && info.Owner == (common.PublicKey{}) && len(info.Data) == 0 {
		return nil, fmt.Errorf("AccountNotFound: could not find account %s", address)
	}
	return info.Data, nil
}

type timeoutReader struct {
	inner   AccountReader
	timeout time.Duration
}

// WithReadTimeout 为每次账户读取加上超时
func WithReadTimeout(r AccountReader, timeout time.Duration) AccountReader {
	return &timeoutReader{inner: r, timeout: timeout}
}

func (r *timeoutReader) GetAccountData(ctx context.Context, address string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.GetAccountData(ctx, address)
}

// HttpcGetter 基于 go-zero httpc 的 GET 实现，自带请求超时
type HttpcGetter struct {
	service httpc.Service
}

func NewHttpcGetter() *HttpcGetter {
	cli := &http.Client{Timeout: consts.HttpFetchTimeout}
	return &HttpcGetter{service: httpc.NewServiceWithClient("periscope-idl", cli)}
}

func (g *HttpcGetter) Get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.service.DoRequest(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// OSFileReader 直接读取本地文件系统
type OSFileReader struct{}

func (OSFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

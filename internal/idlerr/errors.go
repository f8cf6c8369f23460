package idlerr

import (
	"errors"
	"fmt"
)

// Kind 表示 IDL 获取流程中的错误类别
type Kind int

const (
	KindUnknown Kind = iota
	KindAddressDerivationFailed
	KindAccountNotFound
	KindEnvelopeTooSmall
	KindEmptyPayload
	KindPayloadTruncated
	KindDecompressionFailed
	KindInvalidUtf8
	KindParseFailed
	KindNetworkFailed
	KindHttpStatus
	KindFileNotFound
	KindRpcFailed
	KindConfigInvalid
	KindCacheFailed
)

func (k Kind) String() string {
	switch k {
	case KindAddressDerivationFailed:
		return "AddressDerivationFailed"
	case KindAccountNotFound:
		return "AccountNotFound"
	case KindEnvelopeTooSmall:
		return "EnvelopeTooSmall"
	case KindEmptyPayload:
		return "EmptyPayload"
	case KindPayloadTruncated:
		return "PayloadTruncated"
	case KindDecompressionFailed:
		return "DecompressionFailed"
	case KindInvalidUtf8:
		return "InvalidUtf8"
	case KindParseFailed:
		return "ParseFailed"
	case KindNetworkFailed:
		return "NetworkFailed"
	case KindHttpStatus:
		return "HttpStatus"
	case KindFileNotFound:
		return "FileNotFound"
	case KindRpcFailed:
		return "RpcFailed"
	case KindConfigInvalid:
		return "ConfigInvalid"
	case KindCacheFailed:
		return "CacheFailed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Error 是整个获取流程统一返回的错误类型，附带与类别相关的上下文字段
type Error struct {
	Kind Kind

	Program string // AccountNotFound
	Path    string // FileNotFound
	URL     string // HttpStatus
	Status  int    // HttpStatus

	Expected uint32 // PayloadTruncated: 头部声明的长度
	Actual   uint32 // PayloadTruncated: 实际剩余字节数

	Detail string
	Cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAddressDerivationFailed:
		return withCause("invalid program id", e)
	case KindAccountNotFound:
		return fmt.Sprintf("program %s does not have an IDL account", e.Program)
	case KindEnvelopeTooSmall:
		return "failed to decompress IDL data: account data too small for IDL header"
	case KindEmptyPayload:
		return "failed to decompress IDL data: IDL compressed data is empty"
	case KindPayloadTruncated:
		return fmt.Sprintf("failed to decompress IDL data: compressed data truncated: expected %d bytes, got %d",
			e.Expected, e.Actual)
	case KindDecompressionFailed:
		return "failed to decompress IDL data with both zlib and deflate"
	case KindInvalidUtf8:
		return "failed to decompress IDL data: decompressed data is not valid UTF-8"
	case KindParseFailed:
		return withCause("failed to parse IDL JSON", e)
	case KindNetworkFailed:
		return withCause("network error", e)
	case KindHttpStatus:
		return fmt.Sprintf("HTTP error %d: %s", e.Status, e.URL)
	case KindFileNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case KindRpcFailed:
		return withCause("RPC error", e)
	case KindConfigInvalid:
		return withCause("config error", e)
	case KindCacheFailed:
		return withCause("cache error", e)
	default:
		return withCause("unknown error", e)
	}
}

func withCause(prefix string, e *Error) string {
	msg := prefix
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按 Kind 比较，使 errors.Is(err, idlerr.ErrEmptyPayload) 这类判断成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// 用于 errors.Is 的哨兵值，只比较 Kind
var (
	ErrAddressDerivationFailed = &Error{Kind: KindAddressDerivationFailed}
	ErrAccountNotFound         = &Error{Kind: KindAccountNotFound}
	ErrEnvelopeTooSmall        = &Error{Kind: KindEnvelopeTooSmall}
	ErrEmptyPayload            = &Error{Kind: KindEmptyPayload}
	ErrPayloadTruncated        = &Error{Kind: KindPayloadTruncated}
	ErrDecompressionFailed     = &Error{Kind: KindDecompressionFailed}
	ErrInvalidUtf8             = &Error{Kind: KindInvalidUtf8}
	ErrParseFailed             = &Error{Kind: KindParseFailed}
	ErrNetworkFailed           = &Error{Kind: KindNetworkFailed}
	ErrHttpStatus              = &Error{Kind: KindHttpStatus}
	ErrFileNotFound            = &Error{Kind: KindFileNotFound}
	ErrRpcFailed               = &Error{Kind: KindRpcFailed}
	ErrConfigInvalid           = &Error{Kind: KindConfigInvalid}
	ErrCacheFailed             = &Error{Kind: KindCacheFailed}
)

// KindOf 取出错误链中第一个 *Error 的类别，不存在时返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func AddressDerivationFailed(cause error) error {
	return &Error{Kind: KindAddressDerivationFailed, Cause: cause}
}

func AccountNotFound(program string) error {
	return &Error{Kind: KindAccountNotFound, Program: program}
}

func EnvelopeTooSmall() error {
	return &Error{Kind: KindEnvelopeTooSmall}
}

func EmptyPayload() error {
	return &Error{Kind: KindEmptyPayload}
}

func PayloadTruncated(expected, actual uint32) error {
	return &Error{Kind: KindPayloadTruncated, Expected: expected, Actual: actual}
}

func DecompressionFailed() error {
	return &Error{Kind: KindDecompressionFailed}
}

func InvalidUtf8() error {
	return &Error{Kind: KindInvalidUtf8}
}

func ParseFailed(cause error) error {
	return &Error{Kind: KindParseFailed, Cause: cause}
}

func NetworkFailed(detail string, cause error) error {
	return &Error{Kind: KindNetworkFailed, Detail: detail, Cause: cause}
}

func HttpStatus(status int, url string) error {
	return &Error{Kind: KindHttpStatus, Status: status, URL: url}
}

func FileNotFound(path string) error {
	return &Error{Kind: KindFileNotFound, Path: path}
}

func RpcFailed(cause error) error {
	return &Error{Kind: KindRpcFailed, Cause: cause}
}

func ConfigInvalid(detail string, cause error) error {
	return &Error{Kind: KindConfigInvalid, Detail: detail, Cause: cause}
}

func CacheFailed(detail string, cause error) error {
	return &Error{Kind: KindCacheFailed, Detail: detail, Cause: cause}
}

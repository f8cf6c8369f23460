package consts

import (
	"runtime"
	"time"
)

// IdlSeed 是 Anchor 派生 IDL 账户地址时使用的 seed
const IdlSeed = "anchor:idl"

// IDL 账户头部布局（小端序）：
//
//	[0:8)   discriminator（忽略）
//	[8:40)  authority（忽略）
//	[40:44) u32 压缩数据长度
//	[44:)   压缩数据
const (
	IdlDiscriminatorSize = 8
	IdlAuthoritySize     = 32
	IdlDataLenSize       = 4
	IdlDataLenOffset     = IdlDiscriminatorSize + IdlAuthoritySize // 40
	IdlHeaderSize        = IdlDataLenOffset + IdlDataLenSize       // 44
)

// HttpFetchTimeout 是 URL 方式拉取 IDL 的固定超时
const HttpFetchTimeout = 30 * time.Second

// DefaultRpcURL 默认使用 mainnet-beta
const DefaultRpcURL = "https://api.mainnet-beta.solana.com"

// LegacySpecMarker 写入由旧格式转换而来的 Metadata.Spec
const LegacySpecMarker = "legacy"

// AccountNotFoundMarkers RPC 客户端报错文本中表示账户不存在的片段
var AccountNotFoundMarkers = []string{
	"AccountNotFound",
	"could not find account",
}

// CpuCount 表示逻辑 CPU 核心数，用于控制并发任务调度上限
var CpuCount = runtime.NumCPU()

package config

import (
	"periscope-sol/internal/consts"
	"periscope-sol/internal/pkg/logger"
)

type LogConfig struct {
	Format   string `json:",default=console"` // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:",optional"`        // 日志目录（可为相对路径或绝对路径），为空时只输出到 stderr
	Level    string `json:",default=info"`    // 日志级别：debug / info / warn / error
	Compress bool   `json:",optional"`        // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RpcConfig Solana RPC 配置
type RpcConfig struct {
	Endpoint         string `json:",default=https://api.mainnet-beta.solana.com"` // RPC 地址
	RequestTimeoutMs int    `json:",default=10000"`                               // 单次账户读取超时（毫秒）
}

// RedisConfig IDL 缓存使用的 Redis
type RedisConfig struct {
	Addr     string `json:",default=127.0.0.1:6379"`
	Password string `json:",optional"`
	DB       int    `json:",optional"`
	TTLSec   int    `json:",default=86400"` // IDL 缓存过期时间（秒）
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers    string `json:",default=127.0.0.1:9092"` // Kafka broker 地址，多个用英文逗号分隔
	BatchSize  int    `json:",optional"`               // 批处理大小（单位字节）
	LingerMs   int    `json:",default=5"`              // 批处理最大延迟（毫秒）
	Topic      string `json:",default=periscope-idl"`  // 规范格式 IDL 的 topic
	Partitions int    `json:",default=4"`              // topic 的分区数
}

// SyncConfig 驱动 IDL 同步服务
type SyncConfig struct {
	LogConf           LogConfig           `json:"Logger"`
	RpcConf           RpcConfig           `json:"Rpc"`
	RedisConf         RedisConfig         `json:"Redis"`
	KafkaProducerConf KafkaProducerConfig `json:"KafkaProducer"`

	Programs        []string `json:",optional"`     // 需要同步的程序地址（base58），为空时使用内置列表
	SyncIntervalSec int      `json:",default=300"`  // 同步周期（秒）
	Workers         int      `json:",optional"`     // 并发获取数，<= 0 时使用 CPU 核数
	SendTimeoutMs   int      `json:",default=5000"` // 单条消息发送到 Kafka 并等待 ack 的超时时间
}

// ProgramList 返回需要同步的程序地址
func (c *SyncConfig) ProgramList() []string {
	if len(c.Programs) > 0 {
		return c.Programs
	}
	return consts.KnownIdlPrograms
}

// WorkerCount 返回并发获取数
func (c *SyncConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return consts.CpuCount
}

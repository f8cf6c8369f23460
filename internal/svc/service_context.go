package svc

import (
	"time"

	"periscope-sol/internal/cache"
	"periscope-sol/internal/config"
	"periscope-sol/internal/logic/fetcher"
	"periscope-sol/internal/mq"
	"periscope-sol/internal/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// ServiceContext 包含 IDL 同步服务的资源
type ServiceContext struct {
	Config   config.SyncConfig
	Fetcher  *fetcher.Fetcher
	Redis    *redis.Client
	IdlStore *cache.RedisIdlStore
	Producer *kafka.Producer
}

// NewServiceContext 初始化 RPC 获取器、Redis 缓存与 Kafka 生产者
func NewServiceContext(c config.SyncConfig) (*ServiceContext, error) {
	producer, err := mq.NewKafkaProducer(c.KafkaProducerConf)
	if err != nil {
		logger.Errorf("Kafka producer 初始化失败: %v", err)
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisConf.Addr,
		Password: c.RedisConf.Password,
		DB:       c.RedisConf.DB,
	})

	ctx := &ServiceContext{
		Config:   c,
		Fetcher:  newFetcher(c.RpcConf),
		Redis:    rdb,
		IdlStore: cache.NewRedisIdlStore(rdb, time.Duration(c.RedisConf.TTLSec)*time.Second),
		Producer: producer,
	}

	logger.Infof("IDL 同步服务上下文初始化完成, rpc=%s redis=%s", c.RpcConf.Endpoint, c.RedisConf.Addr)
	return ctx, nil
}

func newFetcher(c config.RpcConfig) *fetcher.Fetcher {
	var reader fetcher.AccountReader = fetcher.NewRpcAccountReader(c.Endpoint)
	if c.RequestTimeoutMs > 0 {
		reader = fetcher.WithReadTimeout(reader, time.Duration(c.RequestTimeoutMs)*time.Millisecond)
	}
	return fetcher.NewFetcher(c.Endpoint, fetcher.WithAccountReader(reader))
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Flush(3000)
		ctx.Producer.Close()
	}
	if ctx.Redis != nil {
		if err := ctx.Redis.Close(); err != nil {
			logger.Warnf("Redis 关闭失败: %v", err)
		}
	}
}

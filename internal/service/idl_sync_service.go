package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"periscope-sol/internal/cache"
	"periscope-sol/internal/config"
	"periscope-sol/internal/idl"
	"periscope-sol/internal/idlerr"
	"periscope-sol/internal/logic/fetcher"
	"periscope-sol/internal/mq"
	"periscope-sol/internal/pkg/logger"
	"periscope-sol/internal/types"
)

// BatchRetriever 由 fetcher.Fetcher 实现
type BatchRetriever interface {
	RetrieveMany(ctx context.Context, sources []fetcher.Source, workers int) []fetcher.Result
}

// SyncStats 单轮同步的统计
type SyncStats struct {
	Fetched       int // 获取成功
	Failed        int // 获取失败
	Unchanged     int // 与缓存中一致，不再发送
	Published     int // 发送到 Kafka 成功
	PublishFailed int
}

// IdlSyncService 周期性获取程序 IDL，写入 Redis，变化时发送到 Kafka
type IdlSyncService struct {
	retriever   BatchRetriever
	store       cache.IdlCache
	producer    mq.Producer
	programs    []types.Pubkey
	topic       string
	partitions  int
	workers     int
	interval    time.Duration
	sendTimeout time.Duration
	stopChan    chan struct{}
	stopOnce    sync.Once
	ctx         context.Context
	cancel      func(err error)
}

func NewIdlSyncService(
	cfg *config.SyncConfig,
	retriever BatchRetriever,
	store cache.IdlCache,
	producer mq.Producer,
) (*IdlSyncService, error) {
	programs := make([]types.Pubkey, 0, len(cfg.ProgramList()))
	for _, s := range cfg.ProgramList() {
		program, err := types.TryPubkeyFromBase58(s)
		if err != nil {
			return nil, idlerr.ConfigInvalid("invalid program address "+s, err)
		}
		programs = append(programs, program)
	}
	if cfg.SyncIntervalSec <= 0 {
		return nil, idlerr.ConfigInvalid("SyncIntervalSec must be positive", nil)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	return &IdlSyncService{
		retriever:   retriever,
		store:       store,
		producer:    producer,
		programs:    programs,
		topic:       cfg.KafkaProducerConf.Topic,
		partitions:  cfg.KafkaProducerConf.Partitions,
		workers:     cfg.WorkerCount(),
		interval:    time.Duration(cfg.SyncIntervalSec) * time.Second,
		sendTimeout: time.Duration(cfg.SendTimeoutMs) * time.Millisecond,
		stopChan:    make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

func (s *IdlSyncService) Start() {
	if err := s.update(); err != nil {
		logger.Warnf("[IdlSyncService] 首次同步失败: %v", err)
	}
	s.scheduleNext()
	<-s.stopChan
}

func (s *IdlSyncService) scheduleNext() {
	time.AfterFunc(s.interval, func() {
		if s.ctx.Err() != nil {
			return
		}
		if err := s.update(); err != nil {
			logger.Warnf("[IdlSyncService] 周期性同步失败: %v", err)
		}
		select {
		case <-s.ctx.Done():
			return
		default:
			s.scheduleNext()
		}
	})
}

func (s *IdlSyncService) Stop() {
	s.stopOnce.Do(func() {
		s.cancel(errors.New("IdlSyncService stop"))
		close(s.stopChan)
	})
}

func (s *IdlSyncService) update() (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[IdlSyncService] update panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("update panic: %v", r)
		}
	}()

	stats := s.syncOnce(s.ctx)
	logger.Infof("[IdlSyncService] 同步完成, 成功=%d 失败=%d 未变化=%d 已发送=%d 发送失败=%d",
		stats.Fetched, stats.Failed, stats.Unchanged, stats.Published, stats.PublishFailed)
	if len(s.programs) > 0 && stats.Fetched == 0 {
		return fmt.Errorf("all %d programs failed", len(s.programs))
	}
	return nil
}

// syncOnce 获取全部程序，单个程序失败不影响其它程序
func (s *IdlSyncService) syncOnce(ctx context.Context) SyncStats {
	var stats SyncStats

	sources := make([]fetcher.Source, len(s.programs))
	for i, program := range s.programs {
		sources[i] = fetcher.OnChain(program)
	}

	start := time.Now()
	results := s.retriever.RetrieveMany(ctx, sources, s.workers)
	logger.Debugf("[IdlSyncService] 获取 %d 个程序 IDL, 耗时=%v", len(sources), time.Since(start))

	var jobs []*mq.KafkaJob
	for _, res := range results {
		program := res.Source.Program
		if res.Err != nil {
			stats.Failed++
			if idlerr.KindOf(res.Err) == idlerr.KindAccountNotFound {
				logger.Debugf("[IdlSyncService] 程序没有 IDL 账户, program=%s", program)
			} else {
				logger.Warnf("[IdlSyncService] 获取失败, program=%s err=%v", program, res.Err)
			}
			continue
		}
		stats.Fetched++

		changed := s.changed(ctx, program.String(), res.Document)
		if err := s.store.Set(ctx, program.String(), res.Document); err != nil {
			logger.Warnf("[IdlSyncService] 写入缓存失败, program=%s err=%v", program, err)
		}
		if !changed {
			stats.Unchanged++
			continue
		}

		job, err := mq.BuildIdlJob(s.topic, s.partitions, program, res.Document)
		if err != nil {
			logger.Errorf("[IdlSyncService] 序列化失败, program=%s err=%v", program, err)
			stats.PublishFailed++
			continue
		}
		jobs = append(jobs, job)
	}

	if len(jobs) == 0 || s.producer == nil {
		return stats
	}
	ok, failed := mq.SendKafkaJobs(ctx, s.producer, jobs, s.sendTimeout)
	for _, f := range failed {
		logger.Warnf("[IdlSyncService] 发送失败, program=%s err=%v", f.Job.Key, f.Err)
	}
	stats.Published += len(ok)
	stats.PublishFailed += len(failed)
	return stats
}

// changed 与缓存中的规范 JSON 比较；缓存不可用时视为有变化
func (s *IdlSyncService) changed(ctx context.Context, program string, doc *idl.Document) bool {
	prev, ok, err := s.store.Get(ctx, program)
	if err != nil || !ok {
		return true
	}
	a, err1 := prev.MarshalCanonical()
	b, err2 := doc.MarshalCanonical()
	if err1 != nil || err2 != nil {
		return true
	}
	return !bytes.Equal(a, b)
}

package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"periscope-sol/internal/config"
	"periscope-sol/internal/pkg/logger"
	"periscope-sol/internal/service"
	"periscope-sol/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/idlsync.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
		logger.Sync()
	}()

	flag.Parse()

	var c config.SyncConfig
	conf.MustLoad(*configFile, &c)

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		panic(err)
	}

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer serviceContext.Close()

	syncService, err := service.NewIdlSyncService(&c, serviceContext.Fetcher, serviceContext.IdlStore, serviceContext.Producer)
	if err != nil {
		panic(err)
	}

	sg := zerosvc.NewServiceGroup()
	sg.Add(syncService)

	logger.Infof("Starting idl sync service, programs=%d interval=%ds", len(c.ProgramList()), c.SyncIntervalSec)

	// ServiceGroup.Start 会阻塞，放到后台等待退出信号
	go sg.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Infof("Shutting down services...")
	sg.Stop()
}

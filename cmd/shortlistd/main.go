package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shortlist/internal/config"
	"shortlist/internal/daemon"
	"shortlist/internal/ipc"
	"shortlist/internal/logging"
	"shortlist/internal/task"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := task.Open(cfg)
	if err != nil {
		logger.Error("open task store", logging.Error(err))
		os.Exit(1)
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		os.Exit(1)
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, d, cancel, logger)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		os.Exit(1)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	logger.Info("shortlistd ready",
		logging.String("api", d.APIAddr()),
		logging.String("socket", cfg.Paths.SocketPath),
	)

	<-ctx.Done()
	logger.Info("shortlistd shutting down")
}

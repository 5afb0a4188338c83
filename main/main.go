// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Tommytrg/randomness-registry/config"
	"github.com/Tommytrg/randomness-registry/node"
	"github.com/Tommytrg/randomness-registry/utils/logging"
	"github.com/Tommytrg/randomness-registry/version"
)

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Printf("couldn't load config: %s\n", err)
		os.Exit(1)
	}

	if cfg.DisplayVersionAndExit {
		fmt.Println(version.String)
		os.Exit(0)
	}

	log := logging.NewLogger(config.AppName, cfg.LogLevel, os.Stdout)
	defer log.Stop()

	n, err := node.New(cfg, log)
	if err != nil {
		log.Fatal("couldn't create node",
			zap.Error(err),
		)
		os.Exit(1)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.Info("caught signal",
			zap.String("signal", sig.String()),
		)
		n.Shutdown()
	}()

	if err := n.Dispatch(); err != nil {
		log.Info("node dispatch returned",
			zap.Error(err),
		)
	}
}

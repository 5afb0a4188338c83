// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node assembles the randomness registry node: database, oracle
// bridge, instance factory, and the HTTP APIs exposing them.
package node

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Tommytrg/randomness-registry/api/health"
	"github.com/Tommytrg/randomness-registry/api/server"
	"github.com/Tommytrg/randomness-registry/config"
	"github.com/Tommytrg/randomness-registry/database"
	"github.com/Tommytrg/randomness-registry/database/leveldb"
	"github.com/Tommytrg/randomness-registry/database/memdb"
	"github.com/Tommytrg/randomness-registry/oracle"
	"github.com/Tommytrg/randomness-registry/oracle/oracletest"
	"github.com/Tommytrg/randomness-registry/registry"
	cjson "github.com/Tommytrg/randomness-registry/utils/json"
	"github.com/Tommytrg/randomness-registry/utils/logging"
)

const (
	healthCheckFreq = 30 * time.Second

	// In dev mode outstanding queries auto-resolve on this cadence.
	devResolveFreq = time.Second
)

// Node is the running randomness registry process.
type Node struct {
	log    logging.Logger
	config config.Config

	db      database.Database
	bridge  oracle.Bridge
	factory *registry.Factory

	health *health.Health
	server *server.Server

	shutdownOnce sync.Once
	closer       chan struct{}

	// Populated by Shutdown, read after Dispatch returns.
	shutdownErr error
}

// New assembles a node from [cfg] but does not start serving.
func New(cfg config.Config, log logging.Logger) (*Node, error) {
	n := &Node{
		log:    log,
		config: cfg,
		closer: make(chan struct{}),
	}

	registerer := prometheus.NewRegistry()

	if err := n.initDatabase(); err != nil {
		return nil, fmt.Errorf("couldn't initialize database: %w", err)
	}
	if err := n.initBridge(); err != nil {
		return nil, fmt.Errorf("couldn't initialize oracle bridge: %w", err)
	}
	if err := n.initFactory(registerer); err != nil {
		return nil, fmt.Errorf("couldn't initialize factory: %w", err)
	}
	if err := n.initHealth(registerer); err != nil {
		return nil, fmt.Errorf("couldn't initialize health: %w", err)
	}
	if err := n.initAPIServer(registerer); err != nil {
		return nil, fmt.Errorf("couldn't initialize API server: %w", err)
	}
	return n, nil
}

func (n *Node) initDatabase() error {
	switch n.config.DBBackend {
	case config.MemDB:
		n.db = memdb.New()
	case config.LevelDB:
		db, err := leveldb.New(n.config.DBPath)
		if err != nil {
			return err
		}
		n.db = db
	default:
		return fmt.Errorf("unknown database backend %q", n.config.DBBackend)
	}

	n.log.Info("database initialized",
		zap.String("backend", n.config.DBBackend),
		zap.String("path", n.config.DBPath),
	)
	return nil
}

func (n *Node) initBridge() error {
	if n.config.DevMode {
		bridge := oracletest.New()
		bridge.SetGasPrice(n.config.GasPrice)
		go n.autoResolve(bridge)
		n.bridge = bridge
		n.log.Info("dev mode enabled, using in-memory oracle")
		return nil
	}
	client, err := oracle.NewClient(n.config.OracleEndpoint)
	if err != nil {
		return err
	}
	n.bridge = client
	n.log.Info("oracle bridge initialized",
		zap.String("endpoint", n.config.OracleEndpoint),
	)
	return nil
}

// autoResolve periodically resolves every outstanding dev-mode query.
func (n *Node) autoResolve(bridge *oracletest.Bridge) {
	ticker := time.NewTicker(devResolveFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			bridge.ResolveAll()
		case <-n.closer:
			return
		}
	}
}

func (n *Node) initFactory(registerer prometheus.Registerer) error {
	positions, err := registry.NewClockSource(n.config.PositionGenesis, n.config.PositionInterval)
	if err != nil {
		return err
	}
	factory, err := registry.NewFactory(
		n.log,
		n.db,
		n.bridge,
		positions,
		n.config.OriginAddress,
		config.AppName,
		registerer,
	)
	n.factory = factory
	return err
}

func (n *Node) initHealth(registerer prometheus.Registerer) error {
	h, err := health.New(n.log, registerer)
	if err != nil {
		return err
	}
	n.health = h

	if err := h.RegisterCheck("database", func() (interface{}, error) {
		// A read of any key exercises the backend end to end.
		_, err := n.db.Has([]byte("health"))
		return nil, err
	}); err != nil {
		return err
	}
	return h.RegisterCheck("oracle", func() (interface{}, error) {
		fee, err := n.bridge.EstimateFee(n.config.GasPrice)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"estimatedFee": fee.String(),
		}, nil
	})
}

func (n *Node) initAPIServer(registerer *prometheus.Registry) error {
	n.server = server.New(n.log, n.config.HTTPHost, n.config.HTTPPort, []string{"*"})

	codec := cjson.NewCodec()
	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(codec, "application/json")
	rpcServer.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := rpcServer.RegisterService(registry.NewService(n.log, n.factory), "randreg"); err != nil {
		return err
	}

	n.server.AddRoute("randomness", rpcServer)
	n.server.AddRoute("health", n.health.Handler())
	n.server.AddRoute("metrics", promhttp.InstrumentMetricHandler(
		registerer,
		promhttp.HandlerFor(registerer, promhttp.HandlerOpts{}),
	))
	return nil
}

// Dispatch starts the node and blocks until Shutdown is called or the HTTP
// server fails.
func (n *Node) Dispatch() error {
	n.health.Start(healthCheckFreq)

	err := n.server.Dispatch()
	// Dispatch returning means the server stopped: either Shutdown closed
	// it, or it failed on its own and the node should come down too.
	n.Shutdown()
	if n.shutdownErr != nil {
		err = n.shutdownErr
	}
	return err
}

// Shutdown stops the node. Safe to call multiple times.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		n.log.Info("shutting down node")
		close(n.closer)
		n.health.Stop()
		if err := n.server.Shutdown(); err != nil {
			n.log.Debug("error during API shutdown",
				zap.Error(err),
			)
		}
		if err := n.db.Close(); err != nil {
			n.log.Warn("error closing database",
				zap.Error(err),
			)
			n.shutdownErr = err
		}
		n.log.Info("node shut down")
	})
}

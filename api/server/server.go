// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server maintains the node's HTTP router. Every API is mounted
// under /ext.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Tommytrg/randomness-registry/utils/logging"
)

const (
	baseURL               = "/ext"
	serverShutdownTimeout = 10 * time.Second
)

// Server maintains the HTTP router.
type Server struct {
	log    logging.Logger
	router *mux.Router

	listenHost string
	listenPort uint16

	srv *http.Server
}

// New creates the API server listening at the provided host and port.
func New(log logging.Logger, host string, port uint16, allowedOrigins []string) *Server {
	router := mux.NewRouter()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(router)

	server := &Server{
		log:        log,
		router:     router,
		listenHost: host,
		listenPort: port,
	}
	server.srv = &http.Server{
		Handler: gziphandler.GzipHandler(corsHandler),
	}
	return server
}

// AddRoute mounts [handler] at /ext/[endpoint].
func (s *Server) AddRoute(endpoint string, handler http.Handler) {
	url := baseURL + "/" + endpoint
	s.log.Info("adding route",
		zap.String("url", url),
	)
	s.router.Handle(url, handler)
}

// Dispatch starts the API server. It blocks until the server is shut down.
func (s *Server) Dispatch() error {
	listenAddress := fmt.Sprintf("%s:%d", s.listenHost, s.listenPort)
	listener, err := net.Listen("tcp", listenAddress)
	if err != nil {
		return err
	}

	s.log.Info("HTTP API server listening",
		zap.String("address", listener.Addr().String()),
	)
	return s.srv.Serve(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus counters for import runs.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matrix_import"

var (
	RecordsInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_inserted_total",
		Help:      "Expression records written to the store.",
	})
	BatchesFlushed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batches_flushed_total",
		Help:      "Bulk insert calls issued.",
	})
	DirectoriesLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directories_loaded_total",
		Help:      "Matrix directories fully loaded.",
	})
	FilesCopied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_copied_total",
		Help:      "Auxiliary files copied to the static directory.",
	}, []string{"file"})
)

func init() {
	prometheus.MustRegister(RecordsInserted)
	prometheus.MustRegister(BatchesFlushed)
	prometheus.MustRegister(DirectoriesLoaded)
	prometheus.MustRegister(FilesCopied)
}

// Server serves /metrics until Shutdown.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Serve starts an HTTP listener on addr exposing the default registry.
func Serve(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go s.srv.Serve(ln)
	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Shutdown stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Copyright 2026 The rinaproto Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rinaproto/rina/normal/config"
	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/ipcp"
	"github.com/rinaproto/rina/normal/mgmtapi"
	"github.com/rinaproto/rina/normal/neighbor"
	neighborgrpc "github.com/rinaproto/rina/normal/neighbor/grpc"
	libgrpc "github.com/rinaproto/rina/pkg/grpc"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/metrics"
	"github.com/rinaproto/rina/pkg/private/prom"
	"github.com/rinaproto/rina/pkg/private/serrors"
	"github.com/rinaproto/rina/private/app"
	"github.com/rinaproto/rina/private/app/launcher"
	"github.com/rinaproto/rina/private/periodic"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig: &globalCfg,
		ShortName:  "RINA normal IPC process",
		Main:       realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	cfg := globalCfg.IPCP
	features := cfg.FeatureSet()

	neighbors := &neighbor.Set{
		QueueSize:   cfg.QueueSize,
		SendTimeout: cfg.SendTimeout.Duration,
		Metrics:     neighborMetrics(),
	}
	defer neighbors.Close()

	proc := ipcp.New(ipcp.Config{
		Name:                cfg.Name,
		DIF:                 cfg.DIF,
		Address:             cfg.Address,
		SyncChunk:           cfg.SyncChunk,
		LocalOnlyUnregister: features.LocalOnlyUnregister,
		Neighbors:           neighbors,
		Metrics:             processMetrics(),
	})
	log.Info("IPC process created", "name", cfg.Name, "dif", cfg.DIF,
		"address", cfg.Address, "features", cfg.Features)

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return serrors.Wrap("listening for neighbors", err, "addr", cfg.Listen)
	}
	server := grpc.NewServer(
		grpc.ForceServerCodec(neighborgrpc.Codec{}),
		libgrpc.StreamServerInterceptor(),
		libgrpc.DefaultMaxConcurrentStreams(),
	)
	neighborgrpc.RegisterExchangeServer(server, &neighborgrpc.Server{Handler: proc})
	promgrpc.Register(server)

	var cleanup app.Cleanup
	g, errCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer log.HandlePanic()
		if err := server.Serve(listener); err != nil {
			return serrors.Wrap("serving neighbor transport", err, "addr", cfg.Listen)
		}
		return nil
	})
	cleanup.Add(func() error { server.GracefulStop(); return nil })

	dialer := &neighborgrpc.Dialer{
		Handler:        proc,
		RedialInterval: cfg.RedialInterval.Duration,
		DialOptions: []grpc.DialOption{
			libgrpc.StreamClientInterceptor(),
		},
	}
	for _, target := range cfg.Neighbors {
		g.Go(func() error {
			defer log.HandlePanic()
			dialer.Run(errCtx, target)
			return nil
		})
	}

	if interval := cfg.KeepaliveInterval(); interval > 0 {
		keepalive := periodic.StartWithMetrics(
			&neighbor.Keepaliver{
				Neighbors: neighbors,
				Pruner:    proc,
				Threshold: cfg.KeepaliveThreshold,
			},
			periodicMetrics("neighbor_keepalive"),
			interval,
			interval,
		)
		cleanup.Add(func() error { keepalive.Kill(); return nil })
	} else {
		log.Info("Keepalives disabled")
	}

	if globalCfg.API.Addr != "" {
		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		}))
		h := mgmtapi.Handler(&mgmtapi.Server{IPCP: proc}, r, "/api/v1")
		log.Info("Exposing API", "addr", globalCfg.API.Addr)
		mgmtServer := &http.Server{
			Addr:    globalCfg.API.Addr,
			Handler: h,
		}
		g.Go(func() error {
			defer log.HandlePanic()
			err := mgmtServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return serrors.Wrap("serving management API", err)
			}
			return nil
		})
		cleanup.Add(mgmtServer.Close)
	}

	g.Go(func() error {
		defer log.HandlePanic()
		return globalCfg.Metrics.ServePrometheus(errCtx)
	})

	g.Go(func() error {
		defer log.HandlePanic()
		<-errCtx.Done()
		return cleanup.Do()
	})

	return g.Wait()
}

func processMetrics() ipcp.Metrics {
	return ipcp.Metrics{
		Inbound: metrics.NewPromCounter(prom.NewCounterVec("normal", "ipcp",
			"inbound_messages_total",
			"Inbound neighbor messages by object class and result.",
			[]string{prom.LabelObjClass, prom.LabelResult},
		)),
		Directory: dft.Metrics{
			Registrations: metrics.NewPromCounter(prom.NewCounterVec("normal", "dft",
				"registrations_total",
				"Local registrations and unregistrations by result.",
				[]string{prom.LabelOperation, prom.LabelResult},
			)),
			Updates: metrics.NewPromCounter(prom.NewCounterVec("normal", "dft",
				"update_entries_total",
				"Entries of inbound directory updates by operation and result.",
				[]string{prom.LabelOperation, prom.LabelResult},
			)),
			Entries: metrics.NewPromGauge(prom.NewGaugeVec("normal", "dft",
				"entries",
				"Number of entries in the directory.",
				[]string{},
			)),
		},
	}
}

func neighborMetrics() neighbor.Metrics {
	return neighbor.Metrics{
		Sent: metrics.NewPromCounter(prom.NewCounterVec("normal", "neighbor",
			"sent_messages_total",
			"Outbound neighbor messages by neighbor, object class and result.",
			[]string{prom.LabelNeighbor, prom.LabelObjClass, prom.LabelResult},
		)),
		Neighbors: metrics.NewPromGauge(prom.NewGaugeVec("normal", "neighbor",
			"neighbors",
			"Number of neighbors by state.",
			[]string{"state"},
		)),
		Pruned: metrics.NewPromCounter(prom.NewCounterVec("normal", "neighbor",
			"pruned_total",
			"Neighbors pruned after missing keepalives.",
			[]string{},
		)),
	}
}

func periodicMetrics(task string) *periodic.Metrics {
	events := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "normal",
		Subsystem: "periodic",
		Name:      "events_total",
		Help:      "Events of periodic tasks.",
	}, []string{"task", "event_type"})
	gauge := func(name, help string) metrics.Gauge {
		return metrics.NewPromGauge(promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "normal",
			Subsystem: "periodic",
			Name:      name,
			Help:      help,
		}, []string{"task"})).With("task", task)
	}
	return &periodic.Metrics{
		Events: func(event string) metrics.Counter {
			return metrics.NewPromCounter(events).With("task", task, "event_type", event)
		},
		Period:    gauge("period_seconds", "Period of the task."),
		Runtime:   gauge("runtime_seconds", "Duration of the last run."),
		StartTime: gauge("start_time_seconds", "Unix time the task was started."),
	}
}

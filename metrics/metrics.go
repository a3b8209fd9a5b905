// Copyright 2025 The argon Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exposes the connection's frame and byte counters as
// Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssorj/argon/common"
)

// Registry holds one connection's counters, each registered under its
// own prometheus.Registerer so a process driving multiple connections
// can run one Registry per connection without name collisions.
type Registry struct {
	reg *prometheus.Registry

	FramesSent     prometheus.Counter
	FramesReceived prometheus.Counter
	BytesSent      prometheus.Counter
	BytesReceived  prometheus.Counter
	Errors         prometheus.Counter

	BuildInfo *prometheus.GaugeVec
}

// New builds a Registry with a fresh prometheus.Registry and registers
// common.GetBuildInfo() as a label set on BuildInfo at startup.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Registry{
		reg: reg,
		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "frames_sent_total",
			Help:      "AMQP frames emitted on this connection",
		}),
		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "frames_received_total",
			Help:      "AMQP frames parsed from this connection",
		}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "bytes_sent_total",
			Help:      "Octets written to the socket, including the protocol header",
		}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "bytes_received_total",
			Help:      "Octets read from the socket, including the protocol header",
		}),
		Errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "handler_errors_total",
			Help:      "Frame handler errors that aborted the connection",
		}),
		BuildInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "build_info",
			Help:      "Build information",
		}, []string{"version", "git_hash", "build_time"}),
	}

	info := common.GetBuildInfo()
	r.BuildInfo.WithLabelValues(info.Version, info.GitHash, info.Time).Set(1)

	return r
}

// Handler returns the HTTP handler that exposes this Registry in the
// Prometheus text format, for wiring into an http.ServeMux at
// --metrics-addr.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

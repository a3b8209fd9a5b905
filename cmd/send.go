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

package cmd

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/common"
	"github.com/ssorj/argon/config"
	"github.com/ssorj/argon/endpoint"
	"github.com/ssorj/argon/internal/sigs"
	"github.com/ssorj/argon/logger"
	"github.com/ssorj/argon/message"
	"github.com/ssorj/argon/metrics"
	"github.com/ssorj/argon/transport"
)

var sendConfig struct {
	ConfigPath  string
	MetricsAddr string
	Timeout     time.Duration
}

// sendCmd drives the whole handshake from one goroutine: the run loop
// in transport.Run is the only thing ever touching the connection, and
// the send itself happens from inside the Flow callback it invokes, the
// one form of reentrancy the transport documents as safe. A second,
// unrelated goroutine only watches for a termination signal or the
// --timeout deadline and asks the loop to stop.
var sendCmd = &cobra.Command{
	Use:     "send HOST PORT ADDRESS BODY",
	Short:   "Open one connection, attach one sending link, and send one message",
	Args:    cobra.ExactArgs(4),
	Example: "# argon send localhost 5672 examples 'hello, world'",
	RunE: func(cmd *cobra.Command, args []string) error {
		host, addr, body := args[0], args[2], args[3]

		opts := common.NewOptions()
		opts.Merge("port", args[1])
		port, err := opts.GetUint16("port")
		if err != nil {
			return fmt.Errorf("parsing PORT %q: %w", args[1], err)
		}

		settings := config.Defaults()
		if sendConfig.ConfigPath != "" {
			loaded, err := config.LoadSettings(sendConfig.ConfigPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			settings = loaded
		}
		logger.SetOptions(settings.Logger)

		reg := metrics.New()
		if sendConfig.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", reg.Handler())
			srv := &http.Server{Addr: sendConfig.MetricsAddr, Handler: mux}
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Errorf("metrics server: %v", err)
				}
			}()
			defer srv.Close()
		}

		hostPort := net.JoinHostPort(host, strconv.Itoa(int(port)))
		quantum := time.Duration(settings.PollQuantum) * time.Millisecond
		t, err := transport.Dial(hostPort, quantum, settings.MaxFrameSize, reg)
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", hostPort, err)
		}

		conn := endpoint.NewConnection(t)
		stop := make(chan struct{})
		var stopOnce sync.Once
		requestStop := func() { stopOnce.Do(func() { close(stop) }) }

		conn.OnOpen = func(o endpoint.Open) {
			logger.Infof("connection opened by %s", o.ContainerID)
		}
		conn.OnClose = requestStop

		if err := conn.Open(); err != nil {
			return err
		}
		sess := conn.Session()
		if err := sess.Begin(); err != nil {
			return err
		}
		link := sess.Link(addr)

		sent := false
		var sendErr error
		link.OnFlow = func(f endpoint.Flow) {
			if sent || link.Credit() == 0 {
				return
			}
			sent = true

			c := codec.New()
			m := message.New()
			m.SetPropertyField(2, codec.String(addr)) // "to"
			m.SetBody(codec.String(body))

			if err := link.Send(c, m); err != nil {
				sendErr = err
				requestStop()
				return
			}
			if err := conn.Close(); err != nil {
				sendErr = err
				requestStop()
			}
		}
		if err := link.Attach(); err != nil {
			return err
		}

		if sendConfig.Timeout > 0 {
			timer := time.AfterFunc(sendConfig.Timeout, requestStop)
			defer timer.Stop()
		}
		go func() {
			select {
			case <-sigs.Terminate():
				requestStop()
			case <-stop:
			}
		}()

		if err := t.Run(conn, stop); err != nil {
			return err
		}
		return sendErr
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendConfig.ConfigPath, "config", "", "Configuration file path")
	sendCmd.Flags().StringVar(&sendConfig.MetricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics on, e.g. :9469")
	sendCmd.Flags().DurationVar(&sendConfig.Timeout, "timeout", 30*time.Second, "Give up if the handshake and send haven't finished by this deadline")
	rootCmd.AddCommand(sendCmd)
}

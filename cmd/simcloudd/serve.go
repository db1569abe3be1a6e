// Copyright 2026 The SimCloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"go.opencensus.io/trace"
	"simcloud.dev/api"
	"simcloud.dev/config"
	"simcloud.dev/figma"
	"simcloud.dev/gcstorage"
	"simcloud.dev/internal/store"
	"simcloud.dev/server"
	"simcloud.dev/server/health"
	"simcloud.dev/server/health/storehealth"
	"simcloud.dev/server/requestlog"
	"simcloud.dev/youtube"
)

type serveCmd struct {
	configPath string
	addr       string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the simulated vendor APIs over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-config config.yaml] [-addr :8080]:
  Serve the simulated Cloud Storage, YouTube and Figma APIs.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to YAML configuration file")
	f.StringVar(&c.addr, "addr", "", "listen address (overrides config)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			log.Print(err)
			return subcommands.ExitFailure
		}
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}

	checker := storehealth.New()
	st := store.New()
	if cfg.FixturePath != "" {
		var err error
		if st, err = store.LoadFile(cfg.FixturePath); err != nil {
			checker.SetError(err)
			log.Printf("loading fixture: %v", err)
			return subcommands.ExitFailure
		}
	}
	checker.SetStore(st)

	handler := api.NewHandler(
		gcstorage.NewService(st, nil),
		youtube.NewService(st, nil),
		figma.NewService(st, nil),
	)

	var reqlog requestlog.Logger
	switch cfg.LogFormat {
	case "json":
		reqlog = requestlog.NewJSONLogger(os.Stderr, func(err error) { log.Printf("request log: %v", err) })
	default:
		reqlog = requestlog.NewNCSALogger(os.Stderr, func(err error) { log.Printf("request log: %v", err) })
	}

	srv := server.New(&server.Options{
		RequestLogger:         reqlog,
		HealthChecks:          []health.Checker{checker},
		DefaultSamplingPolicy: trace.ProbabilitySampler(cfg.TraceFraction),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(cfg.Addr, handler) }()
	log.Printf("listening on %s", cfg.Addr)

	select {
	case err := <-errc:
		log.Printf("server: %v", err)
		return subcommands.ExitFailure
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if cfg.SavePath != "" {
		if err := st.SaveFile(cfg.SavePath); err != nil {
			log.Printf("saving store: %v", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "store saved to %s\n", cfg.SavePath)
	}
	return subcommands.ExitSuccess
}

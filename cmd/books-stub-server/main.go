/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nscaledev/books-api-tests/pkg/server"
)

func main() {
	var options server.Options

	options.AddFlags(pflag.CommandLine)

	logLevel := zap.LevelFlag("log-level", zapcore.InfoLevel, "Minimum log level, debug enables access logs")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(*logLevel)

	zapLog, err := config.Build()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer func() {
		_ = zapLog.Sync()
	}()

	logger := zapr.NewLogger(zapLog).WithName("books-stub-server")
	logger.Info("service starting", "emulateKnownDefects", options.Handler.EmulateKnownDefects)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := server.New(&options, logger)
	if err != nil {
		logger.Error(err, "failed to create server")
		os.Exit(1)
	}

	if err := s.Run(ctx); err != nil {
		logger.Error(err, "server failed")
		os.Exit(1)
	}
}

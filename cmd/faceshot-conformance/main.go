/*
Copyright 2026 the FaceShot ChopShop Authors.

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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/config"
	"github.com/faceshot-chopshop/conformance/pkg/constants"
	"github.com/faceshot-chopshop/conformance/pkg/contract"
	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/report"
	"github.com/faceshot-chopshop/conformance/pkg/runner"
	"github.com/faceshot-chopshop/conformance/pkg/session"
	"github.com/faceshot-chopshop/conformance/pkg/steps"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const (
	exitFailed        = 1
	exitInvalidConfig = 2
)

func main() {
	cfg := config.Load()

	if code, ok := parse(cfg, os.Args[1:], os.Stdout, os.Stderr); !ok {
		os.Exit(code)
	}

	log.SetLogger(zap.New(zap.UseDevMode(cfg.DebugLogging), zap.WriteTo(os.Stderr)))

	logger := log.Log.WithName("init")

	if err := cfg.Validate(); err != nil {
		logger.Error(err, "invalid configuration")
		os.Exit(exitInvalidConfig)
	}

	logger.Info("conformance run starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision, "baseURL", cfg.BaseURL)

	ctx := log.IntoContext(cr.SetupSignalHandler(), log.Log)

	code, err := run(ctx, cfg, os.Stdout)
	if err != nil {
		logger.Error(err, "conformance run failed")
	}

	os.Exit(code)
}

// parse applies command line arguments to cfg. When the process should stop
// without running, it returns false with the exit code to use.
func parse(cfg *config.Config, args []string, stdout, stderr io.Writer) (int, bool) {
	flags := pflag.NewFlagSet(constants.Application, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [BASE_URL]\n", constants.Application)
		flags.PrintDefaults()
	}

	cfg.AddFlags(flags)

	version := flags.Bool("version", false, "Print the version and exit.")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0, false
		}

		return exitInvalidConfig, false
	}

	if *version {
		fmt.Fprintln(stdout, constants.VersionString())
		return 0, false
	}

	if flags.NArg() > 1 {
		flags.Usage()
		return exitInvalidConfig, false
	}

	if flags.NArg() == 1 {
		cfg.BaseURL = flags.Arg(0)
	}

	return 0, true
}

// run performs a single conformance run against cfg.BaseURL, printing
// progress and the summary to out.
func run(ctx context.Context, cfg *config.Config, out io.Writer) (int, error) {
	state := session.New()
	record := ledger.New(report.Progress(out))

	options := []client.Option{
		client.WithTokenSource(state),
		client.WithRequestLogging(cfg.LogRequests, cfg.LogResponses),
	}

	if cfg.ValidateSchema {
		validator, err := contract.New(ctx, cfg.BaseURL)
		if err != nil {
			return exitInvalidConfig, err
		}

		options = append(options, client.WithValidator(validator))
	}

	api := client.New(cfg.BaseURL, cfg.RequestTimeout, options...)

	suite := steps.New(api, state, record, steps.Options{
		LoginEmail:     cfg.LoginEmail,
		LoginPassword:  cfg.LoginPassword,
		SignupPassword: cfg.SignupPassword,
		UploadType:     cfg.UploadType,
		PollInterval:   cfg.JobPollInterval,
		PollTimeout:    cfg.JobPollTimeout,
	})

	report.Banner(out, cfg.BaseURL)

	result := runner.New(suite, record).Run(ctx)

	report.Summary(out, result)

	if cfg.ReportFile != "" {
		if err := report.NewDocument(cfg.BaseURL, result, record.Outcomes()).WriteFile(cfg.ReportFile); err != nil {
			return exitFailed, err
		}
	}

	return result.ExitCode(), nil
}

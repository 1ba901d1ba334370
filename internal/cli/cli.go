package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/repartd/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("repartd", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
repartd - dependency-ordered execution engine for repartition queries.

Usage:
  repartd [options] [JOB_PATH]

Arguments:
  JOB_PATH
    Path to a single .hcl job file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	clusterFlag := flagSet.String("cluster", "cluster.hcl", "Path to the worker topology file or directory.")
	jobFlag := flagSet.String("job", "", "Path to the job file or directory.")
	sweepFlag := flagSet.Bool("sweep", false, "Drop all leftover job schemas on every worker and exit.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	maxParallelFlag := flagSet.Int("max-parallel", 16, "Maximum concurrent worker connections per task batch.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	jobPath := *jobFlag
	if jobPath == "" && flagSet.NArg() > 0 {
		jobPath = flagSet.Arg(0)
	}
	if jobPath == "" && !*sweepFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ClusterPath: *clusterFlag,
		JobPath:     jobPath,
		Sweep:       *sweepFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		MaxParallel: *maxParallelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/custodia-project/custodia/pkg/config"
	"github.com/custodia-project/custodia/pkg/errclass"
)

// loadConfig reads the configuration from the working directory, or exits.
func loadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		fmtErr("cannot get current directory: %v", err)
		os.Exit(errclass.ExitFailure)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		fmtErr("load config: %v", err)
		os.Exit(errclass.ExitFailure)
	}
	configureLogging(cfg.Logging.Level, cfg.Logging.Format)
	return cfg
}

func fmtErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "custodia: "+format+"\n", args...)
}

// exitErr prints the error and exits with its mapped code.
func exitErr(err error) {
	fmtErr("%v", err)
	os.Exit(errclass.ExitCode(err))
}

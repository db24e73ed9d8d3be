/*
Plannerd runs the planning-as-a-service HTTP daemon: clients submit a
Rocket-logistics problem file and get back the Graphplan-extracted plan.

Usage:

	plannerd [flags]

The flags are:

	-v, --version
		Give the current version of the planner and then exit.

	-c, --config FILE
		Load server, database, and planner settings from FILE (TOML). See
		internal/planconfig for the schema.

	-a, --listen ADDR
		Override the server.listen_addr setting from the config file.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/rocketplan/internal/planconfig"
	"github.com/dekarrin/rocketplan/internal/plannerd"
	"github.com/dekarrin/rocketplan/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitServerError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	configPath  *string = pflag.StringP("config", "c", "", "Path to a TOML config file")
	listenAddr  *string = pflag.StringP("listen", "a", "", "Override the configured listen address")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := planconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	srv, err := plannerd.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer srv.Close()

	if err := srv.ServeForever(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitServerError
		return
	}
}

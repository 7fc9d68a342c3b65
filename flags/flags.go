package flags

import (
	"os"
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp returns a cli application pre-configured for the meshx binary.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "meshx"
	app.Usage = "MeshX - The Immutable Global Device Mesh"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	return app
}

// CommonFlags returns the base set of CLI flags shared across commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to the node configuration file",
			Value: "~/.meshx/config.yaml",
		},
		cli.StringFlag{
			Name:  "datadir",
			Usage: "Data directory for the MeshX node",
			Value: "~/.meshx",
		},
		cli.StringFlag{
			Name:  "log.level",
			Usage: "Logging level (panic|fatal|error|warn|info|debug|trace)",
			Value: "info",
		},
		cli.BoolFlag{
			Name:  "fakenet",
			Usage: "Run against a local simulated mesh instead of a real network",
		},
		cli.IntFlag{
			Name:  "fakenet.size",
			Usage: "Number of simulated devices in the fakenet mesh",
			Value: 64,
		},
		cli.DurationFlag{
			Name:  "epoch.interval",
			Usage: "Interval between epoch advances in the local driver",
			Value: 10 * time.Second,
		},
	}
}

// StartFlags returns the flags specific to the start command.
func StartFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "earn-mode",
			Usage: "Contribute resources and earn MESHX",
		},
		cli.StringFlag{
			Name:  "tee-type",
			Usage: "TEE backend to attest with (sgx|trustzone|secure-enclave|sev)",
			Value: "sgx",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Hardware profile to declare (edge|workstation|datacenter)",
			Value: "workstation",
		},
	}
}

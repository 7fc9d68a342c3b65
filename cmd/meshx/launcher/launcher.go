package launcher

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/RealHaywoodJ/meshx-device-mesh/driver"
	"github.com/RealHaywoodJ/meshx-device-mesh/flags"
	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
	"github.com/RealHaywoodJ/meshx-device-mesh/meshx"
	"github.com/RealHaywoodJ/meshx-device-mesh/pop"
	"github.com/RealHaywoodJ/meshx-device-mesh/tee"
)

var app = flags.NewApp()

func init() {
	app.Flags = flags.CommonFlags()
	app.Commands = []cli.Command{
		{
			Name:   "start",
			Usage:  "Start the MeshX node",
			Flags:  flags.StartFlags(),
			Action: start,
		},
		{
			Name:   "status",
			Usage:  "Check node status",
			Action: status,
		},
		{
			Name:   "init",
			Usage:  "Initialize node configuration and identity",
			Flags:  flags.StartFlags(),
			Action: initNode,
		},
		{
			Name:   "version",
			Usage:  "Show version information",
			Action: version,
		},
	}
}

// Launch parses the command line and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}

func setLogLevel(level string) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(l)
	return nil
}

// expandPath resolves a leading "~" against the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// loadConfig reads the configured file if it exists, falling back to
// defaults otherwise.
func loadConfig(ctx *cli.Context) Config {
	path := expandPath(ctx.GlobalString("config"))
	cfg, err := LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("Failed to load config, using defaults")
		}
		return DefaultConfig()
	}
	return cfg
}

func start(ctx *cli.Context) error {
	if err := setLogLevel(ctx.GlobalString("log.level")); err != nil {
		return err
	}
	cfg := loadConfig(ctx)

	if !ctx.GlobalBool("fakenet") {
		return errors.New("real mesh transport is an external collaborator; run with --fakenet for the simulated mesh")
	}

	preset := ctx.String("preset")
	log.WithFields(log.Fields{
		"mode":   map[bool]string{true: "earning", false: "client"}[ctx.Bool("earn-mode")],
		"tee":    ctx.String("tee-type"),
		"preset": preset,
	}).Info("Starting MeshX node")

	rules := meshx.FakeNetRules()
	size := ctx.GlobalInt("fakenet.size")
	registry, err := buildFakeMesh(size, cfg.MinValidators)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"nodes":   registry.Len(),
		"network": rules.Name,
	}).Info("Connected to MeshX network")

	validator := pop.NewValidator(rules, registry)
	d := driver.New(validator, ctx.GlobalDuration("epoch.interval"), nil, nil)
	d.OnEpoch(func(epoch idx.Epoch, validators []nodepk.PubKey) {
		reportEpoch(registry, epoch, validators)
	})

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Press Ctrl+C to stop")
	err = d.Run(runCtx)
	if errors.Is(err, context.Canceled) {
		log.Info("Shutting down")
		return nil
	}
	return err
}

// reportEpoch logs the selected set and its shard distribution, the
// human-readable summary the node operator watches.
func reportEpoch(registry *pop.Registry, epoch idx.Epoch, validators []nodepk.PubKey) {
	counts := make(map[geo.Shard]int)
	for _, pk := range validators {
		if n, ok := registry.Node(pk); ok {
			counts[n.Shard]++
		}
	}
	fields := log.Fields{"epoch": epoch, "validators": len(validators)}
	for shard, count := range counts {
		fields[shard.String()] = count
	}
	log.WithFields(fields).Info("Epoch validator set")
}

func initNode(ctx *cli.Context) error {
	if err := setLogLevel(ctx.GlobalString("log.level")); err != nil {
		return err
	}

	teeType, err := tee.ParseType(ctx.String("tee-type"))
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	cfg.DataDir = ctx.GlobalString("datadir")
	cfg.TEEType = teeType
	cfg.Preset = ctx.String("preset")

	dataDir := expandPath(cfg.DataDir)
	log.WithField("datadir", dataDir).Info("Initializing MeshX node")

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}
	keyPath := filepath.Join(dataDir, "node.key")
	if _, err := os.Stat(keyPath); err == nil {
		return fmt.Errorf("refusing to overwrite existing key at %s", keyPath)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(priv.Seed())), 0o600); err != nil {
		return err
	}

	cfg.NodeKey = nodepk.FromEd25519(pub).String()
	cfgPath := expandPath(ctx.GlobalString("config"))
	if err := cfg.Save(cfgPath); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"identity": cfg.NodeKey,
		"tee":      teeType,
		"config":   cfgPath,
	}).Info("Initialization complete, run 'meshx start' to begin")
	return nil
}

func status(ctx *cli.Context) error {
	cfg := loadConfig(ctx)
	fmt.Println("MeshX Node Status")
	fmt.Printf("   Version: %s\n", app.Version)
	fmt.Printf("   Network: %s\n", cfg.Network)
	if cfg.NodeKey == "" {
		fmt.Println("   Identity: not initialized (run 'meshx init')")
	} else {
		fmt.Printf("   Identity: %s\n", cfg.NodeKey)
	}
	fmt.Println("   Status: not running")
	fmt.Println()
	fmt.Println("Run 'meshx start --earn-mode' to begin earning.")
	return nil
}

func version(ctx *cli.Context) error {
	fmt.Printf("MeshX Node v%s\n", app.Version)
	fmt.Println("Protocol: PoP² (Proof of Physical Presence)")
	fmt.Printf("Networks: main=%#x test=%#x fake=%#x\n",
		meshx.MainNetworkID, meshx.TestNetworkID, meshx.FakeNetworkID)
	return nil
}

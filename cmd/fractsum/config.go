package main

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
)

type hashConfig struct {
	Bits      int    `toml:"bits"`
	Binary    bool   `toml:"binary"`
	Tag       bool   `toml:"tag"`
	Multibase string `toml:"multibase"`
	Jobs      int    `toml:"jobs"`
}

type checkConfig struct {
	Quiet  bool `toml:"quiet"`
	Status bool `toml:"status"`
	Warn   bool `toml:"warn"`
	Strict bool `toml:"strict"`
}

type benchConfig struct {
	Size       int  `toml:"size"`
	Iterations int  `toml:"iterations"`
	Bits       int  `toml:"bits"`
	Chunked    bool `toml:"chunked"`
	Chunk      int  `toml:"chunk"`
	Compare    bool `toml:"compare"`
}

type fractsumConfig struct {
	Hash  hashConfig  `toml:"hash"`
	Check checkConfig `toml:"check"`
	Bench benchConfig `toml:"bench"`
}

func defaultConfig() fractsumConfig {
	return fractsumConfig{
		Hash: hashConfig{
			Bits: 256,
			Jobs: runtime.GOMAXPROCS(0),
		},
		Bench: benchConfig{
			Size:       1 << 20,
			Iterations: 100,
			Bits:       256,
			Chunk:      4096,
		},
	}
}

var errUnknownConfigKeys = errors.New("unknown config keys")

// loadConfig builds the effective configuration: defaults, then the TOML file
// named by --config, then any flag set explicitly on the command line.
func loadConfig(ctx *cli.Context) (fractsumConfig, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFlag.Name); file != "" {
		md, err := toml.DecodeFile(file, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", file, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, fmt.Errorf("config %s: %w: %s", file, errUnknownConfigKeys, strings.Join(keys, ", "))
		}
		log.Debugw("Loaded config file", "path", file)
	}
	applyFlags(ctx, &cfg)
	return cfg, cfg.validate()
}

func applyFlags(ctx *cli.Context, cfg *fractsumConfig) {
	if ctx.IsSet(bits512Flag.Name) {
		cfg.Hash.Bits = bitsFor(ctx.Bool(bits512Flag.Name))
	}
	if ctx.IsSet(binaryFlag.Name) {
		cfg.Hash.Binary = ctx.Bool(binaryFlag.Name)
	}
	if ctx.IsSet(tagFlag.Name) {
		cfg.Hash.Tag = ctx.Bool(tagFlag.Name)
	}
	if ctx.IsSet(multibaseFlag.Name) {
		cfg.Hash.Multibase = ctx.String(multibaseFlag.Name)
	}
	if ctx.IsSet(jobsFlag.Name) {
		cfg.Hash.Jobs = ctx.Int(jobsFlag.Name)
	}

	if ctx.IsSet(quietFlag.Name) {
		cfg.Check.Quiet = ctx.Bool(quietFlag.Name)
	}
	if ctx.IsSet(statusFlag.Name) {
		cfg.Check.Status = ctx.Bool(statusFlag.Name)
	}
	if ctx.IsSet(warnFlag.Name) {
		cfg.Check.Warn = ctx.Bool(warnFlag.Name)
	}
	if ctx.IsSet(strictFlag.Name) {
		cfg.Check.Strict = ctx.Bool(strictFlag.Name)
	}

	if ctx.IsSet(benchSizeFlag.Name) {
		cfg.Bench.Size = ctx.Int(benchSizeFlag.Name)
	}
	if ctx.IsSet(benchIterFlag.Name) {
		cfg.Bench.Iterations = ctx.Int(benchIterFlag.Name)
	}
	if ctx.IsSet(bench512Flag.Name) {
		cfg.Bench.Bits = bitsFor(ctx.Bool(bench512Flag.Name))
	}
	if ctx.IsSet(benchChunkedFlag.Name) {
		cfg.Bench.Chunked = ctx.Bool(benchChunkedFlag.Name)
	}
	if ctx.IsSet(benchChunkFlag.Name) {
		cfg.Bench.Chunk = ctx.Int(benchChunkFlag.Name)
	}
	if ctx.IsSet(benchCompareFlag.Name) {
		cfg.Bench.Compare = ctx.Bool(benchCompareFlag.Name)
	}
}

func bitsFor(wide bool) int {
	if wide {
		return 512
	}
	return 256
}

func (c fractsumConfig) validate() error {
	for _, bits := range []int{c.Hash.Bits, c.Bench.Bits} {
		if bits != 256 && bits != 512 {
			return fmt.Errorf("invalid digest size %d, want 256 or 512", bits)
		}
	}
	if c.Hash.Jobs < 1 {
		return fmt.Errorf("invalid job count %d", c.Hash.Jobs)
	}
	if c.Bench.Size < 0 || c.Bench.Iterations < 1 || c.Bench.Chunk < 1 {
		return fmt.Errorf("invalid bench settings: size=%d iterations=%d chunk=%d",
			c.Bench.Size, c.Bench.Iterations, c.Bench.Chunk)
	}
	return nil
}

var dumpConfigCommand = &cli.Command{
	Name:   "dumpconfig",
	Usage:  "Show the effective configuration as TOML",
	Action: dumpConfig,
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return toml.NewEncoder(ctx.App.Writer).Encode(cfg)
}

// fractsum prints or checks FRACT-256 and FRACT-512 checksums, in the manner
// of sha256sum.
package main

import (
	"errors"
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
)

const version = "0.1.0"

var log = logging.Logger("fractsum")

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "TOML configuration file",
		EnvVars: []string{"FRACTSUM_CONFIG"},
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		EnvVars: []string{"FRACTSUM_LOG_LEVEL"},
	}
	bits512Flag = &cli.BoolFlag{
		Name:    "512",
		Aliases: []string{"5"},
		Usage:   "Produce or expect 512-bit digests",
	}
	binaryFlag = &cli.BoolFlag{
		Name:    "binary",
		Aliases: []string{"b"},
		Usage:   "Mark entries as binary ('*' before the file name)",
	}
	tagFlag = &cli.BoolFlag{
		Name:  "tag",
		Usage: "Create a BSD-style checksum",
	}
	multibaseFlag = &cli.StringFlag{
		Name:  "multibase",
		Usage: "Print digests as multihashes in this multibase encoding (e.g. base32)",
	}
	jobsFlag = &cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "Number of files hashed in parallel",
		EnvVars: []string{"FRACTSUM_JOBS"},
	}
	checkFlag = &cli.BoolFlag{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "Read checksums from the FILEs and check them",
	}
	quietFlag = &cli.BoolFlag{
		Name:  "quiet",
		Usage: "Don't print OK for each successfully verified file",
	}
	statusFlag = &cli.BoolFlag{
		Name:  "status",
		Usage: "Don't output anything, status code shows success",
	}
	warnFlag = &cli.BoolFlag{
		Name:    "warn",
		Aliases: []string{"w"},
		Usage:   "Warn about improperly formatted checksum lines",
	}
	strictFlag = &cli.BoolFlag{
		Name:  "strict",
		Usage: "Exit non-zero for improperly formatted checksum lines",
	}
)

// errSilent fails the run without printing anything (--status).
var errSilent = errors.New("silent failure")

func newApp() *cli.App {
	return &cli.App{
		Name:    "fractsum",
		Usage:   "print or check FRACT-256/512 checksums",
		Version: version,
		UsageText: "fractsum [options] [FILE]...\n" +
			"   fractsum --check [options] [FILE]...\n" +
			"   fractsum command [command options] [arguments...]",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			configFlag,
			logLevelFlag,
			bits512Flag,
			binaryFlag,
			tagFlag,
			multibaseFlag,
			jobsFlag,
			checkFlag,
			quietFlag,
			statusFlag,
			warnFlag,
			strictFlag,
		},
		Commands: []*cli.Command{
			benchCommand,
			avalancheCommand,
			permuteCommand,
			dumpConfigCommand,
		},
		Before: setupLogging,
		Action: fractsum,
		// run reports errors and picks the exit status; joined errors would
		// otherwise make cli call os.Exit itself.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func setupLogging(ctx *cli.Context) error {
	if !ctx.IsSet(logLevelFlag.Name) {
		return nil
	}
	return logging.SetLogLevel("fractsum", ctx.String(logLevelFlag.Name))
}

func fractsum(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	files := ctx.Args().Slice()
	if ctx.Bool(checkFlag.Name) {
		return checkFiles(ctx, cfg.Check, files)
	}
	if len(files) == 0 {
		if f, ok := ctx.App.Reader.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return cli.ShowAppHelp(ctx)
		}
		files = []string{"-"}
	}
	return hashFiles(ctx, cfg.Hash, files)
}

// run executes the app and returns the process exit status. Every error
// joined into the result is reported on its own line.
func run(app *cli.App, args []string) int {
	err := app.Run(args)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errSilent) {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(app.ErrWriter, "fractsum: %v\n", e)
		}
	}
	return 1
}

func main() {
	app := newApp()
	app.Reader, app.Writer, app.ErrWriter = os.Stdin, os.Stdout, os.Stderr
	os.Exit(run(app, os.Args))
}

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/Giulio2002/fract"
	"github.com/Giulio2002/fract/internal/checksum"
	"github.com/Giulio2002/fract/multihash"
)

var failedMark = color.New(color.FgRed, color.Bold).SprintFunc()

type checkStats struct {
	malformed  int
	unreadable int
	mismatched int
}

// expectedDigest decodes the digest column of a checksum entry. Hex digests
// select the mode by length (64 or 128 characters); anything else must be a
// multibase-encoded FRACT multihash.
func expectedDigest(e checksum.Entry) (int, []byte, error) {
	var want []byte
	switch len(e.Digest) {
	case 2 * fract.Size256, 2 * fract.Size512:
		if d, err := hex.DecodeString(e.Digest); err == nil {
			want = d
		}
	}
	if want == nil {
		_, digest, err := multihash.Parse(e.Digest)
		if err != nil {
			return 0, nil, checksum.ErrMalformed
		}
		want = digest
	}
	bits := 8 * len(want)
	if e.Algorithm != "" && e.Algorithm != algorithmName(bits) {
		return 0, nil, checksum.ErrMalformed
	}
	return bits, want, nil
}

// checkFiles verifies every checksum list and reports per-entry results.
func checkFiles(ctx *cli.Context, cfg checkConfig, lists []string) error {
	if len(lists) == 0 {
		lists = []string{stdinName}
	}
	var (
		stats checkStats
		errs  error
	)
	for _, list := range lists {
		if err := checkList(ctx, cfg, list, &stats); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", list, err))
		}
	}
	log.Debugw("Checked lists", "lists", len(lists), "malformed", stats.malformed,
		"unreadable", stats.unreadable, "mismatched", stats.mismatched)

	if stats.malformed > 0 {
		errs = appendWarning(ctx, cfg, errs, cfg.Strict,
			fmt.Errorf("WARNING: %d %s improperly formatted", stats.malformed, plural(stats.malformed, "line is", "lines are")))
	}
	if stats.unreadable > 0 {
		errs = appendWarning(ctx, cfg, errs, true,
			fmt.Errorf("WARNING: %d listed %s could not be read", stats.unreadable, plural(stats.unreadable, "file", "files")))
	}
	if stats.mismatched > 0 {
		errs = appendWarning(ctx, cfg, errs, true,
			fmt.Errorf("WARNING: %d computed %s did NOT match", stats.mismatched, plural(stats.mismatched, "checksum", "checksums")))
	}
	if errs != nil && cfg.Status {
		return errSilent
	}
	return errs
}

// appendWarning adds a fatal warning to errs, or prints a non-fatal one.
func appendWarning(ctx *cli.Context, cfg checkConfig, errs error, fatal bool, warning error) error {
	if fatal {
		return multierr.Append(errs, warning)
	}
	if !cfg.Status {
		fmt.Fprintf(ctx.App.ErrWriter, "fractsum: %v\n", warning)
	}
	return errs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func checkList(ctx *cli.Context, cfg checkConfig, list string, stats *checkStats) error {
	var r io.Reader = ctx.App.Reader
	if list != stdinName {
		f, err := os.Open(list)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	out, errOut := ctx.App.Writer, ctx.App.ErrWriter

	s := checksum.NewScanner(r)
	for s.Scan() {
		line := s.Line()
		bits, want, err := 0, []byte(nil), line.Err
		if err == nil {
			bits, want, err = expectedDigest(line.Entry)
		}
		if err != nil {
			stats.malformed++
			if cfg.Warn && !cfg.Status {
				fmt.Fprintf(errOut, "fractsum: %s: %d: improperly formatted FRACT checksum line\n", list, line.Number)
			}
			continue
		}

		name := line.Entry.Name
		got, err := digestFile(ctx.App.Reader, name, bits)
		if err != nil {
			stats.unreadable++
			if !cfg.Status {
				fmt.Fprintf(errOut, "fractsum: %s: %v\n", name, err)
				fmt.Fprintf(out, "%s: %s open or read\n", name, failedMark("FAILED"))
			}
			continue
		}
		if !bytes.Equal(got, want) {
			stats.mismatched++
			if !cfg.Status {
				fmt.Fprintf(out, "%s: %s\n", name, failedMark("FAILED"))
			}
			continue
		}
		if !cfg.Quiet && !cfg.Status {
			fmt.Fprintf(out, "%s: OK\n", name)
		}
	}
	return s.Err()
}

package main

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"time"

	mbase "github.com/multiformats/go-multibase"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/Giulio2002/fract"
	"github.com/Giulio2002/fract/internal/checksum"
	"github.com/Giulio2002/fract/multihash"
)

// stdinName is the file name that stands for standard input.
const stdinName = "-"

func algorithmName(bits int) string {
	return fmt.Sprintf("FRACT-%d", bits)
}

func newHash(bits int) hash.Hash {
	if bits == 512 {
		return fract.New512()
	}
	return fract.New256()
}

// digestFile streams the named file (or stdin for "-") through a fresh hasher.
func digestFile(stdin io.Reader, name string, bits int) ([]byte, error) {
	start := time.Now()
	r := stdin
	if name != stdinName {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	h := newHash(bits)
	n, err := io.Copy(h, r)
	if err != nil {
		return nil, err
	}
	log.Debugw("Hashed input", "name", name, "bits", bits, "bytes", n, "elapsed", time.Since(start))
	return h.Sum(nil), nil
}

type hashResult struct {
	digest []byte
	err    error
}

// hashFiles prints one checksum line per file, in argument order. Files are
// hashed concurrently with one engine each; stdin is read inline.
func hashFiles(ctx *cli.Context, cfg hashConfig, files []string) error {
	if cfg.Multibase != "" {
		if _, err := mbase.EncoderByName(cfg.Multibase); err != nil {
			return err
		}
	}
	results := make([]hashResult, len(files))

	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	for i, name := range files {
		if name == stdinName {
			results[i].digest, results[i].err = digestFile(ctx.App.Reader, name, cfg.Bits)
			continue
		}
		g.Go(func() error {
			results[i].digest, results[i].err = digestFile(nil, name, cfg.Bits)
			return nil
		})
	}
	g.Wait()

	var errs error
	for i, name := range files {
		if err := results[i].err; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		line, err := formatLine(cfg, name, results[i].digest)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		fmt.Fprintln(ctx.App.Writer, line)
	}
	return errs
}

func formatLine(cfg hashConfig, name string, digest []byte) (string, error) {
	text := hex.EncodeToString(digest)
	if cfg.Multibase != "" {
		m, err := multihash.FromDigest(digest)
		if err != nil {
			return "", err
		}
		if text, err = multihash.Encode(m, cfg.Multibase); err != nil {
			return "", err
		}
	}
	style := checksum.Text
	switch {
	case cfg.Tag:
		style = checksum.Tag
	case cfg.Binary:
		style = checksum.Binary
	}
	return checksum.Format(style, algorithmName(8*len(digest)), text, name), nil
}

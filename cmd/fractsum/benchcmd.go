package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/Giulio2002/fract"
)

const benchWarmup = 10

var (
	benchCommand = &cli.Command{
		Name:   "bench",
		Usage:  "Run built-in throughput benchmarks",
		Action: bench,
		Flags: []cli.Flag{
			benchSizeFlag,
			benchIterFlag,
			bench512Flag,
			benchChunkedFlag,
			benchChunkFlag,
			benchCompareFlag,
		},
	}

	benchSizeFlag = &cli.IntFlag{
		Name:    "size",
		Aliases: []string{"s"},
		Usage:   "Test data size in bytes",
	}
	benchIterFlag = &cli.IntFlag{
		Name:    "iter",
		Aliases: []string{"i"},
		Usage:   "Number of timed iterations",
	}
	bench512Flag = &cli.BoolFlag{
		Name:    "512",
		Aliases: []string{"5"},
		Usage:   "Benchmark the 512-bit mode",
	}
	benchChunkedFlag = &cli.BoolFlag{
		Name:    "chunked",
		Aliases: []string{"c"},
		Usage:   "Feed the data incrementally instead of in one call",
	}
	benchChunkFlag = &cli.IntFlag{
		Name:  "chunk",
		Usage: "Chunk size for --chunked",
	}
	benchCompareFlag = &cli.BoolFlag{
		Name:  "compare",
		Usage: "Also benchmark SHA3 and BLAKE2b at the same digest size",
	}
)

type benchCase struct {
	name   string
	method string
	sum    func([]byte) []byte
}

type benchResult struct {
	benchCase
	elapsed time.Duration
	digest  []byte
}

func fractCase(cfg benchConfig) benchCase {
	c := benchCase{name: algorithmName(cfg.Bits), method: "single-pass"}
	if !cfg.Chunked {
		if cfg.Bits == 512 {
			c.sum = func(b []byte) []byte { d := fract.Sum512(b); return d[:] }
		} else {
			c.sum = func(b []byte) []byte { d := fract.Sum256(b); return d[:] }
		}
		return c
	}
	c.method = fmt.Sprintf("chunked (%s)", humanize.IBytes(uint64(cfg.Chunk)))
	c.sum = func(b []byte) []byte {
		var h fract.Hasher
		for len(b) > 0 {
			n := min(cfg.Chunk, len(b))
			// A fresh hasher is only finalized below, so Update cannot fail.
			_ = h.Update(b[:n])
			b = b[n:]
		}
		if cfg.Bits == 512 {
			d, _ := h.Finalize512()
			return d[:]
		}
		d, _ := h.Finalize()
		return d[:]
	}
	return c
}

func compareCases(bits int) []benchCase {
	if bits == 512 {
		return []benchCase{
			{name: "SHA3-512", method: "single-pass", sum: func(b []byte) []byte { d := sha3.Sum512(b); return d[:] }},
			{name: "BLAKE2b-512", method: "single-pass", sum: func(b []byte) []byte { d := blake2b.Sum512(b); return d[:] }},
		}
	}
	return []benchCase{
		{name: "SHA3-256", method: "single-pass", sum: func(b []byte) []byte { d := sha3.Sum256(b); return d[:] }},
		{name: "BLAKE2b-256", method: "single-pass", sum: func(b []byte) []byte { d := blake2b.Sum256(b); return d[:] }},
	}
}

func runBench(c benchCase, data []byte, iterations int) benchResult {
	for i := 0; i < benchWarmup; i++ {
		c.sum(data)
	}
	r := benchResult{benchCase: c}
	start := time.Now()
	for i := 0; i < iterations; i++ {
		r.digest = c.sum(data)
	}
	r.elapsed = time.Since(start)
	return r
}

func bench(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	bc := cfg.Bench
	data := bytes.Repeat([]byte{'a'}, bc.Size)

	cases := []benchCase{fractCase(bc)}
	if bc.Compare {
		cases = append(cases, compareCases(bc.Bits)...)
	}
	log.Infow("Running benchmarks", "size", bc.Size, "iterations", bc.Iterations, "cases", len(cases))

	fmt.Fprintf(ctx.App.Writer, "Data size: %s, iterations: %d\n", humanize.IBytes(uint64(bc.Size)), bc.Iterations)

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Algorithm", "Method", "Total time", "Throughput", "ns/byte", "Cycles/byte @3GHz", "Last digest"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	total := float64(bc.Size) * float64(bc.Iterations)
	for _, c := range cases {
		r := runBench(c, data, bc.Iterations)
		secs := r.elapsed.Seconds()
		throughput, nsPerByte := "n/a", "n/a"
		cycles := "n/a"
		if total > 0 && secs > 0 {
			throughput = fmt.Sprintf("%.2f MiB/s", total/secs/(1<<20))
			ns := float64(r.elapsed.Nanoseconds()) / total
			nsPerByte = fmt.Sprintf("%.2f", ns)
			cycles = fmt.Sprintf("%.2f", ns*3)
		}
		table.Append([]string{
			r.name,
			r.method,
			r.elapsed.Round(time.Microsecond).String(),
			throughput,
			nsPerByte,
			cycles,
			hex.EncodeToString(r.digest[:8]),
		})
	}
	table.Render()
	return nil
}

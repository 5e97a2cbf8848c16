package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/Giulio2002/fract"
	"github.com/Giulio2002/fract/analysis"
)

var (
	avalancheCommand = &cli.Command{
		Name:      "avalanche",
		Usage:     "Compare the FRACT-256 digests of two strings bit by bit",
		ArgsUsage: "<text1> <text2>",
		Action:    avalanche,
	}
	permuteCommand = &cli.Command{
		Name:      "permute",
		Usage:     "Apply permutation rounds to an arbitrary state",
		ArgsUsage: "<word0> <word1> <word2> <word3>",
		Action:    permute,
		Flags:     []cli.Flag{roundsFlag, traceFlag},
	}

	roundsFlag = &cli.IntFlag{
		Name:  "rounds",
		Usage: "Number of Φ rounds to apply",
		Value: analysis.Rounds,
	}
	traceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "Print the state after every round",
	}
)

func avalanche(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("need exactly two strings as arguments")
	}
	a, b := []byte(ctx.Args().Get(0)), []byte(ctx.Args().Get(1))
	da, db := fract.Sum256(a), fract.Sum256(b)
	diff := analysis.BitDistance(da[:], db[:])

	out := ctx.App.Writer
	fmt.Fprintf(out, "%x  %q\n", da, a)
	fmt.Fprintf(out, "%x  %q\n", db, b)
	fmt.Fprintf(out, "%d of %d bits differ (%.1f%%)\n", diff, 8*fract.Size256, 100*float64(diff)/float64(8*fract.Size256))
	return nil
}

func parseState(args cli.Args) ([4]uint64, error) {
	var st [4]uint64
	if args.Len() != len(st) {
		return st, fmt.Errorf("need %d state words, got %d", len(st), args.Len())
	}
	for i := range st {
		w, err := strconv.ParseUint(args.Get(i), 0, 64)
		if err != nil {
			return st, fmt.Errorf("word %d: %w", i, err)
		}
		st[i] = w
	}
	return st, nil
}

func permute(ctx *cli.Context) error {
	st, err := parseState(ctx.Args())
	if err != nil {
		return err
	}
	rounds := ctx.Int(roundsFlag.Name)
	if rounds < 0 {
		return fmt.Errorf("invalid round count %d", rounds)
	}
	out := ctx.App.Writer
	e := analysis.FromState(st)
	for i := 1; i <= rounds; i++ {
		e.Round()
		if ctx.Bool(traceFlag.Name) {
			fmt.Fprintf(out, "round %d: %s\n", i, formatState(e.State()))
		}
	}
	fmt.Fprintln(out, formatState(e.State()))
	return nil
}

func formatState(st [4]uint64) string {
	return fmt.Sprintf("0x%016x 0x%016x 0x%016x 0x%016x", st[0], st[1], st[2], st[3])
}

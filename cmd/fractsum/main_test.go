package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/Giulio2002/fract"
	"github.com/Giulio2002/fract/multihash"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	stdout, stderr string
	code           int
}

func fractsumRun(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut
	code := run(app, append([]string{"fractsum"}, args...))
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func hex256(s string) string {
	d := fract.Sum256([]byte(s))
	return hex.EncodeToString(d[:])
}

func hex512(s string) string {
	d := fract.Sum512([]byte(s))
	return hex.EncodeToString(d[:])
}

func TestHashStdin(t *testing.T) {
	r := fractsumRun(t, "hello world\n")
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, "1aae9207e2b0b5dd4549a62ba79f1780c4167c7216ecb27269dcbe6b98a3e214  -\n", r.stdout)
}

func TestHashFilesKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha")
	b := writeFile(t, dir, "b.txt", "beta")
	missing := filepath.Join(dir, "missing.txt")

	r := fractsumRun(t, "", "--jobs", "2", a, missing, b)
	require.Equal(t, 1, r.code)
	require.Equal(t, hex256("alpha")+"  "+a+"\n"+hex256("beta")+"  "+b+"\n", r.stdout)
	require.Contains(t, r.stderr, "fractsum: "+missing+":")
}

func TestHashOutputStyles(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "data.bin", "payload")

	r := fractsumRun(t, "", "--512", "--binary", f)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, hex512("payload")+" *"+f+"\n", r.stdout)

	r = fractsumRun(t, "", "--tag", f)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, "FRACT-256 ("+f+") = "+hex256("payload")+"\n", r.stdout)
}

func TestHashMultibase(t *testing.T) {
	r := fractsumRun(t, "abc", "--multibase", "base32")
	require.Equal(t, 0, r.code, r.stderr)

	enc, name, ok := strings.Cut(strings.TrimSpace(r.stdout), "  ")
	require.True(t, ok)
	require.Equal(t, "-", name)
	code, digest, err := multihash.Parse(enc)
	require.NoError(t, err)
	require.Equal(t, multihash.FRACT_256, code)
	want := fract.Sum256([]byte("abc"))
	require.Equal(t, want[:], digest)

	r = fractsumRun(t, "abc", "--multibase", "base-nope")
	require.Equal(t, 1, r.code)
}

func TestCheckRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha")
	b := writeFile(t, dir, "b.txt", "beta")

	r := fractsumRun(t, "", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	sums := writeFile(t, dir, "SUMS", r.stdout)

	r = fractsumRun(t, "", "--check", sums)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, a+": OK\n"+b+": OK\n", r.stdout)

	r = fractsumRun(t, "", "--check", "--quiet", sums)
	require.Equal(t, 0, r.code, r.stderr)
	require.Empty(t, r.stdout)

	writeFile(t, dir, "b.txt", "tampered")
	r = fractsumRun(t, "", "--check", sums)
	require.Equal(t, 1, r.code)
	require.Equal(t, a+": OK\n"+b+": FAILED\n", r.stdout)
	require.Contains(t, r.stderr, "WARNING: 1 computed checksum did NOT match")

	r = fractsumRun(t, "", "--check", "--status", sums)
	require.Equal(t, 1, r.code)
	require.Empty(t, r.stdout)
	require.Empty(t, r.stderr)
}

func TestCheckSelectsModeByLength(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "f", "hello world")
	list := strings.Join([]string{
		hex512("hello world") + "  " + f,
		strings.ToUpper(hex256("hello world")) + " *" + f,
		"FRACT-512 (" + f + ") = " + hex512("hello world"),
	}, "\n")
	sums := writeFile(t, dir, "SUMS", list)

	r := fractsumRun(t, "", "--check", sums)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, strings.Repeat(f+": OK\n", 3), r.stdout)
}

func TestCheckMultihashEntry(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "f", "content")
	r := fractsumRun(t, "", "--512", "--multibase", "base58btc", f)
	require.Equal(t, 0, r.code, r.stderr)
	sums := writeFile(t, dir, "SUMS", r.stdout)

	r = fractsumRun(t, "", "--check", sums)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, f+": OK\n", r.stdout)
}

func TestCheckMalformedLines(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "f", "x")
	list := strings.Join([]string{
		"# comment",
		hex256("x") + "  " + f,
		"not-a-digest  " + f,
		"FRACT-512 (" + f + ") = " + hex256("x"),
		"lonely",
		strings.Repeat("g", 64) + "  " + f,
		strings.Repeat("zz", 64) + " *" + f,
	}, "\n")
	sums := writeFile(t, dir, "SUMS", list)

	r := fractsumRun(t, "", "--check", sums)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, f+": OK\n", r.stdout)
	require.Contains(t, r.stderr, "WARNING: 5 lines are improperly formatted")
	require.NotContains(t, r.stderr, "SUMS: 3:")

	r = fractsumRun(t, "", "--check", "--warn", sums)
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stderr, sums+": 3: improperly formatted FRACT checksum line")
	require.Contains(t, r.stderr, sums+": 4: improperly formatted FRACT checksum line")
	require.Contains(t, r.stderr, sums+": 5: improperly formatted FRACT checksum line")
	require.Contains(t, r.stderr, sums+": 6: improperly formatted FRACT checksum line")
	require.Contains(t, r.stderr, sums+": 7: improperly formatted FRACT checksum line")
	require.NotContains(t, r.stdout, "FAILED")

	r = fractsumRun(t, "", "--check", "--strict", sums)
	require.Equal(t, 1, r.code)
}

func TestCheckUnreadable(t *testing.T) {
	dir := t.TempDir()
	gone := filepath.Join(dir, "gone")
	sums := writeFile(t, dir, "SUMS", hex256("")+"  "+gone+"\n")

	r := fractsumRun(t, "", "--check", sums)
	require.Equal(t, 1, r.code)
	require.Equal(t, gone+": FAILED open or read\n", r.stdout)
	require.Contains(t, r.stderr, "WARNING: 1 listed file could not be read")

	r = fractsumRun(t, "", "--check", filepath.Join(dir, "no-such-list"))
	require.Equal(t, 1, r.code)
}

func TestCheckFromStdin(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "f", "stdin list")
	r := fractsumRun(t, hex256("stdin list")+"  "+f+"\n", "--check")
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, f+": OK\n", r.stdout)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "f", "configured")
	cfg := writeFile(t, dir, "fractsum.toml", "[hash]\nbits = 512\ntag = true\n")

	r := fractsumRun(t, "", "--config", cfg, f)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, "FRACT-512 ("+f+") = "+hex512("configured")+"\n", r.stdout)

	// Explicit flags win over the file.
	r = fractsumRun(t, "", "--config", cfg, "--tag=false", f)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, hex512("configured")+"  "+f+"\n", r.stdout)

	bad := writeFile(t, dir, "bad.toml", "[hash]\nbitz = 512\n")
	r = fractsumRun(t, "", "--config", bad, f)
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "unknown config keys")

	invalid := writeFile(t, dir, "invalid.toml", "[hash]\nbits = 384\n")
	r = fractsumRun(t, "", "--config", invalid, f)
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "invalid digest size 384")
}

func TestDumpConfig(t *testing.T) {
	r := fractsumRun(t, "", "--512", "dumpconfig")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "[hash]")
	require.Contains(t, r.stdout, "bits = 512")
	require.Contains(t, r.stdout, "[bench]")
}

func TestBench(t *testing.T) {
	r := fractsumRun(t, "", "bench", "--size", "1000", "--iter", "2", "--compare")
	require.Equal(t, 0, r.code, r.stderr)
	for _, name := range []string{"FRACT-256", "SHA3-256", "BLAKE2b-256", "MiB/s"} {
		require.Contains(t, r.stdout, name)
	}

	r = fractsumRun(t, "", "bench", "--size", "100", "--iter", "1", "--512", "--chunked", "--chunk", "7")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "FRACT-512")
	require.Contains(t, r.stdout, "chunked (7 B)")
	d := fract.Sum512(bytes.Repeat([]byte{'a'}, 100))
	require.Contains(t, r.stdout, hex.EncodeToString(d[:8]))

	r = fractsumRun(t, "", "bench", "--iter", "0")
	require.Equal(t, 1, r.code)
}

func TestAvalancheCommand(t *testing.T) {
	r := fractsumRun(t, "", "avalanche",
		"The quick brown fox jumps over the lazy dog",
		"The quick brown fox jumps over the lazy dof")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "bits differ")
	require.Contains(t, r.stdout, hex256("The quick brown fox jumps over the lazy dog"))

	r = fractsumRun(t, "", "avalanche", "only one")
	require.Equal(t, 1, r.code)
}

func TestPermuteCommand(t *testing.T) {
	iv := []string{"0x6a09e667f3bcc908", "0xbb67ae8584caa73b", "0x3c6ef372fe94f82b", "0xa54ff53a5f1d36f1"}

	r := fractsumRun(t, "", append([]string{"permute", "--rounds", "1"}, iv...)...)
	require.Equal(t, 0, r.code, r.stderr)
	require.Equal(t, "0xe2eb8b1a8806c973 0x562cef2882468799 0x694459e343a4ae0f 0xa3f1b8cf700e5d02\n", r.stdout)

	r = fractsumRun(t, "", append([]string{"permute", "--trace"}, iv...)...)
	require.Equal(t, 0, r.code, r.stderr)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 9)
	require.True(t, strings.HasPrefix(lines[0], "round 1: 0xe2eb8b1a8806c973"))

	r = fractsumRun(t, "", "permute", "0", "0", "0", "zz")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "word 3")
}

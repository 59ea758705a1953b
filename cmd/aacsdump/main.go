// Command aacsdump reads a raw AACS-protected stream (a concatenation of
// 6,144-byte aligned units) and writes the decrypted stream to stdout or
// an output file, falling back across the disc's unit keys as needed.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/barnettlynn/libaacs-go/pkg/aacs"
)

func main() {
	discPath := flag.String("disc", "", "path to the mounted disc root")
	configPath := flag.String("config", "", "path to KEYDB.cfg (defaults to the standard search locations)")
	inputPath := flag.String("in", "", "path to the raw aligned-unit stream to decrypt")
	outputPath := flag.String("out", "", "output path (defaults to stdout)")
	verbose := flag.Bool("v", false, "enable debug logging")
	logFormat := flag.String("log-format", "text", "log format: text or json")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if *logFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}

	if *discPath == "" || *inputPath == "" {
		log.Fatalf("missing required -disc and -in flags")
	}

	s, err := aacs.Open(*discPath, *configPath)
	if err != nil {
		log.Fatalf("open disc failed: %v", err)
	}
	defer aacs.Close(s)

	in, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("open input failed: %v", err)
	}
	defer in.Close()

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			log.Fatalf("create output failed: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := dumpStream(s, in, out); err != nil {
		log.Fatalf("dump failed: %v", err)
	}
}

// dumpStream reads aacs.AlignedUnitLen-byte units from in, decrypts each
// in place, and writes the result to out. A unit that fails to decrypt
// under every candidate key is logged by index and skipped (not written
// to out) rather than aborting the rest of the stream, mirroring ro's
// per-item error handling of logging and continuing past a single bad
// read. dumpStream only returns an error for a failure in the
// surrounding I/O itself.
func dumpStream(s *aacs.Session, in io.Reader, out io.Writer) error {
	buf := make([]byte, aacs.AlignedUnitLen)
	index := 0
	failed := 0

	for {
		_, err := io.ReadFull(in, buf)
		if err == io.EOF {
			if failed > 0 {
				slog.Warn("aacsdump: finished with undecryptable units", "failed", failed, "total", index)
			}
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			slog.Warn("aacsdump: trailing partial unit discarded", "index", index)
			return nil
		}
		if err != nil {
			return fmt.Errorf("aacsdump: read unit %d: %w", index, err)
		}

		if !aacs.DecryptUnit(s, buf) {
			err := &aacs.UnitDecryptError{UnitIndex: index}
			slog.Warn("aacsdump: skipping unit", "err", err)
			failed++
			index++
			continue
		}
		if _, err := out.Write(buf); err != nil {
			return fmt.Errorf("aacsdump: write unit %d: %w", index, err)
		}
		index++
	}
}

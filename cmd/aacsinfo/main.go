// Command aacsinfo opens a disc's AACS key material and reports the
// Volume ID and unit key count, without decrypting any content.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/barnettlynn/libaacs-go/pkg/aacs"
)

func main() {
	discPath := flag.String("disc", "", "path to the mounted disc root")
	configPath := flag.String("config", "", "path to KEYDB.cfg (defaults to the standard search locations)")
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

	if *discPath == "" {
		log.Fatalf("missing required -disc flag")
	}

	s, err := aacs.Open(*discPath, *configPath)
	if err != nil {
		log.Fatalf("open disc failed: %v", err)
	}
	defer aacs.Close(s)

	vid := s.GetVID()
	fmt.Printf("Volume ID:  %x\n", vid)
	fmt.Printf("Unit keys:  %d\n", s.NumUnitKeys())
}

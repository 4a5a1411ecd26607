// Command tinyrel is the interactive terminal client.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tinyrel/tinyrel"
	"github.com/tinyrel/tinyrel/internal/config"
)

var (
	flagConfig = flag.String("config", "", "Path of the YAML configuration file")
	flagStore  = flag.String("db", "", "Path of the sqlite document store (empty for in-memory)")
	flagPrompt = flag.String("prompt", "", "Prompt label for status lines")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if *flagStore != "" {
		cfg.StorePath = *flagStore
	}
	if *flagPrompt != "" {
		cfg.Prompt = *flagPrompt
	}

	var db *tinyrel.DB
	if cfg.StorePath == "" {
		db = tinyrel.OpenMemory()
	} else {
		db, err = tinyrel.Open(cfg.StorePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open error:", err)
			os.Exit(1)
		}
	}
	s := db.Session(cfg.Prompt, os.Stdout)
	// Suppress input prompts when stdin is redirected from a file.
	if fi, err := os.Stdin.Stat(); err == nil {
		s.SetInteractive((fi.Mode() & os.ModeCharDevice) != 0)
	}
	runErr := s.Run(os.Stdin)
	if err := db.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close error:", err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "read error:", runErr)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/cavops/muster/internal/testprofiles"
	"github.com/cavops/muster/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumProfiles = 500
	defaultTimeout     = 30 * time.Second
	defaultPollTimeout = 2 * time.Minute
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numProfiles = flag.Int("profiles", defaultNumProfiles, "Number of profiles to generate")
		archiveDir  = flag.String("archive", "data/milpacs", "Archive directory to seed")
		seed        = flag.Int64("seed", 0, "Random seed; 0 uses the current time")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		poll        = flag.Duration("poll", defaultPollTimeout, "How long to wait for the run to finish")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testprofiles.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &testprofiles.Config{
		BaseURL:     *baseURL,
		NumProfiles: *numProfiles,
		ArchiveDir:  *archiveDir,
		Seed:        *seed,
		Timeout:     *timeout,
		PollTimeout: *poll,
		Verbose:     *verbose,
	}

	if err := testprofiles.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

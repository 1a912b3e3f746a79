package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/podiumhq/podium/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumTeams   = 50
	defaultNumJudges  = 5
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:8081", "Base URL of the service")
		eventName = flag.String("event", "Simulated Hackathon", "Name of the generated event")
		numTeams  = flag.Int("teams", defaultNumTeams, "Number of teams to import")
		numJudges = flag.Int("judges", defaultNumJudges, "Number of judges to assign")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file for run output (default: simulation_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:   *baseURL,
		EventName: *eventName,
		NumTeams:  *numTeams,
		NumJudges: *numJudges,
		Workers:   *workers,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}

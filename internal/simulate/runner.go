package simulate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/podiumhq/podium/pkg/logger"
)

// Run executes one full judging cycle against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting judging simulation",
		logger.String("baseURL", config.BaseURL),
		logger.String("eventName", config.EventName),
		logger.Int("teams", config.NumTeams),
		logger.Int("judges", config.NumJudges),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	client := newHTTPClient(config.Timeout)

	// Step 2: Create the event with the default criteria schema
	event, err := createEvent(ctx, client, config)
	if err != nil {
		return fmt.Errorf("event creation failed: %w", err)
	}

	// Step 3: Import the generated roster
	teams, err := importRoster(ctx, client, config, event.ID, stats)
	if err != nil {
		return fmt.Errorf("roster import failed: %w", err)
	}

	// Step 4: Assign judges
	judges, err := assignJudges(ctx, client, config, event.ID, stats)
	if err != nil {
		return fmt.Errorf("judge assignment failed: %w", err)
	}

	// Step 5: Generate and submit every scoresheet concurrently
	sheets := generateScoresheets(teams, judges, event.Criteria)
	stats.SheetsGenerated = len(sheets)
	if err := submitScoresheets(ctx, config, sheets, stats); err != nil {
		return fmt.Errorf("scoresheet submission failed: %w", err)
	}

	// Step 6: Confirm the event reports full coverage
	if err := checkProgress(ctx, client, config, event.ID); err != nil {
		return fmt.Errorf("progress check failed: %w", err)
	}

	// Step 7: Fetch the leaderboard
	leaderboard, err := getLeaderboard(ctx, client, config, event.ID, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 8: Verify the served ranking against a local recompute
	if err := verifyLeaderboard(sheets, event.Criteria, leaderboard, config.Verbose); err != nil {
		return fmt.Errorf("leaderboard verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if err := decodeResponse(resp, StatusOK, nil); err != nil {
		return err
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// createEvent creates the simulated event and returns its id and schema.
func createEvent(ctx context.Context, client *HTTPClient, config *Config) (EventInfo, error) {
	log.Printf("creating event %q", config.EventName)

	body := map[string]any{
		"name": config.EventName,
		"date": time.Now().UTC().Format("2006-01-02"),
	}
	resp, err := client.PostJSON(ctx, config.BaseURL+"/events", body, nil)
	if err != nil {
		return EventInfo{}, fmt.Errorf("request failed: %w", err)
	}

	var event EventInfo
	if err := decodeResponse(resp, StatusCreated, &event); err != nil {
		return EventInfo{}, err
	}
	if len(event.Criteria) == 0 {
		return EventInfo{}, fmt.Errorf("event %s has no criteria", event.ID)
	}

	log.Printf("created event %s with %d criteria", event.ID, len(event.Criteria))
	return event, nil
}

// importRoster uploads the generated roster CSV and returns the created
// teams. Any rejected row fails the run since generated rows are valid.
func importRoster(ctx context.Context, client *HTTPClient, config *Config, eventID string, stats *Stats) ([]TeamInfo, error) {
	log.Printf("importing roster of %d teams", config.NumTeams)

	payload := generateRosterCSV(config.NumTeams)
	url := fmt.Sprintf("%s/events/%s/teams/import", config.BaseURL, eventID)

	resp, err := client.PostCSV(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var outcome ImportOutcome
	if err := decodeResponse(resp, StatusOK, &outcome); err != nil {
		return nil, err
	}
	if len(outcome.Errors) > 0 {
		return nil, fmt.Errorf("%d roster rows rejected, first: row %d: %s",
			len(outcome.Errors), outcome.Errors[0].Row, outcome.Errors[0].Reason)
	}

	stats.TeamsCreated = len(outcome.Created)
	log.Printf("imported %d teams", len(outcome.Created))
	return outcome.Created, nil
}

// assignJudges registers and assigns the generated judges to the event.
func assignJudges(ctx context.Context, client *HTTPClient, config *Config, eventID string, stats *Stats) ([]JudgeInfo, error) {
	log.Printf("assigning %d judges", config.NumJudges)

	url := fmt.Sprintf("%s/events/%s/judges", config.BaseURL, eventID)
	judges := generateJudges(config.NumJudges)

	for i, judge := range judges {
		body := map[string]string{"name": judge.Name, "email": judge.Email}
		resp, err := client.PostJSON(ctx, url, body, nil)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		var assigned JudgeInfo
		if err := decodeResponse(resp, StatusCreated, &assigned); err != nil {
			return nil, err
		}
		judges[i] = assigned
	}

	stats.JudgesAssigned = len(judges)
	log.Printf("assigned %d judges", len(judges))
	return judges, nil
}

// checkProgress fetches event progress and warns when coverage is not
// complete. Partial coverage is expected when submissions failed.
func checkProgress(ctx context.Context, client *HTTPClient, config *Config, eventID string) error {
	url := fmt.Sprintf("%s/events/%s/progress", config.BaseURL, eventID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var progress Progress
	if err := decodeResponse(resp, StatusOK, &progress); err != nil {
		return err
	}

	if progress.PercentComplete < PercentageMultiplier {
		log.Printf("warning: event only %.1f%% scored", progress.PercentComplete)
	} else {
		log.Printf("event fully scored (%.1f%%)", progress.PercentComplete)
	}
	return nil
}

// getLeaderboard retrieves the full leaderboard for the event.
func getLeaderboard(ctx context.Context, client *HTTPClient, config *Config, eventID string, stats *Stats) ([]Entry, error) {
	log.Printf("fetching leaderboard")

	url := fmt.Sprintf("%s/events/%s/leaderboard", config.BaseURL, eventID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var leaderboard []Entry
	if err := decodeResponse(resp, StatusOK, &leaderboard); err != nil {
		return nil, err
	}

	stats.LeaderboardRows = len(leaderboard)
	log.Printf("retrieved %d leaderboard rows", len(leaderboard))
	return leaderboard, nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, sheetsPerSecond float64

	if stats.SheetsSubmitted > 0 {
		successRate = float64(stats.SheetsSuccessful) / float64(stats.SheetsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		sheetsPerSecond = float64(stats.SheetsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("teamsCreated", stats.TeamsCreated),
		logger.Int("judgesAssigned", stats.JudgesAssigned),
		logger.Int("sheetsGenerated", stats.SheetsGenerated),
		logger.Int("sheetsSubmitted", stats.SheetsSubmitted),
		logger.Int("sheetsSuccessful", stats.SheetsSuccessful),
		logger.Int("sheetsFailed", stats.SheetsFailed),
		logger.Int("leaderboardRows", stats.LeaderboardRows),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("sheetsPerSecond", sheetsPerSecond))
}

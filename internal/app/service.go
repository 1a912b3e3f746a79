// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/podiumhq/podium/internal/adapters/csvio"
	"github.com/podiumhq/podium/internal/adapters/repository"
	"github.com/podiumhq/podium/internal/domain/criteria"
	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/rank"
	"github.com/podiumhq/podium/internal/domain/scoring"
	"github.com/podiumhq/podium/pkg/logger"
	"github.com/podiumhq/podium/pkg/metrics"
)

// Service implements the API dependencies for the judging system. All
// derived values (final scores, averages, rankings, progress) are computed
// fresh from the store on every call; the service keeps no caches that
// could drift from the underlying records.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	shardCount    int
	maxImportRows int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithShardCount sets the number of score shards in the store.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithMaxImportRows caps the size of one roster import batch.
func WithMaxImportRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImportRows = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a store implementation, overriding the default
// in-memory one. Used by tests and by deployments with durable storage.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		shardCount:    16,
		maxImportRows: 5000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithShardCount(s.shardCount))
	}
	s.started = true
	s.logger.Info(ctx, "judging service started",
		logger.Int("shards", s.shardCount),
		logger.Int("maxImportRows", s.maxImportRows),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "judging service stopped")
}

// CreateEvent validates the criteria and creates an event. An empty
// criteria list selects the stock hackathon schema.
func (s *Service) CreateEvent(ctx context.Context, name string, date time.Time, crit []criteria.Criterion) (model.Event, error) {
	var schema criteria.Schema
	if len(crit) == 0 {
		schema = criteria.Default()
	} else {
		var err error
		if schema, err = criteria.New(crit); err != nil {
			return model.Event{}, err
		}
	}
	ev, err := s.store.CreateEvent(ctx, name, date, schema)
	if err != nil {
		return model.Event{}, err
	}
	s.logger.Info(ctx, "event created",
		logger.String("eventID", ev.ID),
		logger.String("name", ev.Name),
		logger.Int("criteria", schema.Len()),
	)
	return ev, nil
}

// Event returns an event by id.
func (s *Service) Event(ctx context.Context, eventID string) (model.Event, error) {
	return s.store.Event(ctx, eventID)
}

// Events lists all events.
func (s *Service) Events(ctx context.Context) []model.Event {
	return s.store.Events(ctx)
}

// AddTeam registers one team for an event.
func (s *Service) AddTeam(ctx context.Context, eventID, name string, number int, description string) (model.Team, error) {
	return s.store.AddTeam(ctx, eventID, name, number, description)
}

// Teams lists an event's roster.
func (s *Service) Teams(ctx context.Context, eventID string) ([]model.Team, error) {
	return s.store.Teams(ctx, eventID)
}

// AssignJudge registers the judge by email if needed and assigns them to
// the event. Assigning an already-assigned judge is a no-op.
func (s *Service) AssignJudge(ctx context.Context, eventID, name, email string) (model.Judge, error) {
	if _, err := s.store.Event(ctx, eventID); err != nil {
		return model.Judge{}, err
	}
	j, err := s.store.RegisterJudge(ctx, name, email)
	if err != nil {
		return model.Judge{}, err
	}
	if err := s.store.AssignJudge(ctx, j.ID, eventID); err != nil {
		return model.Judge{}, err
	}
	return j, nil
}

// Judges lists the judges assigned to an event.
func (s *Service) Judges(ctx context.Context, eventID string) ([]model.Judge, error) {
	return s.store.Judges(ctx, eventID)
}

// SubmitScore validates and stores one submission, replacing any previous
// one by the same judge for the same team, and returns the stored record
// with its weighted final score.
func (s *Service) SubmitScore(ctx context.Context, teamID, judgeID string, scores map[string]int, comment string) (model.ScoreRecord, float64, error) {
	rec, err := s.store.UpsertScore(ctx, teamID, judgeID, scores, comment)
	if err != nil {
		return model.ScoreRecord{}, 0, err
	}
	team, err := s.store.Team(ctx, teamID)
	if err != nil {
		return model.ScoreRecord{}, 0, err
	}
	ev, err := s.store.Event(ctx, team.EventID)
	if err != nil {
		return model.ScoreRecord{}, 0, err
	}
	final := scoring.FinalScore(rec, ev.Criteria)
	s.logger.Debug(ctx, "score submitted",
		logger.String("teamID", teamID),
		logger.String("judgeID", judgeID),
		logger.Float64("finalScore", final),
	)
	return rec, final, nil
}

// ScoredTeamView is one row of a judge's submission history.
type ScoredTeamView struct {
	Team       model.Team
	FinalScore float64
	Scores     map[string]int
	Comment    string
	At         time.Time
}

// ScoredByJudge returns everything a judge has submitted, submission order
// ascending, each with the weighted final score under the owning event's
// schema.
func (s *Service) ScoredByJudge(ctx context.Context, judgeID string) ([]ScoredTeamView, error) {
	recs, err := s.store.ScoresForJudge(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	out := make([]ScoredTeamView, 0, len(recs))
	for _, rec := range recs {
		team, err := s.store.Team(ctx, rec.TeamID)
		if err != nil {
			return nil, err
		}
		ev, err := s.store.Event(ctx, team.EventID)
		if err != nil {
			return nil, err
		}
		out = append(out, ScoredTeamView{
			Team:       team,
			FinalScore: scoring.FinalScore(rec, ev.Criteria),
			Scores:     rec.Scores,
			Comment:    rec.Comment,
			At:         rec.SubmittedAt,
		})
	}
	return out, nil
}

// Leaderboard recomputes the full ranking for an event from the current
// store snapshot. Cost is O(teams x judges) per call, which is fine at
// hackathon scale; in exchange there is no cache to go stale.
func (s *Service) Leaderboard(ctx context.Context, eventID string) ([]model.LeaderboardEntry, error) {
	start := time.Now()

	ev, err := s.store.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.Teams(ctx, eventID)
	if err != nil {
		return nil, err
	}

	scored := make([]rank.TeamScores, 0, len(teams))
	for _, team := range teams {
		recs, err := s.store.ScoresForTeam(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		finals := make([]float64, len(recs))
		for i, rec := range recs {
			finals[i] = scoring.FinalScore(rec, ev.Criteria)
		}
		scored = append(scored, rank.TeamScores{Team: team, Finals: finals})
	}

	entries := rank.Build(scored)
	metrics.RecordLeaderboardRead()
	metrics.RecordLeaderboardBuildDuration(float64(time.Since(start).Microseconds()) / 1000.0)
	return entries, nil
}

// ExportLeaderboard serializes the current ranking to the fixed CSV layout.
func (s *Service) ExportLeaderboard(ctx context.Context, eventID string) ([]byte, error) {
	entries, err := s.Leaderboard(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return csvio.ExportLeaderboard(entries)
}

// ImportRoster bulk-creates teams from a roster CSV, collecting row-level
// failures instead of aborting the batch.
func (s *Service) ImportRoster(ctx context.Context, eventID string, data []byte) (csvio.ImportResult, error) {
	if _, err := s.store.Event(ctx, eventID); err != nil {
		return csvio.ImportResult{}, err
	}
	res, err := csvio.ImportRoster(ctx, s.store, eventID, data, s.maxImportRows)
	if err != nil {
		return csvio.ImportResult{}, err
	}
	s.logger.Info(ctx, "roster imported",
		logger.String("eventID", eventID),
		logger.Int("created", len(res.Created)),
		logger.Int("rejected", len(res.Errors)),
	)
	return res, nil
}

// JudgeProgress returns how many of an event's teams the judge has scored
// and how many there are in total. Counted from the records on every
// call, never from a stored counter that could drift. Fails with
// model.ErrNotAssigned when the judge is not on the event's panel.
func (s *Service) JudgeProgress(ctx context.Context, judgeID, eventID string) (scored, total int, err error) {
	if _, err := s.store.Judge(ctx, judgeID); err != nil {
		return 0, 0, err
	}
	teams, err := s.store.Teams(ctx, eventID)
	if err != nil {
		return 0, 0, err
	}
	if !s.store.IsAssigned(ctx, judgeID, eventID) {
		return 0, 0, fmt.Errorf("%w: judge %s, event %s", model.ErrNotAssigned, judgeID, eventID)
	}
	for _, team := range teams {
		if _, ok := s.store.Score(ctx, team.ID, judgeID); ok {
			scored++
		}
	}
	return scored, len(teams), nil
}

// EventProgress reports completion for an event: the fraction of all
// (team, judge) pairs that have a score record, as a percentage in
// [0,100], plus per-judge counts. An event with no teams or no judges is
// 0% complete, not a division by zero.
func (s *Service) EventProgress(ctx context.Context, eventID string) (percent float64, perJudge map[string]int, err error) {
	teams, err := s.store.Teams(ctx, eventID)
	if err != nil {
		return 0, nil, err
	}
	judges, err := s.store.Judges(ctx, eventID)
	if err != nil {
		return 0, nil, err
	}

	perJudge = make(map[string]int, len(judges))
	records := 0
	for _, j := range judges {
		n := 0
		for _, team := range teams {
			if _, ok := s.store.Score(ctx, team.ID, j.ID); ok {
				n++
			}
		}
		perJudge[j.ID] = n
		records += n
	}

	possible := len(teams) * len(judges)
	if possible == 0 {
		return 0, perJudge, nil
	}
	return math.Min(100, float64(records)/float64(possible)*100), perJudge, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]any{
		"started":    started,
		"shardCount": s.shardCount,
	}
	if started {
		events, teams, judges, scores := s.store.Counts(ctx)
		stats["events"] = events
		stats["teams"] = teams
		stats["judges"] = judges
		stats["scores"] = scores
		metrics.UpdateStoreScoreRecords(scores)
	}
	return stats
}

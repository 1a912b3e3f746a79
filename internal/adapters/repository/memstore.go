package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/podiumhq/podium/internal/domain/criteria"
	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/scoring"
	"github.com/podiumhq/podium/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 16
)

// pairKey is the composite identity of a score record.
type pairKey struct {
	teamID  string
	judgeID string
}

// storedScore pairs a record with its commit sequence. The sequence is
// assigned under the shard lock and defines submission order as observed
// by the store, independent of client clocks.
type storedScore struct {
	rec model.ScoreRecord
	seq uint64
}

// scoreShard holds a slice of the (team, judge) keyspace behind its own
// lock, so writes to different pairs do not contend.
type scoreShard struct {
	mu   sync.RWMutex
	recs map[pairKey]storedScore
}

// MemStore implements Store with sharded in-memory maps.
type MemStore struct {
	shards []*scoreShard
	seq    atomic.Uint64

	// Roster state: events, teams, judges, assignments. Guarded by one
	// lock so duplicate-number checks and inserts are a single critical
	// section.
	rosterMu      sync.RWMutex
	events        map[string]model.Event
	eventOrder    []string
	teams         map[string]model.Team
	teamsByEvent  map[string][]string
	judges        map[string]model.Judge
	judgeByEmail  map[string]string
	assignments   map[string]map[string]struct{}
	judgesByEvent map[string][]string
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		events:        make(map[string]model.Event),
		teams:         make(map[string]model.Team),
		teamsByEvent:  make(map[string][]string),
		judges:        make(map[string]model.Judge),
		judgeByEmail:  make(map[string]string),
		assignments:   make(map[string]map[string]struct{}),
		judgesByEvent: make(map[string][]string),
	}

	cfg := options{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.shards = make([]*scoreShard, cfg.shardCount)
	for i := range s.shards {
		s.shards[i] = &scoreShard{recs: make(map[pairKey]storedScore)}
	}
	metrics.UpdateStoreShardCount(cfg.shardCount)

	return s
}

// shardFor picks the shard owning a pair by FNV-1a hash of its key.
func (s *MemStore) shardFor(k pairKey) *scoreShard {
	h := fnv.New32a()
	h.Write([]byte(k.teamID))
	h.Write([]byte{'/'})
	h.Write([]byte(k.judgeID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// CreateEvent mints a new event owning the given schema.
func (s *MemStore) CreateEvent(ctx context.Context, name string, date time.Time, schema criteria.Schema) (model.Event, error) {
	if strings.TrimSpace(name) == "" {
		return model.Event{}, fmt.Errorf("%w: event name must not be empty", model.ErrValidation)
	}
	if !schema.Valid() {
		return model.Event{}, fmt.Errorf("%w: event requires a validated criteria schema", model.ErrValidation)
	}

	ev := model.Event{
		ID:       uuid.NewString(),
		Name:     name,
		Date:     date,
		Criteria: schema,
	}

	s.rosterMu.Lock()
	s.events[ev.ID] = ev
	s.eventOrder = append(s.eventOrder, ev.ID)
	s.rosterMu.Unlock()

	metrics.RecordEventCreated()
	return ev, nil
}

// Event returns an event by id.
func (s *MemStore) Event(ctx context.Context, eventID string) (model.Event, error) {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	ev, ok := s.events[eventID]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: event %s", model.ErrNotFound, eventID)
	}
	return ev, nil
}

// Events lists all events in creation order.
func (s *MemStore) Events(ctx context.Context) []model.Event {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	out := make([]model.Event, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		out = append(out, s.events[id])
	}
	return out
}

// AddTeam registers one team for an event.
func (s *MemStore) AddTeam(ctx context.Context, eventID, name string, number int, description string) (model.Team, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return model.Team{}, fmt.Errorf("%w: team name must not be empty", model.ErrValidation)
	case strings.TrimSpace(description) == "":
		return model.Team{}, fmt.Errorf("%w: team description must not be empty", model.ErrValidation)
	case number <= 0:
		return model.Team{}, fmt.Errorf("%w: team number must be positive, got %d", model.ErrValidation, number)
	}

	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return model.Team{}, fmt.Errorf("%w: event %s", model.ErrNotFound, eventID)
	}
	// Number uniqueness is checked and the team inserted under one lock,
	// so concurrent adds and imports cannot race a number into the event.
	for _, tid := range s.teamsByEvent[eventID] {
		if s.teams[tid].Number == number {
			return model.Team{}, fmt.Errorf("%w: number %d in event %s", model.ErrDuplicateTeamNumber, number, eventID)
		}
	}

	t := model.Team{
		ID:          uuid.NewString(),
		EventID:     eventID,
		Name:        name,
		Number:      number,
		Description: description,
	}
	s.teams[t.ID] = t
	s.teamsByEvent[eventID] = append(s.teamsByEvent[eventID], t.ID)

	metrics.RecordTeamCreated()
	return t, nil
}

// Team returns a team by id.
func (s *MemStore) Team(ctx context.Context, teamID string) (model.Team, error) {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return model.Team{}, fmt.Errorf("%w: team %s", model.ErrNotFound, teamID)
	}
	return t, nil
}

// Teams lists an event's roster in creation order.
func (s *MemStore) Teams(ctx context.Context, eventID string) ([]model.Team, error) {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	if _, ok := s.events[eventID]; !ok {
		return nil, fmt.Errorf("%w: event %s", model.ErrNotFound, eventID)
	}
	ids := s.teamsByEvent[eventID]
	out := make([]model.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.teams[id])
	}
	return out, nil
}

// RegisterJudge returns the judge with the given email, creating one if
// none exists.
func (s *MemStore) RegisterJudge(ctx context.Context, name, email string) (model.Judge, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Judge{}, fmt.Errorf("%w: judge email must not be empty", model.ErrValidation)
	}
	key := strings.ToLower(email)

	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()

	if id, ok := s.judgeByEmail[key]; ok {
		return s.judges[id], nil
	}

	if strings.TrimSpace(name) == "" {
		// Same fallback the organizer flow always used: local part of
		// the email address.
		name = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}
	j := model.Judge{ID: uuid.NewString(), Name: name, Email: email}
	s.judges[j.ID] = j
	s.judgeByEmail[key] = j.ID
	return j, nil
}

// AssignJudge adds an event assignment; assigning twice is a no-op.
func (s *MemStore) AssignJudge(ctx context.Context, judgeID, eventID string) error {
	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()

	if _, ok := s.judges[judgeID]; !ok {
		return fmt.Errorf("%w: judge %s", model.ErrNotFound, judgeID)
	}
	if _, ok := s.events[eventID]; !ok {
		return fmt.Errorf("%w: event %s", model.ErrNotFound, eventID)
	}
	if s.assignments[judgeID] == nil {
		s.assignments[judgeID] = make(map[string]struct{})
	}
	if _, ok := s.assignments[judgeID][eventID]; ok {
		return nil
	}
	s.assignments[judgeID][eventID] = struct{}{}
	s.judgesByEvent[eventID] = append(s.judgesByEvent[eventID], judgeID)

	metrics.RecordJudgeAssigned()
	return nil
}

// Judge returns a judge by id.
func (s *MemStore) Judge(ctx context.Context, judgeID string) (model.Judge, error) {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	j, ok := s.judges[judgeID]
	if !ok {
		return model.Judge{}, fmt.Errorf("%w: judge %s", model.ErrNotFound, judgeID)
	}
	return j, nil
}

// Judges lists the judges assigned to an event in assignment order.
func (s *MemStore) Judges(ctx context.Context, eventID string) ([]model.Judge, error) {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	if _, ok := s.events[eventID]; !ok {
		return nil, fmt.Errorf("%w: event %s", model.ErrNotFound, eventID)
	}
	ids := s.judgesByEvent[eventID]
	out := make([]model.Judge, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.judges[id])
	}
	return out, nil
}

// IsAssigned reports whether the judge is assigned to the event.
func (s *MemStore) IsAssigned(ctx context.Context, judgeID, eventID string) bool {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	_, ok := s.assignments[judgeID][eventID]
	return ok
}

// UpsertScore validates and stores one raw submission, replacing any prior
// record for the (team, judge) pair atomically. A failed submission leaves
// the previous record, if any, untouched.
func (s *MemStore) UpsertScore(ctx context.Context, teamID, judgeID string, scores map[string]int, comment string) (model.ScoreRecord, error) {
	s.rosterMu.RLock()
	team, teamOK := s.teams[teamID]
	_, judgeOK := s.judges[judgeID]
	var (
		schema   criteria.Schema
		assigned bool
	)
	if teamOK {
		schema = s.events[team.EventID].Criteria
		_, assigned = s.assignments[judgeID][team.EventID]
	}
	s.rosterMu.RUnlock()

	if !teamOK {
		metrics.RecordScoreRejected("not_found")
		return model.ScoreRecord{}, fmt.Errorf("%w: team %s", model.ErrNotFound, teamID)
	}
	if !judgeOK {
		metrics.RecordScoreRejected("not_found")
		return model.ScoreRecord{}, fmt.Errorf("%w: judge %s", model.ErrNotFound, judgeID)
	}
	if !assigned {
		metrics.RecordScoreRejected("not_assigned")
		return model.ScoreRecord{}, fmt.Errorf("%w: judge %s, event %s", model.ErrNotAssigned, judgeID, team.EventID)
	}
	if err := scoring.ValidateScores(scores, schema); err != nil {
		metrics.RecordScoreRejected("validation")
		return model.ScoreRecord{}, err
	}

	rec := model.ScoreRecord{
		TeamID:      teamID,
		JudgeID:     judgeID,
		Scores:      copyScores(scores),
		Comment:     comment,
		SubmittedAt: time.Now().UTC(),
	}

	key := pairKey{teamID: teamID, judgeID: judgeID}
	shard := s.shardFor(key)
	start := time.Now()
	shard.mu.Lock()
	_, overwrite := shard.recs[key]
	shard.recs[key] = storedScore{rec: rec, seq: s.seq.Add(1)}
	shard.mu.Unlock()
	metrics.RecordStoreUpsertLatency(float64(time.Since(start).Microseconds()) / 1000.0)

	if overwrite {
		metrics.RecordScoreOverwritten()
	} else {
		metrics.RecordScoreSubmitted()
	}
	return rec, nil
}

// Score returns the record for the pair, or ok=false when not scored.
func (s *MemStore) Score(ctx context.Context, teamID, judgeID string) (model.ScoreRecord, bool) {
	key := pairKey{teamID: teamID, judgeID: judgeID}
	shard := s.shardFor(key)
	shard.mu.RLock()
	st, ok := shard.recs[key]
	shard.mu.RUnlock()
	if !ok {
		return model.ScoreRecord{}, false
	}
	return copyRecord(st.rec), true
}

// ScoresForTeam snapshots a team's records, submission order ascending.
func (s *MemStore) ScoresForTeam(ctx context.Context, teamID string) ([]model.ScoreRecord, error) {
	if _, err := s.Team(ctx, teamID); err != nil {
		return nil, err
	}
	return s.collect(func(k pairKey) bool { return k.teamID == teamID }), nil
}

// ScoresForJudge snapshots a judge's records, submission order ascending.
func (s *MemStore) ScoresForJudge(ctx context.Context, judgeID string) ([]model.ScoreRecord, error) {
	if _, err := s.Judge(ctx, judgeID); err != nil {
		return nil, err
	}
	return s.collect(func(k pairKey) bool { return k.judgeID == judgeID }), nil
}

// collect scans every shard under read locks and returns matching records
// ordered by commit sequence. Each shard is a consistent snapshot; the
// overall scan is read-committed, which is all the dashboard needs.
func (s *MemStore) collect(match func(pairKey) bool) []model.ScoreRecord {
	var found []storedScore
	for _, shard := range s.shards {
		shard.mu.RLock()
		for k, st := range shard.recs {
			if match(k) {
				found = append(found, st)
			}
		}
		shard.mu.RUnlock()
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	out := make([]model.ScoreRecord, len(found))
	for i, st := range found {
		out[i] = copyRecord(st.rec)
	}
	return out
}

// Counts returns totals for monitoring.
func (s *MemStore) Counts(ctx context.Context) (events, teams, judges, scores int) {
	s.rosterMu.RLock()
	events = len(s.events)
	teams = len(s.teams)
	judges = len(s.judges)
	s.rosterMu.RUnlock()

	for _, shard := range s.shards {
		shard.mu.RLock()
		scores += len(shard.recs)
		shard.mu.RUnlock()
	}
	return events, teams, judges, scores
}

func copyScores(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// copyRecord clones a record so callers can never mutate stored state.
func copyRecord(rec model.ScoreRecord) model.ScoreRecord {
	rec.Scores = copyScores(rec.Scores)
	return rec
}

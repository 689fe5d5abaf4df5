package daily

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/em1rekinci/analizsitesi/internal/config"
	"github.com/em1rekinci/analizsitesi/internal/markets"
	"github.com/em1rekinci/analizsitesi/internal/provider"
	"github.com/em1rekinci/analizsitesi/internal/snapshot"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

var (
	istanbul = time.FixedZone("TRT", 3*3600)
	// 22:30 UTC is already the next day in the service timezone.
	clock = func() time.Time { return time.Date(2025, 2, 28, 22, 30, 0, 0, time.UTC) }
)

const today = "2025-03-01"

// fakeFixtures serves fixtures per competition code, counts calls and
// tracks how many fetches overlap.
type fakeFixtures struct {
	mu        sync.Mutex
	byCode    map[string][]provider.Match
	calls     map[string]int
	lastFrom  string
	lastTo    string
	delay     time.Duration
	active    int
	maxActive int
}

func (f *fakeFixtures) Fixtures(_ context.Context, code, from, to string) []provider.Match {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[code]++
	f.lastFrom, f.lastTo = from, to
	return f.byCode[code]
}

func (f *fakeFixtures) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// fakeHistory gives every team the same strong first-half record.
type fakeHistory struct{}

func (fakeHistory) RecentMatches(_ context.Context, teamID, _ int) []provider.Match {
	out := make([]provider.Match, 4)
	for i := range out {
		m := provider.Match{Status: provider.StatusFinished, HomeTeam: provider.Team{ID: teamID}, AwayTeam: provider.Team{ID: 1000 + i}}
		m.Score.FullTime = provider.Goals{Home: provider.IntPtr(2), Away: provider.IntPtr(1)}
		m.Score.HalfTime = provider.Goals{Home: provider.IntPtr(1), Away: provider.IntPtr(1)}
		out[i] = m
	}
	return out
}

// memStore is an in-memory snapshot.Store recording write order.
type memStore struct {
	mu        sync.Mutex
	snapshots map[string]*snapshot.Snapshot
	teams     map[string]map[string]stats.Profile
	writes    []string
	saveErr   error
}

func newMemStore() *memStore {
	return &memStore{
		snapshots: make(map[string]*snapshot.Snapshot),
		teams:     make(map[string]map[string]stats.Profile),
	}
}

func (s *memStore) Load(_ context.Context, day string) (*snapshot.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[day]
	if !ok {
		return nil, snapshot.ErrNotFound
	}
	return snap, nil
}

func (s *memStore) Save(_ context.Context, snap *snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, "snapshot")
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshots[snap.Date] = snap
	return nil
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) LoadTeams(_ context.Context, day string) (map[string]stats.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[day]
	if !ok {
		return nil, snapshot.ErrNotFound
	}
	return t, nil
}

func (s *memStore) SaveTeams(_ context.Context, day string, teams map[string]stats.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, "teams")
	s.teams[day] = teams
	return nil
}

func fixtureAt(id, home, away int, utc string) provider.Match {
	return provider.Match{
		ID:       id,
		UTCDate:  utc,
		Status:   provider.StatusTimed,
		HomeTeam: provider.Team{ID: home, Name: teamName(home)},
		AwayTeam: provider.Team{ID: away, Name: teamName(away)},
	}
}

func teamName(id int) string {
	if id == 0 {
		return ""
	}
	return "Team" + string(rune('A'+id%26))
}

func newTestRunner(fix *fakeFixtures, store *memStore) (*Runner, *stats.TeamCache) {
	teams := stats.NewTeamCache(fakeHistory{}, 10, nil, nil)
	r := NewRunner(Deps{
		Fixtures: fix,
		Teams:    teams,
		Scorer:   markets.NewScorer(teams, markets.DefaultPickThreshold),
		Store:    store,
		Competitions: []config.Competition{
			{Name: "Premier League", Code: "PL", Weight: 1.05},
			{Name: "Eredivisie", Code: "DED", Weight: 0.98},
			{Name: "Serie A", Code: "SA", Weight: 1.04},
		},
		Location: istanbul,
		Now:      clock,
	})
	return r, teams
}

func TestRunner_Run(t *testing.T) {
	fix := &fakeFixtures{byCode: map[string][]provider.Match{
		"PL": {
			fixtureAt(1, 1, 2, "2025-03-01T12:30:00Z"),
			fixtureAt(2, 3, 4, "not-a-date"),
			fixtureAt(3, 5, 0, "2025-03-01T15:00:00Z"),
		},
		"DED": {fixtureAt(4, 6, 7, "2025-03-01T19:45:00Z")},
	}}
	store := newMemStore()
	r, _ := newTestRunner(fix, store)

	snap, result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if fix.lastFrom != today || fix.lastTo != today {
		t.Errorf("fixture window = %s..%s, want %s in service timezone", fix.lastFrom, fix.lastTo, today)
	}
	if result.State != StatePersisted || result.MatchesFound != 4 || result.MatchesScored != 2 || result.MatchesSkipped != 2 {
		t.Errorf("result = %s", result.Summary())
	}
	if len(result.Errors) != 2 {
		t.Errorf("errors = %v, want 2", result.Errors)
	}

	pl := snap.Matches["Premier League"]
	if len(pl) != 1 || pl[0].ID != 1 {
		t.Fatalf("Premier League = %+v, want only match 1", pl)
	}
	if pl[0].Time != "15:30" {
		t.Errorf("local time = %s, want 15:30", pl[0].Time)
	}
	if _, ok := snap.Matches["Serie A"]; ok {
		t.Errorf("competition without fixtures should not appear")
	}

	// O25 and FH15 both hit the cap at weight 1.05; O25 wins the tie.
	if len(snap.Picks) != 2 {
		t.Fatalf("picks = %+v, want 2", snap.Picks)
	}
	if p := snap.Picks[0]; p.Market != markets.O25 || p.Value != markets.MaxMarketValue || p.Match != "TeamB - TeamC" {
		t.Errorf("first pick = %+v", p)
	}
	// At 0.98 only FH15 (100 raw) still reaches the cap.
	if p := snap.Picks[1]; p.Market != markets.FH15 || p.Value != markets.MaxMarketValue {
		t.Errorf("second pick = %+v", p)
	}
	if len(snap.Coupons.Daily) != 2 || len(snap.Coupons.HighOdds) != 0 {
		t.Errorf("coupons = %+v", snap.Coupons)
	}

	if len(store.writes) != 2 || store.writes[0] != "teams" || store.writes[1] != "snapshot" {
		t.Errorf("write order = %v, want [teams snapshot]", store.writes)
	}
	if len(store.teams[today]) != 4 {
		t.Errorf("persisted teams = %d, want 4", len(store.teams[today]))
	}
	if result.TeamsPersisted != 4 {
		t.Errorf("TeamsPersisted = %d, want 4", result.TeamsPersisted)
	}
}

func TestRunner_NoFixtures(t *testing.T) {
	store := newMemStore()
	r, _ := newTestRunner(&fakeFixtures{}, store)

	snap, result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.TotalMatches() != 0 || len(snap.Picks) != 0 || snap.Coupons.Len() != 0 {
		t.Errorf("snapshot should be empty: %+v", snap)
	}
	if result.State != StatePersisted {
		t.Errorf("state = %s", result.State)
	}
	if _, err := store.Load(context.Background(), today); err != nil {
		t.Errorf("empty snapshot should still be stored: %v", err)
	}
}

func TestRunner_SaveFailure(t *testing.T) {
	store := newMemStore()
	previous := snapshot.New(today, clock())
	previous.Picks = []markets.Pick{{Match: "TeamB - TeamC", Market: markets.O25, Value: 80}}
	store.snapshots[today] = previous
	store.saveErr = errors.New("disk full")

	fix := &fakeFixtures{byCode: map[string][]provider.Match{"PL": {fixtureAt(1, 1, 2, "2025-03-01T12:30:00Z")}}}
	r, _ := newTestRunner(fix, store)

	snap, result, err := r.Run(context.Background())
	if err == nil || snap != nil {
		t.Fatalf("expected failure, got %v %v", snap, err)
	}
	if result.State != StateFailed {
		t.Errorf("state = %s, want failed", result.State)
	}

	stored, err := store.Load(context.Background(), today)
	if err != nil || stored != previous {
		t.Fatalf("previous snapshot replaced: %v %v", stored, err)
	}
	if len(stored.Picks) != 1 || stored.Picks[0].Value != 80 {
		t.Errorf("previous snapshot modified: %+v", stored.Picks)
	}

	svc := NewService(r, nil)
	if _, _, err := svc.Refresh(context.Background()); err == nil {
		t.Errorf("refresh should fail while saves fail")
	}
	if cached, err := svc.Cached(context.Background()); err != nil || cached != previous {
		t.Errorf("Cached after failed refresh = %v %v, want previous", cached, err)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	store := newMemStore()
	r, _ := newTestRunner(&fakeFixtures{}, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, result, err := r.Run(ctx); !errors.Is(err, context.Canceled) || result.State != StateFailed {
		t.Errorf("err = %v state = %s", err, result.State)
	}
	if len(store.writes) != 0 {
		t.Errorf("cancelled run wrote %v", store.writes)
	}
}

func TestService_TodayRunsOnce(t *testing.T) {
	fix := &fakeFixtures{
		byCode: map[string][]provider.Match{"PL": {fixtureAt(1, 1, 2, "2025-03-01T12:30:00Z")}},
		delay:  10 * time.Millisecond,
	}
	store := newMemStore()
	r, _ := newTestRunner(fix, store)
	svc := NewService(r, nil)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Today(context.Background()); err != nil {
				t.Errorf("Today: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := fix.total(); n != 3 {
		t.Errorf("fixture calls = %d, want 3 (one run over three competitions)", n)
	}

	snap, err := svc.Today(context.Background())
	if err != nil || snap.Date != today {
		t.Fatalf("Today = %v, %v", snap, err)
	}
	if n := fix.total(); n != 3 {
		t.Errorf("stored snapshot should be served without a run, calls = %d", n)
	}
}

func TestService_CachedDoesNotRun(t *testing.T) {
	fix := &fakeFixtures{}
	r, _ := newTestRunner(fix, newMemStore())
	svc := NewService(r, nil)

	if _, err := svc.Cached(context.Background()); !errors.Is(err, snapshot.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if fix.total() != 0 {
		t.Errorf("Cached triggered a run")
	}
}

func TestService_RefreshReplaces(t *testing.T) {
	fix := &fakeFixtures{byCode: map[string][]provider.Match{"PL": {fixtureAt(1, 1, 2, "2025-03-01T12:30:00Z")}}}
	store := newMemStore()
	r, _ := newTestRunner(fix, store)
	svc := NewService(r, nil)

	first, err := svc.Today(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	fix.mu.Lock()
	fix.byCode["PL"] = nil
	fix.mu.Unlock()

	second, result, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.State != StatePersisted {
		t.Errorf("state = %s", result.State)
	}
	if first.TotalMatches() != 1 || second.TotalMatches() != 0 {
		t.Errorf("refresh should replace the snapshot: %d then %d", first.TotalMatches(), second.TotalMatches())
	}
	stored, _ := store.Load(context.Background(), today)
	if stored != second {
		t.Errorf("stored snapshot is not the refreshed one")
	}
}

func TestService_Warm(t *testing.T) {
	store := newMemStore()
	store.teams[today] = map[string]stats.Profile{"1": {AvgScored: 2}, "2": {AvgScored: 1}}
	r, teams := newTestRunner(&fakeFixtures{}, store)
	svc := NewService(r, nil)

	n, err := svc.Warm(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Warm = %d, %v", n, err)
	}
	if p, _, ok := teams.Lookup(1); !ok || p.AvgScored != 2 {
		t.Errorf("team 1 not seeded: %+v", p)
	}

	if p := svc.Profile(context.Background(), 1); p.AvgScored != 2 {
		t.Errorf("Profile(1) = %+v, want seeded profile", p)
	}

	empty := NewService(NewRunner(Deps{Teams: teams, Store: newMemStore(), Now: clock, Location: istanbul}), nil)
	if n, err := empty.Warm(context.Background()); err != nil || n != 0 {
		t.Errorf("missing team cache should warm nothing: %d %v", n, err)
	}
}

func TestService_TodayAndRefreshDoNotOverlap(t *testing.T) {
	fix := &fakeFixtures{
		byCode: map[string][]provider.Match{"PL": {fixtureAt(1, 1, 2, "2025-03-01T12:30:00Z")}},
		delay:  5 * time.Millisecond,
	}
	r, _ := newTestRunner(fix, newMemStore())
	svc := NewService(r, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.Today(context.Background()); err != nil {
				t.Errorf("Today: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, _, err := svc.Refresh(context.Background()); err != nil {
				t.Errorf("Refresh: %v", err)
			}
		}()
	}
	wg.Wait()

	fix.mu.Lock()
	defer fix.mu.Unlock()
	if fix.maxActive != 1 {
		t.Errorf("overlapping fixture fetches = %d, want 1", fix.maxActive)
	}
}

// Package memory is an in-process datastore for development and tests.
// It honours the same contracts as the gorm repositories, including the
// (user, date) uniqueness of entries and atomic section completion.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"gynergy/internal/gamification"
	dbm "gynergy/internal/models/db_models"
	"gynergy/internal/repositories"
	"gynergy/pkg/utils"
)

type entryKey struct {
	user uuid.UUID
	date string
}

type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*dbm.Account
	entries  map[entryKey]*dbm.JournalEntry
	quotes   []dbm.DailyQuote
	actions  []dbm.DailyAction
}

var (
	_ repositories.AccountRepository     = (*Store)(nil)
	_ repositories.JournalRepository     = (*Store)(nil)
	_ repositories.LeaderboardRepository = (*Store)(nil)
	_ repositories.ContentRepository     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*dbm.Account),
		entries:  make(map[entryKey]*dbm.JournalEntry),
	}
}

// NewSeededStore returns a store preloaded with the default quotes and actions.
func NewSeededStore() *Store {
	s := NewStore()
	s.quotes = append(s.quotes, seedQuotes...)
	s.actions = append(s.actions, seedActions...)
	return s
}

func key(user uuid.UUID, date time.Time) entryKey {
	return entryKey{user: user, date: utils.FormatDate(date)}
}

// ---------- accounts ----------

func (s *Store) Create(_ context.Context, account *dbm.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(account.Email, uuid.Nil) {
		return gorm.ErrDuplicatedKey
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().Unix()
	account.CreatedAt, account.UpdatedAt = now, now

	cp := *account
	s.accounts[cp.ID] = &cp
	return nil
}

func (s *Store) FindById(_ context.Context, id uuid.UUID) (*dbm.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*dbm.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateProfile(_ context.Context, account *dbm.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[account.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.emailTaken(account.Email, account.ID) {
		return gorm.ErrDuplicatedKey
	}
	a.Email = account.Email
	a.DisplayName = account.DisplayName
	a.AvatarURL = account.AvatarURL
	a.UpdatedAt = time.Now().Unix()
	return nil
}

// emailTaken reports whether another account already uses email; callers hold mu.
func (s *Store) emailTaken(email string, except uuid.UUID) bool {
	for id, a := range s.accounts {
		if id != except && a.Email == email {
			return true
		}
	}
	return false
}

// ---------- journal ----------

func (s *Store) FindByUserAndDate(_ context.Context, userID uuid.UUID, date time.Time) (*dbm.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key(userID, date)]
	if !ok {
		return nil, nil
	}
	return cloneEntry(e), nil
}

func (s *Store) ListByUser(_ context.Context, userID uuid.UUID, filter repositories.EntryFilter) ([]dbm.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []dbm.JournalEntry
	for k, e := range s.entries {
		if k.user != userID {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		out = append(out, *cloneEntry(e))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) CompleteSection(_ context.Context, userID uuid.UUID, date time.Time, w gamification.SectionWrite) (*gamification.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	k := key(userID, date)
	entry, exists := s.entries[k]
	if !exists {
		now := time.Now().Unix()
		entry = &dbm.JournalEntry{UserID: userID, Date: date}
		entry.ID = uuid.New()
		entry.CreatedAt = now
	} else {
		entry = cloneEntry(entry)
	}

	wasActive := entry.HasActivity()
	awarded := gamification.ApplyWrite(entry, w)
	entry.UpdatedAt = time.Now().Unix()
	s.entries[k] = entry

	yesterdayActive := false
	if y, ok := s.entries[key(userID, date.AddDate(0, 0, -1))]; ok {
		yesterdayActive = y.HasActivity()
	}

	out := gamification.Settle(acct, entry, date, wasActive, yesterdayActive, awarded)
	out.Entry = cloneEntry(entry)
	return &out, nil
}

func (s *Store) ResetLapsedStreaks(_ context.Context, today time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, a := range s.accounts {
		if a.StreakCount > 0 && gamification.Lapsed(a.LastEntryDate, today) {
			a.StreakCount = 0
			n++
		}
	}
	return n, nil
}

func cloneEntry(e *dbm.JournalEntry) *dbm.JournalEntry {
	cp := *e
	cp.Morning.MoodFactors = append(pq.StringArray{}, e.Morning.MoodFactors...)
	cp.Evening.MoodFactors = append(pq.StringArray{}, e.Evening.MoodFactors...)
	cp.Affirmations = append([]dbm.Affirmation(nil), e.Affirmations...)
	cp.GratitudeItems = append([]dbm.GratitudeItem(nil), e.GratitudeItems...)
	if e.Morning.MoodScore != nil {
		v := *e.Morning.MoodScore
		cp.Morning.MoodScore = &v
	}
	if e.Evening.MoodScore != nil {
		v := *e.Evening.MoodScore
		cp.Evening.MoodScore = &v
	}
	return &cp
}

// ---------- leaderboard ----------

func (s *Store) TopUsers(_ context.Context, metric repositories.LeaderboardMetric, limit int) ([]dbm.Account, error) {
	s.mu.Lock()
	rows := make([]dbm.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		rows = append(rows, *a)
	}
	s.mu.Unlock()

	primary := func(a dbm.Account) (int, int) { return a.StreakCount, a.TotalPoints }
	if metric == repositories.MetricPoints {
		primary = func(a dbm.Account) (int, int) { return a.TotalPoints, a.StreakCount }
	}

	sort.Slice(rows, func(i, j int) bool {
		pi, si := primary(rows[i])
		pj, sj := primary(rows[j])
		if pi != pj {
			return pi > pj
		}
		if si != sj {
			return si > sj
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// ---------- content ----------

func (s *Store) QuoteFor(_ context.Context, day time.Time) (*dbm.DailyQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.quotes {
		if q := s.quotes[i]; q.ActiveDate != nil && utils.SameDay(*q.ActiveDate, day) {
			return &q, nil
		}
	}
	if len(s.quotes) == 0 {
		return nil, nil
	}
	q := s.quotes[repositories.RotationIndex(day, len(s.quotes))]
	return &q, nil
}

func (s *Store) ActionFor(_ context.Context, day time.Time) (*dbm.DailyAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.actions {
		if a := s.actions[i]; a.ActiveDate != nil && utils.SameDay(*a.ActiveDate, day) {
			return &a, nil
		}
	}
	if len(s.actions) == 0 {
		return nil, nil
	}
	a := s.actions[repositories.RotationIndex(day, len(s.actions))]
	return &a, nil
}

// AddQuote and AddAction curate content; the HTTP API never writes it.
func (s *Store) AddQuote(q dbm.DailyQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	s.quotes = append(s.quotes, q)
}

func (s *Store) AddAction(a dbm.DailyAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.actions = append(s.actions, a)
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gynergy/internal/gamification"
	dbm "gynergy/internal/models/db_models"
	"gynergy/internal/repositories"
)

var (
	ctx   = context.Background()
	today = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
)

func newAccount(t *testing.T, s *Store, email string) *dbm.Account {
	t.Helper()
	a := &dbm.Account{Email: email}
	require.NoError(t, s.Create(ctx, a))
	return a
}

func morning(text string) gamification.SectionWrite {
	return gamification.SectionWrite{Section: gamification.SectionMorning, Reflection: text}
}

func TestCompleteSection_Idempotent(t *testing.T) {
	s := NewStore()
	a := newAccount(t, s, "a@example.com")

	first, err := s.CompleteSection(ctx, a.ID, today, morning("one"))
	require.NoError(t, err)
	second, err := s.CompleteSection(ctx, a.ID, today, morning("two"))
	require.NoError(t, err)

	assert.Equal(t, 10, first.Awarded)
	assert.Equal(t, 0, second.Awarded)
	assert.Equal(t, 10, second.TotalPoints)
	assert.Equal(t, 1, second.Streak)

	entries, err := s.ListByUser(ctx, a.ID, repositories.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "two", entries[0].Morning.Reflection)
}

func TestCompleteSection_StreakAcrossDays(t *testing.T) {
	s := NewStore()
	a := newAccount(t, s, "a@example.com")

	d1 := today.AddDate(0, 0, -3)
	out, err := s.CompleteSection(ctx, a.ID, d1, morning("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)

	out, err = s.CompleteSection(ctx, a.ID, d1.AddDate(0, 0, 1), morning("x"))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Streak)

	// skip a day
	out, err = s.CompleteSection(ctx, a.ID, today, morning("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, 2, out.LongestStreak)
	assert.Equal(t, 30, out.TotalPoints)
}

func TestCompleteSection_ConcurrentWritesCountOnce(t *testing.T) {
	s := NewStore()
	a := newAccount(t, s, "a@example.com")

	sections := []gamification.Section{
		gamification.SectionMorning, gamification.SectionEvening, gamification.SectionGratitudeAction,
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := gamification.SectionWrite{Section: sections[i%3], Reflection: fmt.Sprintf("r%d", i)}
			_, err := s.CompleteSection(ctx, a.ID, today, w)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	acct, err := s.FindById(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, acct.TotalPoints)
	assert.Equal(t, 1, acct.StreakCount)

	entry, err := s.FindByUserAndDate(ctx, a.ID, today)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 30, entry.TotalPoints)
}

func TestCompleteSection_UnknownUser(t *testing.T) {
	s := NewStore()
	_, err := s.CompleteSection(ctx, dbm.Account{}.ID, today, morning("x"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByUser_FilterAndOrder(t *testing.T) {
	s := NewStore()
	a := newAccount(t, s, "a@example.com")
	b := newAccount(t, s, "b@example.com")

	for i := 0; i < 5; i++ {
		_, err := s.CompleteSection(ctx, a.ID, today.AddDate(0, 0, -i), morning("x"))
		require.NoError(t, err)
	}
	_, err := s.CompleteSection(ctx, b.ID, today, morning("other"))
	require.NoError(t, err)

	all, err := s.ListByUser(ctx, a.ID, repositories.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Date.After(all[i].Date))
	}

	from, to := today.AddDate(0, 0, -3), today.AddDate(0, 0, -1)
	some, err := s.ListByUser(ctx, a.ID, repositories.EntryFilter{From: &from, To: &to, Limit: 2})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.True(t, some[0].Date.Equal(to))
}

func TestTopUsers(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		a := newAccount(t, s, fmt.Sprintf("u%d@example.com", i))
		s.accounts[a.ID].StreakCount = i % 3
		s.accounts[a.ID].TotalPoints = i * 10
	}

	rows, err := s.TopUsers(ctx, repositories.MetricStreak, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[0].StreakCount)
	assert.Equal(t, 20, rows[0].TotalPoints)
	assert.Equal(t, 1, rows[1].StreakCount)
	assert.Equal(t, 40, rows[1].TotalPoints)

	rows, err = s.TopUsers(ctx, repositories.MetricPoints, 10)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].TotalPoints, rows[i].TotalPoints)
	}
}

func TestResetLapsedStreaks(t *testing.T) {
	s := NewStore()
	active := newAccount(t, s, "active@example.com")
	lapsed := newAccount(t, s, "lapsed@example.com")

	_, err := s.CompleteSection(ctx, active.ID, today.AddDate(0, 0, -1), morning("x"))
	require.NoError(t, err)
	_, err = s.CompleteSection(ctx, lapsed.ID, today.AddDate(0, 0, -2), morning("x"))
	require.NoError(t, err)

	n, err := s.ResetLapsedStreaks(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	a, _ := s.FindById(ctx, active.ID)
	l, _ := s.FindById(ctx, lapsed.ID)
	assert.Equal(t, 1, a.StreakCount)
	assert.Equal(t, 0, l.StreakCount)
	assert.Equal(t, 1, l.LongestStreak)
}

func TestAccounts_EmailUniqueness(t *testing.T) {
	s := NewStore()
	a := newAccount(t, s, "a@example.com")
	newAccount(t, s, "b@example.com")

	assert.ErrorIs(t, s.Create(ctx, &dbm.Account{Email: "a@example.com"}), gorm.ErrDuplicatedKey)

	upd := *a
	upd.Email = "b@example.com"
	assert.ErrorIs(t, s.UpdateProfile(ctx, &upd), gorm.ErrDuplicatedKey)

	upd.Email = "c@example.com"
	upd.DisplayName = "Ada"
	require.NoError(t, s.UpdateProfile(ctx, &upd))
	got, _ := s.FindByEmail(ctx, "c@example.com")
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.DisplayName)
}

func TestAccounts_EmailUniquenessIsCaseSensitive(t *testing.T) {
	s := NewStore()
	newAccount(t, s, "A@example.com")
	newAccount(t, s, "a@example.com")

	got, _ := s.FindByEmail(ctx, "a@example.com")
	require.NotNil(t, got)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestContent_CuratedThenRotation(t *testing.T) {
	s := NewSeededStore()

	q, err := s.QuoteFor(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, q)

	d := today
	s.AddQuote(dbm.DailyQuote{Quote: "Curated", Author: "Editor", ActiveDate: &d})
	q, err = s.QuoteFor(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, "Curated", q.Quote)

	empty := NewStore()
	act, err := empty.ActionFor(ctx, today)
	require.NoError(t, err)
	assert.Nil(t, act)
}

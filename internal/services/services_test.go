package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gynergy/internal/models/db_models"
	"gynergy/internal/models/request_models"
	"gynergy/internal/repositories"
	"gynergy/internal/repositories/memory"
	mem "gynergy/pkg/memcache"
	"gynergy/pkg/utils"
)

var ctx = context.Background()

func fixedCalendar(day string) utils.Calendar {
	t, _ := time.Parse(utils.DateLayout, day)
	return utils.Calendar{Loc: time.UTC, Now: func() time.Time { return t.Add(9 * time.Hour) }}
}

func strPtr(s string) *string { return &s }

func seedAccount(t *testing.T, store *memory.Store, email string) *db_models.Account {
	t.Helper()
	a := &db_models.Account{Email: email}
	require.NoError(t, store.Create(ctx, a))
	return a
}

// ---------- journal ----------

func TestJournalService_SaveLegacyTextIsMorning(t *testing.T) {
	store := memory.NewStore()
	a := seedAccount(t, store, "a@example.com")
	svc := NewJournalService(store, fixedCalendar("2026-10-18"))

	out, err := svc.Save(ctx, a.ID, request_models.SaveEntryRequest{Text: strPtr("hello")})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Awarded)
	assert.Equal(t, 10, out.Points)
	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, "2026-10-18", out.Entry.Date)
	assert.True(t, out.Entry.Morning.Completed)
	assert.Equal(t, "hello", out.Entry.Morning.Reflection)

	again, err := svc.Save(ctx, a.ID, request_models.SaveEntryRequest{Text: strPtr("hello again")})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Awarded)
	assert.Equal(t, 10, again.Points)
}

func TestJournalService_SaveValidation(t *testing.T) {
	store := memory.NewStore()
	a := seedAccount(t, store, "a@example.com")
	svc := NewJournalService(store, fixedCalendar("2026-10-18"))

	cases := []request_models.SaveEntryRequest{
		{},
		{Section: "afternoon", Reflection: strPtr("x")},
		{Section: "evening"},
		{Section: "morning", Reflection: strPtr("x"), MoodFactors: []string{"Pizza"}},
	}
	for _, req := range cases {
		_, err := svc.Save(ctx, a.ID, req)
		assert.ErrorIs(t, err, utils.ErrValidation)
	}

	entries, err := store.ListByUser(ctx, a.ID, repositories.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected writes must not touch the datastore")
}

func TestJournalService_SaveUnknownUser(t *testing.T) {
	svc := NewJournalService(memory.NewStore(), fixedCalendar("2026-10-18"))
	_, err := svc.Save(ctx, uuid.New(), request_models.SaveEntryRequest{Text: strPtr("x")})
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestJournalService_MorningItemsAndToday(t *testing.T) {
	store := memory.NewStore()
	a := seedAccount(t, store, "a@example.com")
	svc := NewJournalService(store, fixedCalendar("2026-10-18"))

	empty, err := svc.Today(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.ID)
	assert.False(t, empty.Morning.Completed)
	assert.Equal(t, "2026-10-18", empty.Date)

	score := 4
	_, err = svc.Save(ctx, a.ID, request_models.SaveEntryRequest{
		Section:      "morning",
		Reflection:   strPtr("Slept well"),
		MoodScore:    &score,
		MoodFactors:  []string{"Good sleep"},
		Affirmations: []string{"I am capable"},
		Gratitude:    []string{"coffee", "sun"},
		Excitement:   []string{"weekend"},
	})
	require.NoError(t, err)

	today, err := svc.Today(ctx, a.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, today.ID)
	assert.Equal(t, []string{"I am capable"}, today.Affirmations)
	assert.Equal(t, []string{"coffee", "sun"}, today.Gratitude)
	assert.Equal(t, []string{"weekend"}, today.Excitement)
	require.NotNil(t, today.Morning.MoodScore)
	assert.Equal(t, 4, *today.Morning.MoodScore)
}

func TestJournalService_HistoryAndCalendar(t *testing.T) {
	store := memory.NewStore()
	a := seedAccount(t, store, "a@example.com")

	for _, d := range []string{"2026-10-01", "2026-10-02", "2026-10-05"} {
		svc := NewJournalService(store, fixedCalendar(d))
		_, err := svc.Save(ctx, a.ID, request_models.SaveEntryRequest{Section: "evening", Reflection: strPtr("done")})
		require.NoError(t, err)
	}

	svc := NewJournalService(store, fixedCalendar("2026-10-18"))
	history, err := svc.History(ctx, a.ID, request_models.HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2026-10-05", history[0].Date)
	assert.Equal(t, "2026-10-01", history[2].Date)

	_, err = svc.History(ctx, a.ID, request_models.HistoryQuery{From: "2026-10-05", To: "2026-10-01"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	days, err := svc.Calendar(ctx, a.ID, "")
	require.NoError(t, err)
	require.Len(t, days, 31)
	assert.True(t, days[0].Evening)
	assert.Equal(t, 10, days[1].Points)
	assert.False(t, days[2].Evening)

	_, err = svc.Calendar(ctx, a.ID, "October")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

// ---------- ocr ----------

type fakeRecognizer struct {
	calls int
	text  string
	err   error
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeRecognizer) Provider() string { return "fake" }

func pngBytes(size int) []byte {
	header := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	return append(header, bytes.Repeat([]byte{0}, size-len(header))...)
}

func TestOcrService(t *testing.T) {
	t.Run("oversized never reaches recognizer", func(t *testing.T) {
		rec := &fakeRecognizer{text: "x"}
		_, err := NewOcrService(rec, time.Second).Transcribe(ctx, pngBytes(6<<20))
		assert.ErrorIs(t, err, utils.ErrValidation)
		assert.Equal(t, 0, rec.calls)
	})

	t.Run("wrong type never reaches recognizer", func(t *testing.T) {
		rec := &fakeRecognizer{text: "x"}
		_, err := NewOcrService(rec, time.Second).Transcribe(ctx, []byte("%PDF-1.7 not an image"))
		assert.ErrorIs(t, err, utils.ErrValidation)
		assert.Equal(t, 0, rec.calls)
	})

	t.Run("png transcribed", func(t *testing.T) {
		rec := &fakeRecognizer{text: "Dear journal"}
		text, err := NewOcrService(rec, time.Second).Transcribe(ctx, pngBytes(1024))
		require.NoError(t, err)
		assert.Equal(t, "Dear journal", text)
		assert.Equal(t, 1, rec.calls)
	})

	t.Run("provider failure is upstream", func(t *testing.T) {
		rec := &fakeRecognizer{err: errors.New("quota")}
		_, err := NewOcrService(rec, time.Second).Transcribe(ctx, pngBytes(1024))
		assert.ErrorIs(t, err, utils.ErrUpstream)
	})
}

// ---------- auth ----------

type captureMailer struct {
	mu    sync.Mutex
	links []string
	codes []string
	err   error
}

func (m *captureMailer) SendSignInMail(_ context.Context, _, link, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
	m.codes = append(m.codes, code)
	return m.err
}

func newAuth(store *memory.Store, mailer IMailService) AccountServiceInterface {
	return NewAccountService(store, mailer, mem.NewLoginTokens(), utils.NewJWTManager("secret", time.Hour),
		AuthSettings{BaseURL: "https://api.example.com", MagicLinkTTL: time.Minute})
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	const prefix = "https://api.example.com/api/auth/callback?token="
	require.True(t, len(link) > len(prefix))
	return link[len(prefix):]
}

func TestAccountService_MagicLink(t *testing.T) {
	store := memory.NewStore()
	mailer := &captureMailer{}
	svc := newAuth(store, mailer)

	require.NoError(t, svc.RequestSignIn(ctx, "  New@Example.com "))
	require.Len(t, mailer.links, 1)

	acct, err := store.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, acct, "first sign-in creates the account")

	session, err := svc.CompleteMagicLink(ctx, tokenFromLink(t, mailer.links[0]))
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, acct.ID, session.Account.ID)

	_, err = svc.CompleteMagicLink(ctx, tokenFromLink(t, mailer.links[0]))
	assert.ErrorIs(t, err, utils.ErrInvalidToken, "links are single use")
}

func TestAccountService_VerifyOtp(t *testing.T) {
	store := memory.NewStore()
	mailer := &captureMailer{}
	svc := newAuth(store, mailer)

	require.NoError(t, svc.RequestSignIn(ctx, "a@example.com"))
	code := mailer.codes[0]
	assert.Len(t, code, 6)

	_, err := svc.VerifyOtp(ctx, request_models.VerifyOtpRequest{Email: "b@example.com", Code: code})
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	session, err := svc.VerifyOtp(ctx, request_models.VerifyOtpRequest{Email: "a@example.com", Code: code})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", session.Account.Email)
}

func TestAccountService_RequestSignInErrors(t *testing.T) {
	svc := newAuth(memory.NewStore(), &captureMailer{err: errors.New("smtp down")})

	assert.ErrorIs(t, svc.RequestSignIn(ctx, "not-an-email"), utils.ErrValidation)
	assert.ErrorIs(t, svc.RequestSignIn(ctx, "a@example.com"), utils.ErrUpstream)
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	store := memory.NewStore()
	svc := newAuth(store, &captureMailer{})

	session, err := svc.Register(ctx, request_models.SignUpRequest{
		Email: "a@example.com", Password: "correct horse", DisplayName: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", session.Account.DisplayName)

	_, err = svc.Register(ctx, request_models.SignUpRequest{Email: "A@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "a@example.com", Password: "wrong pass"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	session, err = svc.Login(ctx, request_models.LoginRequest{Email: "a@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

// ---------- profile ----------

func TestProfileService_Update(t *testing.T) {
	store := memory.NewStore()
	a := seedAccount(t, store, "a@example.com")
	seedAccount(t, store, "taken@example.com")
	svc := NewProfileService(store)

	_, err := svc.Update(ctx, a.ID, request_models.UpdateProfileRequest{Email: strPtr("bad email")})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Update(ctx, a.ID, request_models.UpdateProfileRequest{Email: strPtr("taken@example.com")})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	_, err = svc.Update(ctx, a.ID, request_models.UpdateProfileRequest{ProfilePicture: strPtr("javascript:alert(1)")})
	assert.ErrorIs(t, err, utils.ErrValidation)

	out, err := svc.Update(ctx, a.ID, request_models.UpdateProfileRequest{
		Name:           strPtr(" Ada "),
		ProfilePicture: strPtr("https://cdn.example.com/ada.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.Name)
	assert.Equal(t, "a@example.com", out.Email)
	assert.Equal(t, "https://cdn.example.com/ada.png", out.ProfilePicture)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestProfileService_Progress(t *testing.T) {
	store := memory.NewStore()
	a := seedAccount(t, store, "a@example.com")
	journal := NewJournalService(store, fixedCalendar("2026-10-18"))
	for _, section := range []string{"morning", "evening", "gratitude_action"} {
		_, err := journal.Save(ctx, a.ID, request_models.SaveEntryRequest{Section: section, Reflection: strPtr("x")})
		require.NoError(t, err)
	}

	p, err := NewProfileService(store).Progress(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Points)
	assert.Equal(t, "Base Camp", p.CurrentMilestone.Name)
	require.NotNil(t, p.NextMilestone)
	assert.Equal(t, "First Rest", p.NextMilestone.Name)
	assert.Equal(t, 20, p.PointsToNext)
	assert.Equal(t, "2026-10-18", p.LastEntryDate)
	assert.Len(t, p.Milestones, 5)
}

// ---------- leaderboard & content ----------

func TestLeaderboardService_Top(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 120; i++ {
		a := seedAccount(t, store, uuid.NewString()+"@example.com")
		journal := NewJournalService(store, fixedCalendar("2026-10-18"))
		if i%2 == 0 {
			_, err := journal.Save(ctx, a.ID, request_models.SaveEntryRequest{Text: strPtr("x")})
			require.NoError(t, err)
		}
	}
	svc := NewLeaderboardService(store)

	rows, err := svc.Top(ctx, repositories.MetricStreak, 0)
	require.NoError(t, err)
	assert.Len(t, rows, DefaultLeaderboardSize)

	rows, err = svc.Top(ctx, repositories.MetricPoints, 1000)
	require.NoError(t, err)
	require.Len(t, rows, MaxLeaderboardSize)
	for i := range rows {
		assert.Equal(t, i+1, rows[i].Rank)
		assert.Equal(t, "Anon", rows[i].DisplayName)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].Points, rows[i].Points)
		}
	}
	assert.Equal(t, 10, rows[0].Points)
}

func TestContentService(t *testing.T) {
	svc := NewContentService(memory.NewSeededStore(), fixedCalendar("2026-10-18"))
	q, err := svc.QuoteOfTheDay(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, q.Quote)
	assert.Equal(t, "2026-10-18", q.Date)

	_, err = NewContentService(memory.NewStore(), fixedCalendar("2026-10-18")).ActionOfTheDay(ctx)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestStreakDecayJob_Run(t *testing.T) {
	store := memory.NewStore()
	a := seedAccount(t, store, "a@example.com")
	_, err := NewJournalService(store, fixedCalendar("2026-10-10")).Save(ctx, a.ID,
		request_models.SaveEntryRequest{Text: strPtr("x")})
	require.NoError(t, err)

	job := NewStreakDecayJob(store, fixedCalendar("2026-10-18"), zap.NewNop())
	n, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	acct, _ := store.FindById(ctx, a.ID)
	assert.Equal(t, 0, acct.StreakCount)
	assert.Equal(t, 10, acct.TotalPoints)
}

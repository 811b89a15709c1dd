package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gynergy/internal/gamification"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestLeaderboardRepository_TopUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeaderboardRepository(db)

	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT "id","display_name","streak_count","total_points" FROM "users" .*ORDER BY total_points DESC, streak_count DESC, id ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "streak_count", "total_points"}).
			AddRow(a.String(), "Ada", 3, 90).
			AddRow(b.String(), "", 7, 60))

	rows, err := repo.TopUsers(context.Background(), MetricPoints, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, a, rows[0].ID)
	assert.Equal(t, 90, rows[0].TotalPoints)
	assert.Equal(t, "Anon", rows[1].PublicName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmailMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	acct, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, acct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_ResetLapsedStreaks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "streak_count"=.* WHERE streak_count > 0 AND \(+last_entry_date IS NULL OR last_entry_date < \$\d\)+`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	n, err := repo.ResetLapsedStreaks(context.Background(), time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var (
	lockUserSQL      = `SELECT \* FROM "users" WHERE id = \$1 .*FOR UPDATE`
	findEntrySQL     = `SELECT \* FROM "journal_entries" WHERE \(?user_id = \$1 AND date = \$2`
	upsertEntrySQL   = `INSERT INTO "journal_entries" .*ON CONFLICT \("user_id","date"\) DO UPDATE SET .*"morning_completed"="excluded"."morning_completed"`
	yesterdaySQL     = `SELECT count\(\*\) FROM "journal_entries" WHERE .*\(morning_completed OR evening_completed OR gratitude_action_completed\)`
	settleAccountSQL = `UPDATE "users" SET .*"streak_count"=\$\d.*"total_points"=\$\d`
)

func userRow(id uuid.UUID, streak, points int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "total_points", "streak_count", "longest_streak", "last_entry_date"}).
		AddRow(id.String(), "a@example.com", points, streak, streak, nil)
}

func TestJournalRepository_CompleteSectionNewEntry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepository(db)
	userID := uuid.New()
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserSQL).WillReturnRows(userRow(userID, 3, 40))
	mock.ExpectQuery(findEntrySQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(upsertEntrySQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(yesterdaySQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(settleAccountSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.CompleteSection(context.Background(), userID, day, gamification.SectionWrite{
		Section:    gamification.SectionMorning,
		Reflection: "rested",
	})
	require.NoError(t, err)
	assert.Equal(t, gamification.PointsPerSection, out.Awarded)
	assert.Equal(t, 4, out.Streak)
	assert.Equal(t, 4, out.LongestStreak)
	assert.Equal(t, 50, out.TotalPoints)
	assert.True(t, out.Entry.Morning.Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_CompleteSectionAlreadyCompleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepository(db)
	userID, entryID := uuid.New(), uuid.New()
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserSQL).WillReturnRows(userRow(userID, 2, 30))
	mock.ExpectQuery(findEntrySQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "morning_completed", "morning_points", "total_points"}).
			AddRow(entryID.String(), userID.String(), day, true, 10, 10))
	mock.ExpectQuery(`SELECT \* FROM "affirmations" WHERE "affirmations"."entry_id" = \$1 ORDER BY position ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "gratitude_items" WHERE "gratitude_items"."entry_id" = \$1 ORDER BY kind ASC, position ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(upsertEntrySQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(settleAccountSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.CompleteSection(context.Background(), userID, day, gamification.SectionWrite{
		Section:    gamification.SectionMorning,
		Reflection: "edited",
	})
	require.NoError(t, err)
	assert.Zero(t, out.Awarded)
	assert.Equal(t, 2, out.Streak)
	assert.Equal(t, 30, out.TotalPoints)
	assert.Equal(t, "edited", out.Entry.Morning.Reflection)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_CompleteSectionReplacesItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepository(db)
	userID := uuid.New()
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserSQL).WillReturnRows(userRow(userID, 0, 0))
	mock.ExpectQuery(findEntrySQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(upsertEntrySQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "affirmations" WHERE entry_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "gratitude_items" WHERE entry_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "affirmations"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "gratitude_items"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(yesterdaySQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(settleAccountSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.CompleteSection(context.Background(), userID, day, gamification.SectionWrite{
		Section:      gamification.SectionMorning,
		Reflection:   "rested",
		ReplaceItems: true,
		Affirmations: []string{"I am enough"},
		Gratitude:    []string{"tea"},
		Excitement:   []string{"the weekend"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)
	require.Len(t, out.Entry.Affirmations, 1)
	assert.Equal(t, out.Entry.ID, out.Entry.Affirmations[0].EntryID)
	assert.Len(t, out.Entry.GratitudeItems, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_CompleteSectionRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepository(db)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.CompleteSection(context.Background(), userID, time.Now(), gamification.SectionWrite{
		Section:    gamification.SectionMorning,
		Reflection: "rested",
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepository(db)
	userID, entryID := uuid.New(), uuid.New()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "journal_entries" WHERE user_id = \$1 AND date >= \$2 AND date <= \$3 .*ORDER BY date DESC LIMIT \$4`).
		WithArgs(userID, from, to, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "evening_completed"}).
			AddRow(entryID.String(), userID.String(), to, true))
	mock.ExpectQuery(`SELECT \* FROM "affirmations" WHERE "affirmations"."entry_id" = \$1 ORDER BY position ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "entry_id", "text", "position"}).
			AddRow(uuid.New().String(), entryID.String(), "I am enough", 0))
	mock.ExpectQuery(`SELECT \* FROM "gratitude_items" WHERE "gratitude_items"."entry_id" = \$1 ORDER BY kind ASC, position ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entries, err := repo.ListByUser(context.Background(), userID, EntryFilter{From: &from, To: &to, Limit: 7})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Evening.Completed)
	require.Len(t, entries[0].Affirmations, 1)
	assert.Equal(t, "I am enough", entries[0].Affirmations[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_RotatesWhenNothingCurated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "daily_quotes" WHERE active_date = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "daily_quotes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "daily_quotes" ORDER BY created_at ASC, id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quote", "author"}).
			AddRow(uuid.New().String(), "Keep going.", "Anonymous"))

	q, err := repo.QuoteFor(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "Keep going.", q.Quote)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotationIndex(t *testing.T) {
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, RotationIndex(day, 5), RotationIndex(day, 5))
	assert.NotEqual(t, RotationIndex(day, 5), RotationIndex(day.AddDate(0, 0, 1), 5))
	assert.Equal(t, 0, RotationIndex(day, 0))
}

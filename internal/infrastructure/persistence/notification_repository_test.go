package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/notification"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotification(t *testing.T, recipient uuid.UUID, createdAt time.Time) *notification.Notification {
	t.Helper()
	idea := uuid.New()
	n, err := notification.NewMention(recipient, uuid.New(), notification.TypeIdeaMention, idea, idea, "Ada tagged you")
	require.NoError(t, err)
	n.CreatedAt = createdAt
	return n
}

func TestGormNotificationRepository_Recap(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()
	recipient := uuid.New()

	stale := newTestNotification(t, recipient, now.Add(-48*time.Hour))
	older := newTestNotification(t, recipient, now.Add(-5*time.Hour))
	newer := newTestNotification(t, uuid.New(), now.Add(-time.Hour))
	for _, n := range []*notification.Notification{newer, stale, older} {
		require.NoError(t, repo.Create(ctx, n))
	}

	unsent, skipped, err := repo.FindUnsentSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, unsent, 2)
	assert.Equal(t, older.ID, unsent[0].ID, "oldest first")
	assert.Equal(t, newer.ID, unsent[1].ID)

	require.NoError(t, repo.MarkRecapSent(ctx, []uuid.UUID{older.ID, newer.ID}))
	require.NoError(t, repo.MarkRecapSent(ctx, nil))

	unsent, _, err = repo.FindUnsentSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, unsent)
}

func TestGormNotificationRepository_FindUnsentSinceSkipsMalformed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	valid := newTestNotification(t, uuid.New(), now.Add(-2*time.Hour))
	require.NoError(t, repo.Create(ctx, valid))
	legacy := models.NotificationModelFromDomain(newTestNotification(t, uuid.New(), now.Add(-time.Hour)))
	legacy.Type = "legacy_mention"
	require.NoError(t, db.Create(legacy).Error)

	unsent, skipped, err := repo.FindUnsentSince(ctx, now.Add(-24*time.Hour))

	require.NoError(t, err)
	require.Len(t, unsent, 1)
	assert.Equal(t, valid.ID, unsent[0].ID)
	assert.Equal(t, []uuid.UUID{legacy.ID}, skipped)

	require.NoError(t, repo.MarkRecapSent(ctx, append(skipped, valid.ID)))
	unsent, skipped, err = repo.FindUnsentSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, unsent)
	assert.Empty(t, skipped)
}

func TestGormNotificationRepository_MarkRecapSentIsOneTransaction(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormNotificationRepository(gormDB)

	ids := make([]uuid.UUID, markSentChunk+1)
	for i := range ids {
		ids[i] = uuid.New()
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET "recap_sent"=\$1 WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, markSentChunk))
	mock.ExpectExec(`UPDATE "notifications" SET "recap_sent"=\$1 WHERE id IN`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.MarkRecapSent(context.Background(), ids)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormNotificationRepository_Inbox(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()
	me, someoneElse := uuid.New(), uuid.New()

	var mine []*notification.Notification
	for i := 0; i < 3; i++ {
		n := newTestNotification(t, me, now.Add(time.Duration(-3+i)*time.Minute))
		require.NoError(t, repo.Create(ctx, n))
		mine = append(mine, n)
	}
	theirs := newTestNotification(t, someoneElse, now)
	require.NoError(t, repo.Create(ctx, theirs))

	t.Run("newest first with paging", func(t *testing.T) {
		page, err := repo.FindByRecipient(ctx, me, false, shared.Filter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, mine[2].ID, page[0].ID)

		total, err := repo.CountByRecipient(ctx, me, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("mark read is scoped to the recipient", func(t *testing.T) {
		require.NoError(t, repo.MarkRead(ctx, me, mine[0].ID))
		assert.ErrorIs(t, repo.MarkRead(ctx, me, theirs.ID), shared.ErrNotFound)

		unread, err := repo.CountByRecipient(ctx, me, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), unread)

		list, err := repo.FindByRecipient(ctx, me, true, shared.Filter{PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("mark all read", func(t *testing.T) {
		changed, err := repo.MarkAllRead(ctx, me)
		require.NoError(t, err)
		assert.Equal(t, int64(2), changed)

		changed, err = repo.MarkAllRead(ctx, me)
		require.NoError(t, err)
		assert.Zero(t, changed)

		unread, err := repo.CountByRecipient(ctx, someoneElse, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread)
	})
}

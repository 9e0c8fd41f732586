package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGormNotificationRepository_CountUnread(t *testing.T) {
	t.Run("counts only unread rows of the recipient", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormNotificationRepository(db)

		recipientID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE recipient_id = \$1 AND is_read = \$2`).
			WithArgs(recipientID, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountUnread(context.Background(), recipientID)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_HasRecentOfType(t *testing.T) {
	t.Run("scopes to type, product and cutoff", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormNotificationRepository(db)

		recipientID := uuid.New()
		productID := uuid.New()
		since := time.Now().Add(-24 * time.Hour)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE recipient_id = \$1 AND type = \$2 AND related_product_id = \$3 AND created_at >= \$4`).
			WithArgs(recipientID, social.NotificationLowStock, productID, since).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		recent, err := repo.HasRecentOfType(context.Background(), recipientID, social.NotificationLowStock, productID, since)

		assert.NoError(t, err)
		assert.True(t, recent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_MarkRead(t *testing.T) {
	t.Run("reports how many rows changed", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormNotificationRepository(db)

		recipientID := uuid.New()
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		mock.ExpectExec(`UPDATE "notifications" SET .* WHERE recipient_id = \$\d AND id IN \(\$\d,\$\d\) AND is_read = \$\d`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		changed, err := repo.MarkRead(context.Background(), recipientID, ids)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips the query for an empty id list", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormNotificationRepository(db)

		changed, err := repo.MarkRead(context.Background(), uuid.New(), nil)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFollowRepository_Delete(t *testing.T) {
	t.Run("returns removed row count", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormFollowRepository(db)

		followerID := uuid.New()
		followingID := uuid.New()

		mock.ExpectExec(`DELETE FROM "follows" WHERE follower_id = \$1 AND following_id = \$2`).
			WithArgs(followerID, followingID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		removed, err := repo.Delete(context.Background(), followerID, followingID)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFollowRepository_FollowingIDs(t *testing.T) {
	t.Run("plucks the followed IDs", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormFollowRepository(db)

		followerID := uuid.New()
		followedA := uuid.New()
		followedB := uuid.New()

		mock.ExpectQuery(`SELECT "following_id" FROM "follows" WHERE follower_id = \$1`).
			WithArgs(followerID).
			WillReturnRows(sqlmock.NewRows([]string{"following_id"}).AddRow(followedA).AddRow(followedB))

		ids, err := repo.FollowingIDs(context.Background(), followerID)

		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{followedA, followedB}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

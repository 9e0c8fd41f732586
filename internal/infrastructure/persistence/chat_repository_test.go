package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/comercium/backend/internal/domain/chat"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormThreadRepository_FindByPair(t *testing.T) {
	t.Run("looks up the pair in canonical order", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormThreadRepository(db)

		a := uuid.MustParse("ffffffff-0000-0000-0000-000000000000")
		b := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		threadID := uuid.New()

		// b sorts before a, so the query must swap the pair
		rows := sqlmock.NewRows([]string{"id", "user1_id", "user2_id"}).
			AddRow(threadID, b, a)

		mock.ExpectQuery(`SELECT \* FROM "direct_threads" WHERE user1_id = \$1 AND user2_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(b, a, 1).
			WillReturnRows(rows)

		thread, err := repo.FindByPair(context.Background(), a, b)

		assert.NoError(t, err)
		require.NotNil(t, thread)
		assert.Equal(t, threadID, thread.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound without a thread", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormThreadRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "direct_threads" WHERE user1_id = \$1 AND user2_id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		thread, err := repo.FindByPair(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, thread)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBlockRepository_ExistsBetween(t *testing.T) {
	t.Run("matches blocks in either direction", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBlockRepository(db)

		a := uuid.New()
		b := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "blocked_users" WHERE \(blocker_id = \$1 AND blocked_id = \$2\) OR \(blocker_id = \$3 AND blocked_id = \$4\)`).
			WithArgs(a, b, b, a).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		blocked, err := repo.ExistsBetween(context.Background(), a, b)

		assert.NoError(t, err)
		assert.True(t, blocked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBlockRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when the pair was not blocked", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBlockRepository(db)

		mock.ExpectExec(`DELETE FROM "blocked_users" WHERE blocker_id = \$1 AND blocked_id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.New(), uuid.New())

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormRequestRepository_HasAccepted(t *testing.T) {
	t.Run("only accepted requests count", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormRequestRepository(db)

		a := uuid.New()
		b := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "chat_requests" WHERE status = \$1 AND \(\(requester_id = \$2 AND target_id = \$3\) OR \(requester_id = \$4 AND target_id = \$5\)\)`).
			WithArgs(chat.RequestStatusAccepted, a, b, b, a).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		accepted, err := repo.HasAccepted(context.Background(), a, b)

		assert.NoError(t, err)
		assert.False(t, accepted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormRequestRepository_DeclineAllBetween(t *testing.T) {
	t.Run("declines every request of the pair", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormRequestRepository(db)

		a := uuid.New()
		b := uuid.New()

		mock.ExpectExec(`UPDATE "chat_requests" SET .* WHERE \(\(requester_id = \$\d AND target_id = \$\d\) OR \(requester_id = \$\d AND target_id = \$\d\)\) AND status <> \$\d`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.DeclineAllBetween(context.Background(), a, b)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormChannelMessageRepository_ListAfter(t *testing.T) {
	t.Run("lists oldest first from the beginning", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormChannelMessageRepository(db)

		senderID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "user_id", "text"}).
			AddRow(uuid.New(), senderID, "hola a todos").
			AddRow(uuid.New(), senderID, "alguien vende una bici?")

		mock.ExpectQuery(`SELECT \* FROM "channel_messages" ORDER BY created_at ASC LIMIT .*`).
			WithArgs(50).
			WillReturnRows(rows)

		messages, err := repo.ListAfter(context.Background(), nil, 50)

		assert.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "hola a todos", messages[0].Text)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("resolves the cursor through a subquery", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormChannelMessageRepository(db)

		afterID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "channel_messages" WHERE created_at > \(SELECT "created_at" FROM "channel_messages" WHERE id = \$1\) ORDER BY created_at ASC LIMIT .*`).
			WithArgs(afterID, 50).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		messages, err := repo.ListAfter(context.Background(), &afterID, 50)

		assert.NoError(t, err)
		assert.Empty(t, messages)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

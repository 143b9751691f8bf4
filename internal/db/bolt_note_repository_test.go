package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/model"
)

func newTestRepo(t *testing.T) *BoltNoteRepository {
	t.Helper()

	boltDB, err := InitializeDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { boltDB.Close() })

	return NewBoltNoteRepository(boltDB, zap.NewNop())
}

func mustNote(t *testing.T, channel, key, text string) *model.Note {
	t.Helper()
	note, err := model.NewNote(channel, key, text, "bob")
	require.NoError(t, err)
	return note
}

func TestSaveAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustNote(t, "general", "wifi", "hunter2")))

	got, err := repo.Find(ctx, "general", "wifi")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got.Text)
	assert.Equal(t, "bob", got.Author)
}

func TestSaveKeepsCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := mustNote(t, "general", "wifi", "v1")
	require.NoError(t, repo.Save(ctx, first))
	created, err := repo.Find(ctx, "general", "wifi")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, mustNote(t, "general", "wifi", "v2")))
	updated, err := repo.Find(ctx, "general", "wifi")
	require.NoError(t, err)

	assert.Equal(t, "v2", updated.Text)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestFindNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Find(context.Background(), "general", "nope")

	var notFound *ErrNoteNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "nope", notFound.Key)
}

func TestListIsScopedToChannel(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustNote(t, "general", "b", "2")))
	require.NoError(t, repo.Save(ctx, mustNote(t, "general", "a", "1")))
	require.NoError(t, repo.Save(ctx, mustNote(t, "general-ops", "c", "3")))
	require.NoError(t, repo.Save(ctx, mustNote(t, "random", "d", "4")))

	notes, err := repo.List(ctx, "general")
	require.NoError(t, err)

	keys := make([]string, 0, len(notes))
	for _, n := range notes {
		keys = append(keys, n.Key)
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustNote(t, "general", "wifi", "x")))
	require.NoError(t, repo.Delete(ctx, "general", "wifi"))

	_, err := repo.Find(ctx, "general", "wifi")
	var notFound *ErrNoteNotFound
	assert.True(t, errors.As(err, &notFound))

	err = repo.Delete(ctx, "general", "wifi")
	assert.True(t, errors.As(err, &notFound))
}

func TestSaveRejectsInvalidNote(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Save(context.Background(), &model.Note{Channel: "general", Key: "a/b"})
	assert.Error(t, err)
}

func TestSaveRejectsChannelWithSeparator(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Save(ctx, &model.Note{Channel: "general/ops", Key: "wifi", Text: "x"})
	require.Error(t, err)

	require.NoError(t, repo.Save(ctx, mustNote(t, "general", "door", "1234")))
	notes, err := repo.List(ctx, "general")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "door", notes[0].Key)
}

func TestInitializeDBCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "var", "lib", "slackbot", "slackbot.db")

	boltDB, err := InitializeDB(dbPath, zap.NewNop())
	require.NoError(t, err)
	defer boltDB.Close()

	assert.FileExists(t, dbPath)
}

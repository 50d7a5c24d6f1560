package file_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/webhook-logger/webhook"
	"github.com/marcelsud/webhook-logger/webhook/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*file.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := file.NewRepository(dir, nil)
	require.NoError(t, err)
	return repo, dir
}

func record(source string) webhook.Record {
	return webhook.Record{
		Timestamp: time.Now().UTC(),
		Source:    source,
		Headers:   map[string]string{"content-type": "application/json"},
		Payload:   map[string]any{"id": "evt_1"},
		Status:    webhook.Received,
	}
}

func TestNewRepository(t *testing.T) {
	t.Run("creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "webhooks")
		_, err := file.NewRepository(dir, nil)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestAppend(t *testing.T) {
	ctx := context.Background()

	t.Run("append then list includes the record", func(t *testing.T) {
		repo, _ := newRepo(t)

		id, err := repo.Append(ctx, record("stripe"))
		require.NoError(t, err)
		assert.True(t, webhook.ValidID(id))

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, id, all[0].ID)
		assert.Equal(t, "stripe", all[0].Source)
		assert.Equal(t, map[string]any{"id": "evt_1"}, all[0].Payload)
		assert.Equal(t, webhook.Received, all[0].Status)
		assert.Nil(t, all[0].SignatureValid)
	})

	t.Run("no temporary files left behind", func(t *testing.T) {
		repo, dir := newRepo(t)

		_, err := repo.Append(ctx, record("stripe"))
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.NotContains(t, entry.Name(), ".tmp")
		}
	})

	t.Run("cancelled context persists nothing", func(t *testing.T) {
		repo, _ := newRepo(t)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.Append(cancelled, record("stripe"))
		require.Error(t, err)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("concurrent appends keep every record with distinct ids", func(t *testing.T) {
		repo, _ := newRepo(t)

		const n = 50
		var wg sync.WaitGroup
		idCh := make(chan string, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id, err := repo.Append(ctx, record(fmt.Sprintf("source-%d", i)))
				assert.NoError(t, err)
				idCh <- id
			}(i)
		}
		wg.Wait()
		close(idCh)

		ids := make(map[string]bool)
		for id := range idCh {
			require.False(t, ids[id], "duplicate id: %s", id)
			ids[id] = true
		}
		assert.Len(t, ids, n)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, n)
	})
}

func TestListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty slice", func(t *testing.T) {
		repo, _ := newRepo(t)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("records come back newest first", func(t *testing.T) {
		repo, _ := newRepo(t)

		base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			rec := record("stripe")
			rec.Timestamp = base.Add(time.Duration(i) * time.Second)
			_, err := repo.Append(ctx, rec)
			require.NoError(t, err)
		}

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)

		ids := make([]string, len(all))
		for i, rec := range all {
			ids[i] = rec.ID
		}
		assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] > ids[j] }),
			"ids not in descending order: %v", ids)
	})

	t.Run("idempotent without intervening appends", func(t *testing.T) {
		repo, _ := newRepo(t)

		for i := 0; i < 3; i++ {
			_, err := repo.Append(ctx, record("stripe"))
			require.NoError(t, err)
		}

		first, err := repo.ListAll(ctx)
		require.NoError(t, err)
		second, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("corrupt record is skipped, readable records survive", func(t *testing.T) {
		repo, dir := newRepo(t)

		id, err := repo.Append(ctx, record("stripe"))
		require.NoError(t, err)

		corrupt := filepath.Join(dir, webhook.NewID(time.Now())+".json")
		require.NoError(t, os.WriteFile(corrupt, []byte("{ not json"), 0o644))

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, id, all[0].ID)
	})

	t.Run("unrelated files are ignored", func(t *testing.T) {
		repo, dir := newRepo(t)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte{0}, 0o644))

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("error - directory removed", func(t *testing.T) {
		repo, dir := newRepo(t)
		require.NoError(t, os.RemoveAll(dir))

		_, err := repo.ListAll(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading webhooks directory")
	})
}

func TestClose(t *testing.T) {
	repo, _ := newRepo(t)
	assert.NoError(t, repo.Close(context.Background()))
}

//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/webhook-logger/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndListAll(t *testing.T) {
	ctx := context.Background()
	rc, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := SetupRepository(t, ctx, rc.Addr)

	t.Run("append then list includes the record", func(t *testing.T) {
		valid := true
		rec := webhook.Record{
			Timestamp:      time.Now().UTC(),
			Source:         "github",
			Headers:        map[string]string{"x-github-event": "push"},
			Payload:        map[string]any{"ref": "refs/heads/main"},
			Status:         webhook.Received,
			SignatureValid: &valid,
		}

		id, err := repo.Append(ctx, rec)
		require.NoError(t, err)
		assert.True(t, webhook.ValidID(id))

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, all)

		var found *webhook.Record
		for i := range all {
			if all[i].ID == id {
				found = &all[i]
				break
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "github", found.Source)
		assert.Equal(t, "push", found.Headers["x-github-event"])
		assert.Equal(t, map[string]any{"ref": "refs/heads/main"}, found.Payload)
		assert.Equal(t, webhook.Received, found.Status)
		require.NotNil(t, found.SignatureValid)
		assert.True(t, *found.SignatureValid)
	})

	t.Run("records come back newest first", func(t *testing.T) {
		base := time.Now().UTC()
		var ids []string
		for i := 0; i < 5; i++ {
			rec := webhook.Record{
				Timestamp: base.Add(time.Duration(i) * time.Second),
				Source:    "ordered",
				Status:    webhook.Received,
			}
			id, err := repo.Append(ctx, rec)
			require.NoError(t, err)
			ids = append(ids, id)
		}

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)

		positions := make(map[string]int)
		for i, rec := range all {
			positions[rec.ID] = i
		}
		for i := 1; i < len(ids); i++ {
			assert.Less(t, positions[ids[i]], positions[ids[i-1]],
				"record %s should come before %s", ids[i], ids[i-1])
		}
	})

	t.Run("concurrent appends keep distinct ids", func(t *testing.T) {
		const n = 20
		var wg sync.WaitGroup
		idCh := make(chan string, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id, err := repo.Append(ctx, webhook.Record{
					Timestamp: time.Now().UTC(),
					Source:    fmt.Sprintf("concurrent-%d", i),
					Status:    webhook.Received,
				})
				assert.NoError(t, err)
				idCh <- id
			}(i)
		}
		wg.Wait()
		close(idCh)

		seen := make(map[string]bool)
		for id := range idCh {
			require.False(t, seen[id], "duplicate id: %s", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}

func TestListAllEmpty(t *testing.T) {
	ctx := context.Background()
	rc, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := SetupRepository(t, ctx, rc.Addr)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

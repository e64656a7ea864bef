package settings

import (
	"context"
	"sync"
	"testing"

	"github.com/jmgilman/go/repohistory"
	"github.com/jmgilman/go/repohistory/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLive(t *testing.T) {
	t.Run("seeded from settings", func(t *testing.T) {
		live := NewLive(Settings{MaxHistorySize: 7})
		assert.Equal(t, 7, live.MaxHistorySize())
		assert.Equal(t, 7, live.SizeFunc()())
	})

	t.Run("size func sees updates", func(t *testing.T) {
		live := NewLive(Default())
		size := live.SizeFunc()

		live.SetMaxHistorySize(3)
		assert.Equal(t, 3, size())
	})

	t.Run("concurrent updates", func(t *testing.T) {
		live := NewLive(Default())

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				live.SetMaxHistorySize(i)
				_ = live.MaxHistorySize()
			}()
		}
		wg.Wait()

		assert.GreaterOrEqual(t, live.MaxHistorySize(), 0)
		assert.Less(t, live.MaxHistorySize(), 50)
	})
}

func TestLive_Reload(t *testing.T) {
	fs := writeSettings(t, "max_history_size: 4\n")
	live := NewLive(Default())

	require.NoError(t, live.Reload(fs, settingsPath))
	assert.Equal(t, 4, live.MaxHistorySize())

	require.NoError(t, fs.WriteFile(settingsPath, []byte("max_history_size: -2\n"), 0o644))
	require.Error(t, live.Reload(fs, settingsPath))
	assert.Equal(t, 4, live.MaxHistorySize(), "failed reload keeps current value")
}

func TestLive_DrivesManager(t *testing.T) {
	ctx := context.Background()
	live := NewLive(Settings{MaxHistorySize: 10})
	mgr := repohistory.New(memory.New(), live.SizeFunc())

	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		_, err := mgr.AddAsMostRecent(ctx, p)
		require.NoError(t, err)
	}

	got, err := mgr.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	live.SetMaxHistorySize(2)
	got, err = mgr.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []repohistory.Entry{{Path: "/d"}, {Path: "/c"}}, got)
}

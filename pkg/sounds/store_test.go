package sounds

import (
	"fmt"
	"math"
	"testing"

	"github.com/grovetools/kakapo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultNames = []string{
	"wind", "rain", "storm", "thunder", "waves", "stream", "birds",
	"crickets", "fire", "coffee", "train", "fan", "whitenoise", "forest",
}

func defaultRecords() []models.Record {
	records := make([]models.Record, len(defaultNames))
	for i, name := range defaultNames {
		records[i] = models.Record{ID: name, Name: name, Source: models.SourceFile, Tags: "default"}
	}
	return records
}

func TestInit(t *testing.T) {
	for _, count := range []int{0, 1, 5, 14} {
		t.Run(fmt.Sprintf("%d records", count), func(t *testing.T) {
			st := New()
			snap, n := st.Init(defaultRecords()[:count])
			assert.Equal(t, count, n)
			assert.Equal(t, count, snap.Len())
			assert.Equal(t, count, st.Len())
			assert.Equal(t, defaultNames[:count], snap.IDs())
		})
	}
}

func TestInitSkipsRecordsWithoutID(t *testing.T) {
	st := New()
	_, n := st.Init([]models.Record{{ID: "wind"}, {Name: "orphan"}, {ID: "wind", Tags: "dup"}})
	assert.Equal(t, 1, n)
	wind, ok := st.Get("wind")
	require.True(t, ok)
	assert.Equal(t, "dup", wind.Tags)
}

func TestSoundLifecycle(t *testing.T) {
	st := New()
	_, n := st.Init(defaultRecords())
	require.Equal(t, 14, n)

	t.Run("play toggles on and off", func(t *testing.T) {
		wind, ok := st.Play("wind")
		require.True(t, ok)
		assert.True(t, wind.Playing)

		wind, ok = st.Play("wind")
		require.True(t, ok)
		assert.False(t, wind.Playing)
	})

	t.Run("volume", func(t *testing.T) {
		wind, _ := st.Get("wind")
		assert.Equal(t, 0.5, wind.Volume)

		wind, ok := st.Volume("wind", 0.25)
		require.True(t, ok)
		assert.Equal(t, 0.25, wind.Volume)
	})

	t.Run("edit", func(t *testing.T) {
		wind, ok := st.Edit("wind", models.Patch{Tags: models.String("newTag")})
		require.True(t, ok)
		assert.Equal(t, "newTag", wind.Tags)
	})

	t.Run("remove", func(t *testing.T) {
		assert.True(t, st.Remove("wind"))
		_, ok := st.Get("wind")
		assert.False(t, ok)
		assert.Equal(t, 13, st.Len())

		assert.False(t, st.Remove("wind"), "second remove is a no-op")
		assert.Equal(t, 13, st.Len())
	})
}

func TestVolumeAlwaysInRange(t *testing.T) {
	st := New()
	st.Init(defaultRecords())

	for _, v := range []float64{-3, -0.0001, 0, 0.3, 1, 1.5, math.Inf(1), math.Inf(-1)} {
		snd, ok := st.Volume("rain", v)
		require.True(t, ok)
		assert.GreaterOrEqual(t, snd.Volume, 0.0, "volume(%v)", v)
		assert.LessOrEqual(t, snd.Volume, 1.0, "volume(%v)", v)
	}

	st.Volume("rain", 0.7)
	snd, _ := st.Volume("rain", math.NaN())
	assert.Equal(t, 0.7, snd.Volume)
}

func TestMissingIDIsNoop(t *testing.T) {
	st := New()
	st.Init(defaultRecords())
	before := st.Snapshot()

	_, ok := st.Play("nope")
	assert.False(t, ok)
	_, ok = st.Volume("nope", 0.1)
	assert.False(t, ok)
	_, ok = st.Edit("nope", models.Patch{Tags: models.String("x")})
	assert.False(t, ok)
	assert.False(t, st.Remove("nope"))

	assert.Equal(t, before, st.Snapshot())
}

func TestReset(t *testing.T) {
	st := New()
	st.Init(defaultRecords())
	defaultState := st.Snapshot()

	st.Play("wind")
	st.Volume("wind", 0.1)
	st.Remove("rain")

	empty := st.Reset(true)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0, st.Len())

	restored := st.Reset(false)
	assert.Equal(t, defaultState, restored)
	assert.Equal(t, defaultState, st.Snapshot())

	// The empty reset did not replace the baseline
	st.Reset(true)
	st.Reset(true)
	assert.Equal(t, defaultState, st.Reset(false))
}

func TestResetWithoutBaseline(t *testing.T) {
	st := New()
	assert.Equal(t, 0, st.Reset(false).Len())
}

func TestSnapshotIsIsolated(t *testing.T) {
	st := New()
	st.Init(defaultRecords())
	snap := st.Snapshot()
	snap.Sounds[0].Volume = 0.99

	wind, _ := st.Get("wind")
	assert.Equal(t, 0.5, wind.Volume)

	st.Volume("wind", 0.2)
	base := st.Baseline()
	got, _ := base.Get("wind")
	assert.Equal(t, 0.5, got.Volume, "baseline is not aliased to live sounds")
}

func TestHydrate(t *testing.T) {
	st := New()
	snap := st.Hydrate([]models.Sound{
		{ID: "wind", Source: models.SourceFile, Volume: 0.3, Progress: 1},
		{ID: "rain", Source: models.SourceURL, Volume: 0.5, Progress: 0.4},
	})
	assert.Equal(t, []string{"wind", "rain"}, snap.IDs())

	st.Reset(true)
	assert.Equal(t, snap, st.Reset(false))
}

func TestSubscribe(t *testing.T) {
	st := New()
	ch := st.Subscribe()

	st.Init(defaultRecords())
	st.Play("wind")
	st.Play("missing")
	st.Remove("wind")

	u := <-ch
	assert.Equal(t, UpdateReceived, u.Type)
	assert.Equal(t, 14, u.Count)

	u = <-ch
	assert.Equal(t, UpdatePlay, u.Type)
	assert.Equal(t, "wind", u.ID)
	require.NotNil(t, u.Sound)
	assert.True(t, u.Sound.Playing)

	u = <-ch
	assert.Equal(t, UpdateRemove, u.Type)
	assert.Equal(t, 13, u.Count)

	st.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
	st.Unsubscribe(ch)
}

func TestSetBaseline(t *testing.T) {
	st := New()
	st.Init(defaultRecords())
	initial := st.Snapshot()

	// A later hydrate from a trimmed cache would otherwise become the baseline.
	st.Hydrate(initial.Sounds[:1])
	st.SetBaseline(initial.Sounds)
	assert.Equal(t, initial, st.Baseline())

	st.SetBaseline(nil)
	assert.Equal(t, initial, st.Baseline(), "an empty list keeps the baseline")

	st.Reset(true)
	assert.Equal(t, initial, st.Reset(false))
}

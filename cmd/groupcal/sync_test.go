package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSyncRange(t *testing.T) {
	reset := func() {
		viper.Set("sync.start_date", "")
		viper.Set("sync.end_date", "")
		viper.Set("sync.days", 0)
	}
	t.Cleanup(reset)

	t.Run("explicit window", func(t *testing.T) {
		reset()
		viper.Set("sync.start_date", "2024-03-01")
		viper.Set("sync.end_date", "2024-03-31")

		r, err := resolveSyncRange()
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", r.Start.Format("2006-01-02"))
		assert.Equal(t, "2024-03-31", r.End.Format("2006-01-02"))
	})

	t.Run("start without end", func(t *testing.T) {
		reset()
		viper.Set("sync.start_date", "2024-03-01")
		_, err := resolveSyncRange()
		assert.Error(t, err)
	})

	t.Run("start after end", func(t *testing.T) {
		reset()
		viper.Set("sync.start_date", "2024-03-31")
		viper.Set("sync.end_date", "2024-03-01")
		_, err := resolveSyncRange()
		assert.Error(t, err)
	})

	t.Run("invalid date", func(t *testing.T) {
		reset()
		viper.Set("sync.start_date", "March 1")
		viper.Set("sync.end_date", "2024-03-31")
		_, err := resolveSyncRange()
		assert.Error(t, err)
	})

	t.Run("days fallback", func(t *testing.T) {
		reset()
		viper.Set("sync.days", 30)

		r, err := resolveSyncRange()
		require.NoError(t, err)
		want := time.Now().AddDate(0, 0, -30)
		assert.WithinDuration(t, want, r.Start, time.Minute)
		assert.WithinDuration(t, time.Now(), r.End, time.Minute)
	})
}

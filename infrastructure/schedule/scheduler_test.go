package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releasewatch/infrastructure/schedule"
)

func TestCronScheduler_Daily(t *testing.T) {
	t.Parallel()

	t.Run("should accept a valid wall-clock time", func(t *testing.T) {
		t.Parallel()

		// given
		scheduler := schedule.NewCronScheduler(time.UTC)

		// when
		err := scheduler.Daily("10:00", func() {})

		// then
		require.NoError(t, err)
	})

	tests := []struct {
		name      string
		timeOfDay string
	}{
		{
			name:      "should reject an out-of-range hour",
			timeOfDay: "25:00",
		},
		{
			name:      "should reject a missing minute",
			timeOfDay: "10",
		},
		{
			name:      "should reject an empty string",
			timeOfDay: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			scheduler := schedule.NewCronScheduler(time.UTC)

			// when
			err := scheduler.Daily(tt.timeOfDay, func() {})

			// then
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid schedule time")
		})
	}
}

func TestCronScheduler_Run(t *testing.T) {
	t.Parallel()

	t.Run("should return once the context is canceled", func(t *testing.T) {
		t.Parallel()

		// given
		scheduler := schedule.NewCronScheduler(time.UTC)
		require.NoError(t, scheduler.Daily("10:00", func() {}))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- scheduler.Run(ctx)
		}()

		// when
		cancel()

		// then
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop after context cancellation")
		}
	})
}

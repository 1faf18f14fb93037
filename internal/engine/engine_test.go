package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/testutil"
	"github.com/spendlens/spendlens/internal/train"
)

// trainModel runs the full pipeline over the synthetic dataset and returns
// the artifact path.
func trainModel(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "model.gob")
	pipeline := train.NewPipeline(train.DefaultConfig(path))
	_, err := pipeline.Run(context.Background(), testutil.SyntheticRows())
	require.NoError(t, err)
	return path
}

func TestServiceNotReady(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "absent.gob"))

	t.Run("load with no artifact returns false without error", func(t *testing.T) {
		loaded, err := svc.Load()
		require.NoError(t, err)
		assert.False(t, loaded)
		assert.False(t, svc.IsReady())
	})

	t.Run("status reports unloaded", func(t *testing.T) {
		st := svc.Status()
		assert.False(t, st.Loaded)
		assert.Equal(t, DefaultThreshold, st.Threshold)
		assert.Empty(t, st.Metrics)
	})

	t.Run("predict falls back to Uncategorized with zero confidence", func(t *testing.T) {
		label, conf, err := svc.Predict("STARBUCKS", "coffee run", -4.50,
			time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, model.Uncategorized, label)
		assert.Zero(t, conf)
	})
}

func TestServiceLoad(t *testing.T) {
	t.Run("load replaces state atomically and reports ready", func(t *testing.T) {
		svc := NewService(trainModel(t))

		loaded, err := svc.Load()
		require.NoError(t, err)
		assert.True(t, loaded)
		assert.True(t, svc.IsReady())

		st := svc.Status()
		assert.True(t, st.Loaded)
		assert.False(t, st.TrainedAt.IsZero())
		assert.Contains(t, st.Metrics, "f1_macro")
	})

	t.Run("corrupt artifact is an error and preserves prior state", func(t *testing.T) {
		path := trainModel(t)
		svc := NewService(path)
		_, err := svc.Load()
		require.NoError(t, err)
		require.True(t, svc.IsReady())

		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

		loaded, err := svc.Load()
		assert.Error(t, err)
		assert.False(t, loaded)
		assert.True(t, svc.IsReady(), "working model must survive a failed reload")
	})

	t.Run("reload after artifact removal keeps serving the prior bundle", func(t *testing.T) {
		path := trainModel(t)
		svc := NewService(path)
		_, err := svc.Load()
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))

		loaded, err := svc.Load()
		require.NoError(t, err)
		assert.False(t, loaded)
		assert.True(t, svc.IsReady())

		label, _, err := svc.Predict("STARBUCKS", "coffee run", -4.50, time.Time{})
		require.NoError(t, err)
		assert.NotEmpty(t, label)
	})
}

func TestServicePredict(t *testing.T) {
	svc := NewService(trainModel(t))
	_, err := svc.Load()
	require.NoError(t, err)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("confident prediction returns decoded label", func(t *testing.T) {
		label, conf, err := svc.Predict("STARBUCKS", "coffee run", -4.50, date)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, conf, 0.0)
		assert.LessOrEqual(t, conf, 1.0)
		if conf >= svc.Status().Threshold {
			assert.Equal(t, "Dining", label)
		} else {
			assert.Equal(t, model.Uncategorized, label)
		}
	})

	t.Run("below-threshold prediction abstains but reports confidence", func(t *testing.T) {
		svc.SetThreshold(1.0)
		defer svc.SetThreshold(DefaultThreshold)

		label, conf, err := svc.Predict("STARBUCKS", "coffee run", -4.50, date)
		require.NoError(t, err)
		assert.Equal(t, model.Uncategorized, label)
		assert.Greater(t, conf, 0.0, "abstention must still report the true confidence")
	})

	t.Run("zero threshold never abstains", func(t *testing.T) {
		svc.SetThreshold(0.0)
		defer svc.SetThreshold(DefaultThreshold)

		label, _, err := svc.Predict("SHELL", "gas fill up", -42.10, date)
		require.NoError(t, err)
		assert.NotEqual(t, model.Uncategorized, label)
	})

	t.Run("missing date uses sentinel without error", func(t *testing.T) {
		_, conf, err := svc.Predict("LANDLORD LLC", "rent payment", -1850.00, time.Time{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, conf, 0.0)
	})
}

func TestServiceSetThreshold(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "absent.gob"))

	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"negative clamps to zero", -5.0, 0.0},
		{"above one clamps to one", 5.0, 1.0},
		{"in range stored verbatim", 0.4, 0.4},
		{"boundary zero", 0.0, 0.0},
		{"boundary one", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.SetThreshold(tt.input)
			assert.Equal(t, tt.want, svc.Status().Threshold)
		})
	}
}

func TestServiceConcurrentAccess(t *testing.T) {
	path := trainModel(t)
	svc := NewService(path)
	_, err := svc.Load()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				label, conf, err := svc.Predict("STARBUCKS", "coffee run", -4.50, time.Time{})
				assert.NoError(t, err)
				assert.NotEmpty(t, label)
				assert.GreaterOrEqual(t, conf, 0.0)
			}
		}()
	}
	// Reload concurrently with the readers.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			_, err := svc.Load()
			assert.NoError(t, err)
		}
	}()
	wg.Wait()
}

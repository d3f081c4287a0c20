// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantErr  errors.ErrorCode
		validate func(t *testing.T, file *OverrideFile)
	}{
		{
			name: "valid override file",
			raw:  `{"overrides":[{"agent":"ranking","averageLatencyMs":900,"successRate":0.99}]}`,
			validate: func(t *testing.T, file *OverrideFile) {
				require.Len(t, file.Overrides, 1)
				assert.Equal(t, "ranking", file.Overrides[0].Agent)
				assert.Equal(t, 900, file.Overrides[0].AverageLatencyMs)
				assert.InDelta(t, 0.99, file.Overrides[0].SuccessRate, 0.001)
			},
		},
		{
			name: "empty override list",
			raw:  `{"overrides":[]}`,
			validate: func(t *testing.T, file *OverrideFile) {
				assert.Empty(t, file.Overrides)
			},
		},
		{
			name:    "missing overrides key",
			raw:     `{}`,
			wantErr: errors.ErrCodeRegistryValidationFailed,
		},
		{
			name:    "agent missing",
			raw:     `{"overrides":[{"averageLatencyMs":900}]}`,
			wantErr: errors.ErrCodeRegistryValidationFailed,
		},
		{
			name:    "success rate above one",
			raw:     `{"overrides":[{"agent":"ranking","successRate":1.5}]}`,
			wantErr: errors.ErrCodeRegistryValidationFailed,
		},
		{
			name:    "unexpected property",
			raw:     `{"overrides":[{"agent":"ranking","latency":900}]}`,
			wantErr: errors.ErrCodeRegistryValidationFailed,
		},
		{
			name:    "not json",
			raw:     `overrides: [ranking]`,
			wantErr: errors.ErrCodeRegistryValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := Parse([]byte(tt.raw))
			if tt.wantErr != "" {
				require.Error(t, err)
				var stdErr *errors.StandardError
				require.ErrorAs(t, err, &stdErr)
				assert.Equal(t, tt.wantErr, stdErr.Code)
				return
			}
			require.NoError(t, err)
			tt.validate(t, file)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/registry.json")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeRegistryLoadFailed, stdErr.Code)
}

func TestApply(t *testing.T) {
	t.Run("empty path is a no-op", func(t *testing.T) {
		reg := agents.NewRegistry()
		require.NoError(t, Apply(reg, ""))
	})

	t.Run("file overrides reach the registry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.json")
		content := `{"overrides":[{"agent":"outreach","averageLatencyMs":1500}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		reg := agents.NewRegistry()
		require.NoError(t, Apply(reg, path))

		c, ok := reg.Capability("outreach")
		require.True(t, ok)
		assert.Equal(t, 1500, c.AverageLatencyMs)
	})

	t.Run("unknown agent surfaces registry error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.json")
		content := `{"overrides":[{"agent":"bogus","averageLatencyMs":1500}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		reg := agents.NewRegistry()
		assert.ErrorContains(t, Apply(reg, path), "unknown agent")
	})
}

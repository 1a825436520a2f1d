package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/artifactrc/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestLoadRulesFile tests the bootstrap behavior
func TestLoadRulesFile(t *testing.T) {
	t.Run("absent_file_writes_template", func(t *testing.T) {
		ctx := setupTestLogger(t)
		path := filepath.Join(t.TempDir(), ".artifacts")

		_, err := rules.LoadRulesFile(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, rules.ErrConfigMissing), "should be ErrConfigMissing")

		data, err := os.ReadFile(path)
		require.NoError(t, err, "template should have been written")
		assert.Contains(t, string(data), "# artifactrc rules file")

		// The template is all comments, so a re-run parses an empty set
		rs, err := rules.LoadRulesFile(ctx, path)
		require.NoError(t, err)
		assert.True(t, rs.Empty())
	})

	t.Run("existing_file_parses", func(t *testing.T) {
		ctx := setupTestLogger(t)
		path := filepath.Join(t.TempDir(), ".artifacts")
		require.NoError(t, os.WriteFile(path, []byte("readme.md\n!vendor\n"), 0644))

		rs, err := rules.LoadRulesFile(ctx, path)
		require.NoError(t, err)
		assert.Len(t, rs.Rules(), 2)
	})

	t.Run("bad_pattern_reports_line", func(t *testing.T) {
		ctx := setupTestLogger(t)
		path := filepath.Join(t.TempDir(), ".artifacts")
		require.NoError(t, os.WriteFile(path, []byte("ok.md\nsrc/[abc\n"), 0644))

		_, err := rules.LoadRulesFile(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icdmap/internal/config"
	apperrors "icdmap/internal/errors"
	"icdmap/internal/mapping"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{
		BaseDir:   t.TempDir(),
		DataDir:   "data",
		OutputDir: "output",
		LogsDir:   "logs",
	})
	require.NoError(t, err)
	return paths
}

func TestExport_ByMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     mapping.Mode
		expected []string
	}{
		{
			name:     "full",
			mode:     mapping.ModeFull,
			expected: []string{config.MappingReportTXT, config.MappingReportXLSX},
		},
		{
			name:     "list",
			mode:     mapping.ModeList,
			expected: []string{config.CodesAllXLSX},
		},
		{
			name:     "unique",
			mode:     mapping.ModeUnique,
			expected: []string{config.UniqueCodesXLSX},
		},
		{
			name:     "all",
			mode:     mapping.ModeAll,
			expected: []string{config.MappingReportTXT, config.MappingReportXLSX, config.CodesAllXLSX, config.UniqueCodesXLSX},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := testPaths(t)
			agg := buildAggregator(t, tt.mode,
				[]string{"1", "A00", "", "Cholera", "A00.0", "", "", "Cholera classical"},
			)

			artifacts, err := New(paths, nil).Export(context.Background(), agg)
			require.NoError(t, err)

			var names []string
			for _, a := range artifacts {
				names = append(names, a.Name)
				assert.FileExists(t, a.Path)
				assert.Equal(t, 1, a.Rows)
			}
			assert.Equal(t, tt.expected, names)

			entries, err := os.ReadDir(paths.OutputDir)
			require.NoError(t, err)
			assert.Len(t, entries, len(tt.expected), "only the artifacts, no temp files")
		})
	}
}

func TestExport_Idempotent(t *testing.T) {
	paths := testPaths(t)
	exp := New(paths, nil)

	_, err := exp.Export(context.Background(), fixtureAggregator(t))
	require.NoError(t, err)
	first := map[string][]byte{}
	for _, name := range []string{config.MappingReportTXT, config.MappingReportXLSX, config.CodesAllXLSX, config.UniqueCodesXLSX} {
		data, err := os.ReadFile(filepath.Join(paths.OutputDir, name))
		require.NoError(t, err)
		first[name] = data
	}

	_, err = exp.Export(context.Background(), fixtureAggregator(t))
	require.NoError(t, err)
	for name, data := range first {
		again, err := os.ReadFile(filepath.Join(paths.OutputDir, name))
		require.NoError(t, err)
		assert.Equal(t, data, again, name)
	}
}

func TestExportTSV(t *testing.T) {
	paths := testPaths(t)
	agg := fixtureAggregator(t)

	a, err := New(paths, nil).ExportTSV(context.Background(), config.CodesTXT, agg.SortedFlatList())
	require.NoError(t, err)
	assert.Equal(t, paths.CodesTXT, a.Path)
	assert.Equal(t, 4, a.Rows)

	content, err := os.ReadFile(paths.CodesTXT)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# BEGIN DATA\nA00.0\t")
}

func TestExport_UnwritableOutput(t *testing.T) {
	paths := testPaths(t)
	// A regular file where the output directory should be
	require.NoError(t, os.WriteFile(paths.OutputDir, []byte("x"), 0644))

	_, err := New(paths, nil).Export(context.Background(), fixtureAggregator(t))
	require.Error(t, err)
	typ, ok := apperrors.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrTypeExport, typ)
}

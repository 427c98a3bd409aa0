package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icdmap/internal/config"
	"icdmap/internal/infrastructure"
	"icdmap/internal/ingest"
	"icdmap/internal/mapping"
	"icdmap/internal/shared/testutil"
)

const header = testutil.MappingHeader + "\n"

type workspace struct {
	base, data, out string
}

func setupWorkspace(t *testing.T, inputs map[string]string) workspace {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	base := t.TempDir()
	t.Setenv("ICDMAP_PATHS_BASE_DIR", base)

	ws := workspace{base: base, data: filepath.Join(base, "data"), out: filepath.Join(base, "output")}
	require.NoError(t, os.MkdirAll(ws.data, 0755))
	for name, content := range inputs {
		testutil.WriteFile(t, ws.data, name, []byte(content))
	}
	return ws
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_AllModes(t *testing.T) {
	ws := setupWorkspace(t, map[string]string{
		"a.txt": header + "1,A00,,Cholera,A00.0,,,Cholera classical\n2,A00,,Cholera,A00.1,,Y,Cholera eltor\n",
		"b.txt": header + "1,B01,,Varicella,B01.1,,,Varicella encephalitis\n",
	})

	code, stdout, stderr := runCLI(t, "-mode", "all", "-sort-files")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Successfully processed a.txt\nSuccessfully processed b.txt\n")
	assert.Contains(t, stdout, "Exported 3 ICD-10-AM code mappings\n")
	assert.Contains(t, stdout, "Found 3 unique ICD-10-AM codes\n")
	assert.True(t, strings.HasSuffix(stdout, "\nProcessing complete! Check the output directory for results.\n"))

	for _, name := range []string{config.MappingReportTXT, config.MappingReportXLSX, config.CodesAllXLSX, config.UniqueCodesXLSX} {
		assert.FileExists(t, filepath.Join(ws.out, name))
	}

	report, err := os.ReadFile(filepath.Join(ws.out, config.MappingReportTXT))
	require.NoError(t, err)
	assert.Contains(t, string(report), "ICD-10 Code: A00\nDescription: Cholera\n")
	assert.Contains(t, string(report), "- A00.1: Cholera eltor\n  Additive Map: Y\n")
}

func TestRun_FullModeSkipsUndecodableFile(t *testing.T) {
	ws := setupWorkspace(t, map[string]string{
		"a.txt": header + "1,A00,,Chol\xe9ra,A00.0,,,Bad\n",
		"b.txt": header + "1,A01,,Typhoid,A01.0,,,Typhoid fever\n",
	})

	code, stdout, stderr := runCLI(t, "-mode", "full", "-sort-files")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Error processing a.txt: ")
	assert.Contains(t, stdout, "Successfully processed b.txt\n")
	assert.NotContains(t, stdout, "unique ICD-10-AM codes")

	assert.FileExists(t, filepath.Join(ws.out, config.MappingReportXLSX))
	assert.NoFileExists(t, filepath.Join(ws.out, config.CodesAllXLSX))

	report, err := os.ReadFile(filepath.Join(ws.out, config.MappingReportTXT))
	require.NoError(t, err)
	assert.NotContains(t, string(report), "A00")
	assert.Contains(t, string(report), "ICD-10 Code: A01\n")
}

func TestRun_ListModeFallsBackToLatin1(t *testing.T) {
	ws := setupWorkspace(t, map[string]string{
		"a.txt": header + "1,A00,,Chol\xe9ra,A00.0,,,Chol\xe9ra classique\n",
	})

	code, stdout, stderr := runCLI(t, "-mode", "list")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Successfully processed a.txt\n")
	assert.Contains(t, stdout, "Exported 1 ICD-10-AM code mappings\n")
	assert.FileExists(t, filepath.Join(ws.out, config.CodesAllXLSX))
}

func TestRun_AllModeTakesLatin1IntoListOnly(t *testing.T) {
	ws := setupWorkspace(t, map[string]string{
		"a.txt": header + "1,A00,,Chol\xe9ra,A00.0,,,Chol\xe9ra classique\n",
		"b.txt": header + "1,A01,,Typhoid,A01.0,,,Typhoid fever\n",
	})

	code, stdout, stderr := runCLI(t, "-sort-files")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Successfully processed a.txt\nSuccessfully processed b.txt\n")
	assert.Contains(t, stdout, "Exported 2 ICD-10-AM code mappings\n")
	assert.Contains(t, stdout, "Found 1 unique ICD-10-AM codes\n")

	report, err := os.ReadFile(filepath.Join(ws.out, config.MappingReportTXT))
	require.NoError(t, err)
	assert.NotContains(t, string(report), "A00")
	assert.Contains(t, string(report), "ICD-10 Code: A01\n")
}

func TestRun_InvalidEnvironmentIsAnError(t *testing.T) {
	ws := setupWorkspace(t, map[string]string{
		"a.txt": header + "1,A00,,Cholera,A00.0,,,Cholera\n",
	})
	cfgPath := filepath.Join(t.TempDir(), "icdmap.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("paths:\n  output_dir: reports\n"), 0644))
	t.Setenv("ICDMAP_CONFIG", cfgPath)
	t.Setenv("ICDMAP_INPUT_SORT_FILES", "perhaps")

	code, stdout, stderr := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ICDMAP_* environment")
	assert.NotContains(t, stdout, "Processing complete!")
	assert.NoDirExists(t, filepath.Join(ws.base, "reports"))
	assert.NoFileExists(t, filepath.Join(ws.out, config.MappingReportTXT))
}

func TestRun_MissingInputDirectory(t *testing.T) {
	ws := setupWorkspace(t, nil)
	require.NoError(t, os.RemoveAll(ws.data))

	code, stdout, stderr := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "input directory missing")
	assert.NotContains(t, stdout, "Processing complete!")
	assert.NoFileExists(t, filepath.Join(ws.out, config.MappingReportTXT))
}

func TestRun_Lookup(t *testing.T) {
	setupWorkspace(t, map[string]string{
		"a.txt": header + "1,A00,,Cholera,A00.0,,,Cholera classical\n",
	})

	code, stdout, stderr := runCLI(t, "-mode", "unique", "-lookup", "A00")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "ICD-10 Code: A00\nDescription: Cholera\n- A00.0: Cholera classical\n")

	code, stdout, _ = runCLI(t, "-lookup", "Z99")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "No mappings found for ICD-10 code Z99")
}

func TestRun_FlagOverrides(t *testing.T) {
	ws := setupWorkspace(t, nil)
	elsewhere := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, os.WriteFile(filepath.Join(elsewhere, "x.txt"),
		[]byte(header+"1,A00,,Cholera,A00.0,,,Cholera\n"), 0644))

	code, _, stderr := runCLI(t, "-mode", "unique", "-dir", elsewhere, "-out", outDir)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(outDir, config.UniqueCodesXLSX))
	assert.NoFileExists(t, filepath.Join(ws.out, config.UniqueCodesXLSX))
}

func TestRun_MetricsTextfile(t *testing.T) {
	ws := setupWorkspace(t, map[string]string{
		"a.txt": header + "1,A00,,Cholera,A00.0,,,Cholera\n",
	})
	t.Setenv("ICDMAP_METRICS_ENABLED", "true")

	code, _, stderr := runCLI(t, "-mode", "list")
	require.Equal(t, 0, code, stderr)

	content, err := os.ReadFile(filepath.Join(ws.out, config.MetricsTextfile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "icdmap_files_processed_total")
}

func TestRun_BadArguments(t *testing.T) {
	setupWorkspace(t, nil)

	code, _, stderr := runCLI(t, "-mode", "sideways")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown mode")

	code, _, stderr = runCLI(t, "-encodings", "utf-8,ebcdic")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown encoding")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "icdmap v")
}

func TestEncodingPolicy(t *testing.T) {
	tests := []struct {
		name        string
		mode        mapping.Mode
		names       []string
		expected    []string
		wantLenient mapping.Mode
	}{
		{"list defaults to fallback", mapping.ModeList, nil, ingest.FallbackPolicy().Names(), mapping.ModeList},
		{"full defaults to strict", mapping.ModeFull, nil, ingest.StrictPolicy().Names(), 0},
		{"unique defaults to strict", mapping.ModeUnique, nil, ingest.StrictPolicy().Names(), 0},
		{"all falls back for the list view only", mapping.ModeAll, nil, ingest.FallbackPolicy().Names(), mapping.ModeList},
		{"explicit wins for every view", mapping.ModeAll, []string{"cp1252"}, []string{"windows-1252"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, lenient, err := encodingPolicy(tt.mode, tt.names)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy.Names())
			assert.Equal(t, tt.wantLenient, lenient)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"utf-8", "latin-1"}, splitList(" utf-8 , ,latin-1,"))
	assert.Nil(t, splitList(""))
}

package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "ocrsc")

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ocrsc", "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ocr.backend", "mistral"))
	require.NoError(t, store.Set("ocr.min_text_length", 80))
	require.NoError(t, store.Set("ocr.rate_limit", 0.5))
	require.NoError(t, store.Set("output.html", true))
	require.NoError(t, store.Set("segmentation.processors", []string{"segmenter", "xmlsafe"}))

	assert.Equal(t, "mistral", store.GetString("ocr.backend"))
	assert.Equal(t, 80, store.GetInt("ocr.min_text_length"))
	assert.InDelta(t, 0.5, store.GetFloat("ocr.rate_limit"), 1e-9)
	assert.InDelta(t, 80.0, store.GetFloat("ocr.min_text_length"), 1e-9)
	assert.True(t, store.GetBool("output.html"))
	assert.Equal(t, []string{"segmenter", "xmlsafe"}, store.GetStringSlice("segmentation.processors"))

	// Wrong types and missing keys read as zero values.
	assert.Empty(t, store.GetString("ocr.min_text_length"))
	assert.Zero(t, store.GetInt("ocr.backend"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("ocr.backend"))
	assert.Nil(t, store.GetStringSlice("ocr.backend"))
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("ocr.backend", "local"))
	require.NoError(t, store.Set("ocr.documentai.location", "eu"))
	require.NoError(t, store.Set("segmentation.segmenter.min_length", 12))
	require.NoError(t, store.Set("ocr.rate_limit", 2.0))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ocr]")
	assert.Contains(t, string(data), "[ocr.documentai]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "local", reloaded.GetString("ocr.backend"))
	assert.Equal(t, "eu", reloaded.GetString("ocr.documentai.location"))
	assert.Equal(t, 12, reloaded.GetInt("segmentation.segmenter.min_length"))
	assert.InDelta(t, 2.0, reloaded.GetFloat("ocr.rate_limit"), 1e-9)
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[ocr]
backend = "documentai"
rate_limit = 3

[segmentation]
processors = ["segmenter", "xmlsafe"]
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "documentai", store.GetString("ocr.backend"))
	assert.InDelta(t, 3.0, store.GetFloat("ocr.rate_limit"), 1e-9)
	assert.Equal(t, []string{"segmenter", "xmlsafe"}, store.GetStringSlice("segmentation.processors"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# just a comment\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("a", "b"))
	assert.Equal(t, "b", store.GetString("a"))
}

func TestConfigStore_SetRollsBackOnWriteError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("kept", "value"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("lost", "value"))
	_, ok := store.Get("lost")
	assert.False(t, ok)
	assert.Equal(t, "value", store.GetString("kept"))
}

func TestConfigStore_UnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("ocr.min_text_length", i)
			_ = store.GetInt("ocr.min_text_length")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("ocr.min_text_length")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":     1,
		"a.b":   2,
		"x.y.z": "deep",
		"x.w":   true,
	})

	assert.Equal(t, 1, nested["a"])
	assert.Equal(t, 2, nested["a.b"])
	x, ok := nested["x"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, x["w"])
	assert.Equal(t, map[string]any{"z": "deep"}, x["y"])

	assert.Equal(t, map[string]any{"a": 1, "a.b": 2, "x.y.z": "deep", "x.w": true}, flattenMap(nested, ""))
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMap_DemoFallback(t *testing.T) {
	spaceSize = 16 * 1024 * 1024
	m, err := loadMap("")
	require.NoError(t, err)
	assert.Greater(t, m.UsableFrames(), uint64(0))
	assert.Equal(t, spaceSize, uint64(m.MaxAddr()))
}

func TestLoadMap_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e820.json")
	data := []byte(`[
		{"start": 0, "end": 654336, "usable": false},
		{"start": 1048576, "end": 8388608, "usable": true}
	]`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	m, err := loadMap(path)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, uint64((8388608-1048576)/4096), m.UsableFrames())
}

func TestLoadMap_MissingFile(t *testing.T) {
	_, err := loadMap(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestSetupKernel_GrowsSpaceToMap(t *testing.T) {
	spaceSize = 4 * 1024 * 1024
	heapStart = 0
	heapSize = 0

	path := filepath.Join(t.TempDir(), "e820.json")
	data := []byte(`[{"start": 1048576, "end": 16777216, "usable": true}]`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	k, err := setupKernel(path)
	require.NoError(t, err)
	defer k.Space().Close()

	assert.Equal(t, uint64(16777216), k.Space().Size())
}

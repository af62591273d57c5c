package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg":           true,
		"a.JPG":           true,
		"a.jpeg":          true,
		"b.Png":           true,
		"c.txt":           false,
		"d.bmp":           false,
		"jpg":             false,
		"archive.jpg.zip": false,
	} {
		assert.Equal(t, want, IsImageFile(name), name)
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "c.JPEG", "readme.txt", "labels.cache"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.jpg"), 0o755))

	names, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png", "c.JPEG"}, names)
}

func TestListImagesEmpty(t *testing.T) {
	names, err := ListImages(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListImagesMissingDir(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLabelName(t *testing.T) {
	assert.Equal(t, "img001.txt", LabelName("img001.jpg"))
	assert.Equal(t, "IMG.txt", LabelName("IMG.PNG"))
	assert.Equal(t, "frame.0001.txt", LabelName("frame.0001.jpeg"))
}

package coco

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fashionDocument() *Document {
	return &Document{
		Info:       Info{Year: 2023, Description: "fashion-assistant"},
		Categories: ClassesToCategories([]string{"baseball cap", "hoodie"}, WithRootName("fashion-assistant")),
		Images: []Image{
			{ID: 0, FileName: "0001.jpg", Width: 640, Height: 480},
		},
		Annotations: []Annotation{
			{ID: 0, ImageID: 0, CategoryID: 1, BBox: [4]float64{10, 20, 30, 40}, Area: 1200},
		},
	}
}

func TestWriteDocument_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, fashionDocument()))

	g := goldie.New(t)
	g.Assert(t, "fashion_document", buf.Bytes())
}

func TestReadDocument(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "fashion_document.golden"))
	require.NoError(t, err)

	doc, err := ReadDocument(bytes.NewReader(data))
	require.NoError(t, err)

	want := fashionDocument()
	assert.Equal(t, want.Info, doc.Info)
	assert.Empty(t, doc.Licenses)
	assert.Equal(t, want.Categories, doc.Categories)
	assert.Equal(t, want.Images, doc.Images)
	assert.Equal(t, want.Annotations, doc.Annotations)
	assert.Equal(t, []string{"baseball cap", "hoodie"}, CategoriesToClasses(doc.Categories))
}

func TestReadDocument_PassesSegmentationThrough(t *testing.T) {
	input := `{
		"categories": [{"id": 0, "name": "root", "supercategory": "none"}],
		"annotations": [
			{"id": 1, "image_id": 2, "category_id": 0, "bbox": [1, 2, 3, 4], "area": 12, "iscrowd": 0,
			 "segmentation": [[1, 2, 3, 4, 5, 6]]}
		],
		"extra": {"ignored": true}
	}`

	doc, err := ReadDocument(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Annotations, 1)
	assert.JSONEq(t, `[[1, 2, 3, 4, 5, 6]]`, string(doc.Annotations[0].Segmentation))
	assert.Empty(t, doc.Images)
}

func TestReadDocument_Malformed(t *testing.T) {
	_, err := ReadDocument(strings.NewReader(`{"annotations": [{"id": "zero"}]}`))
	assert.Error(t, err)

	_, err = ReadDocument(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestSaveAndLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "annotations.json")

	require.NoError(t, SaveDocument(path, fashionDocument()))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, fashionDocument().Annotations, doc.Annotations)
	assert.Equal(t, fashionDocument().Categories, doc.Categories)

	_, err = LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	assert.Error(t, WriteDocument(&bytes.Buffer{}, nil))
}

func TestSaveDocument_FailedWriteKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "annotations.json")
	require.NoError(t, SaveDocument(path, fashionDocument()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	broken := fashionDocument()
	broken.Annotations[0].Segmentation = json.RawMessage(`[[1, 2`)
	assert.Error(t, SaveDocument(path, broken))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	fresh := filepath.Join(dir, "fresh.json")
	assert.Error(t, SaveDocument(fresh, broken))
	_, err = os.Stat(fresh)
	assert.True(t, os.IsNotExist(err))
}

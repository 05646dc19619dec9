package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-dataset/dataset/formats/coco"
)

func writeAnnotations(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "_annotations.coco.json")
	doc := &coco.Document{
		Categories: []coco.Category{
			{ID: 0, Name: "fashion-assistant", Supercategory: "none"},
			{ID: 2, Name: "hoodie", Supercategory: "fashion-assistant"},
			{ID: 1, Name: "baseball cap", Supercategory: "fashion-assistant"},
		},
		Images: []coco.Image{
			{ID: 0, FileName: "0.jpg", Width: 10, Height: 10},
			{ID: 1, FileName: "1.jpg", Width: 10, Height: 10},
		},
		Annotations: []coco.Annotation{
			{ID: 0, ImageID: 1, CategoryID: 1},
			{ID: 1, ImageID: 0, CategoryID: 2},
			{ID: 2, ImageID: 1, CategoryID: 2},
		},
	}
	require.NoError(t, coco.SaveDocument(path, doc))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand(zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassesCommand(t *testing.T) {
	path := writeAnnotations(t)

	out, err := run(t, "classes", path)
	require.NoError(t, err)
	assert.Equal(t, "0\thoodie\n1\tbaseball cap\n", out)

	out, err = run(t, "classes", path, "--format", "json")
	require.NoError(t, err)
	var classes []string
	require.NoError(t, json.Unmarshal([]byte(out), &classes))
	assert.Equal(t, []string{"hoodie", "baseball cap"}, classes)
}

func TestGroupCommand(t *testing.T) {
	path := writeAnnotations(t)

	out, err := run(t, "group", path)
	require.NoError(t, err)
	assert.Equal(t, "1\t2\t[0 2]\n0\t1\t[1]\n", out)

	out, err = run(t, "group", path, "--format", "json")
	require.NoError(t, err)
	var groups []ImageGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	assert.Equal(t, []ImageGroup{
		{ImageID: 1, AnnotationIDs: []int{0, 2}},
		{ImageID: 0, AnnotationIDs: []int{1}},
	}, groups)
}

func TestRebuildCommand(t *testing.T) {
	path := writeAnnotations(t)
	output := filepath.Join(t.TempDir(), "rebuilt.json")

	out, err := run(t, "rebuild", path, output, "--root-name", "wardrobe")
	require.NoError(t, err)
	assert.Contains(t, out, "2 classes, 2 images")

	doc, err := coco.LoadDocument(output)
	require.NoError(t, err)
	assert.Equal(t, []coco.Category{
		{ID: 0, Name: "wardrobe", Supercategory: "none"},
		{ID: 1, Name: "hoodie", Supercategory: "wardrobe"},
		{ID: 2, Name: "baseball cap", Supercategory: "wardrobe"},
	}, doc.Categories)
}

func TestOverlapsCommand(t *testing.T) {
	path := writeAnnotations(t)

	// Every fixture box is empty, so nothing overlaps.
	out, err := run(t, "overlaps", path, "--iou", "0.5")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "overlaps", path, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestClassesCommand_Compare(t *testing.T) {
	path := writeAnnotations(t)

	out, err := run(t, "classes", path, "--compare", "coco")
	require.NoError(t, err)
	assert.Equal(t, "0\thoodie\t-\n1\tbaseball cap\t-\n", out)

	out, err = run(t, "classes", path, "--compare", "voc", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"index": 0, "name": "hoodie", "family_index": -1},
		{"index": 1, "name": "baseball cap", "family_index": -1}
	]`, out)

	_, err = run(t, "classes", path, "--compare", "imagenet")
	assert.ErrorContains(t, err, "not registered")
}

func TestDedupeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "_annotations.coco.json")
	require.NoError(t, coco.SaveDocument(path, &coco.Document{
		Categories: coco.ClassesToCategories([]string{"dog"}),
		Images:     []coco.Image{{ID: 0, FileName: "0.jpg", Width: 100, Height: 100}},
		Annotations: []coco.Annotation{
			{ID: 0, ImageID: 0, CategoryID: 1, BBox: [4]float64{0, 0, 10, 10}, Area: 100},
			{ID: 1, ImageID: 0, CategoryID: 1, BBox: [4]float64{0, 0, 10, 10}, Area: 100},
			{ID: 2, ImageID: 0, CategoryID: 1, BBox: [4]float64{50, 50, 10, 10}, Area: 100},
		},
	}))
	output := filepath.Join(t.TempDir(), "deduped.json")

	out, err := run(t, "dedupe", path, output, "--iou", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "1 annotations removed")

	doc, err := coco.LoadDocument(output)
	require.NoError(t, err)
	require.Len(t, doc.Annotations, 2)
	assert.Equal(t, 0, doc.Annotations[0].ID)
	assert.Equal(t, 2, doc.Annotations[1].ID)

	out, err = run(t, "classes", path, "--compare", "coco")
	require.NoError(t, err)
	assert.Equal(t, "0\tdog\t16\n", out)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = newLogger("loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestConfigFile(t *testing.T) {
	path := writeAnnotations(t)
	cfgPath := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("annotations: "+path+"\n"), 0o644))

	out, err := run(t, "classes", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "0\thoodie\n1\tbaseball cap\n", out)
}

func TestCommandErrors(t *testing.T) {
	path := writeAnnotations(t)

	_, err := run(t, "classes", path, "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")

	_, err = run(t, "classes")
	assert.ErrorContains(t, err, "annotations path is required")

	_, err = run(t, "classes", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = run(t, "classes", path, "--skip-missing")
	assert.ErrorContains(t, err, "requires images_dir")
}

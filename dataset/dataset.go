// Package dataset - A COCO detection dataset held in memory.
//
// A Dataset is built from a COCO annotation file: the category table becomes
// an ordered class list, the annotations are grouped per image, and boxes
// can be read back as detection results indexed into that class list.
package dataset

import (
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-dataset/dataset/formats/coco"
	"github.com/nvr-ai/go-dataset/images"
	"github.com/nvr-ai/go-dataset/models"
	"github.com/nvr-ai/go-dataset/models/postprocess"
	"github.com/nvr-ai/go-dataset/util"
)

// ErrImageNotFound is returned for image ids the dataset does not hold.
var ErrImageNotFound = errors.New("image not found")

// LoadArgs configures Load.
type LoadArgs struct {
	// Path is the COCO annotation file.
	Path string
	// ImagesDir, when set, is checked for every image's file_name, which may
	// name a file in a sub-directory.
	ImagesDir string
	// SkipMissingImages drops images (and their annotations) whose file is
	// missing from ImagesDir.
	SkipMissingImages bool
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Dataset is a COCO dataset with its annotations grouped per image.
type Dataset struct {
	Info     coco.Info
	Licenses []coco.License
	// RootName is the name of the root category of the source table.
	RootName string
	// Classes is the ordered class list derived from the category table.
	Classes []string
	// Images in file order.
	Images []coco.Image
	// Annotations grouped by image id.
	Annotations *coco.GroupedAnnotations

	classIndex map[int]int
	imagesByID map[int]int
	logger     *zap.Logger
}

// Load reads a COCO annotation file into a Dataset.
//
// Arguments:
//   - args: The annotation path, optional image directory and logger.
//
// Returns:
//   - *Dataset: The loaded dataset.
//   - error: An error if the file cannot be read or the image directory
//     cannot be listed.
func Load(args LoadArgs) (*Dataset, error) {
	logger := args.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := coco.LoadDocument(args.Path)
	if err != nil {
		return nil, err
	}

	ds := New(doc, logger)

	if args.ImagesDir != "" {
		if err := ds.checkImageFiles(args.ImagesDir, args.SkipMissingImages); err != nil {
			return nil, err
		}
	}

	logger.Info("loaded coco dataset",
		zap.String("path", args.Path),
		zap.Int("classes", len(ds.Classes)),
		zap.Int("images", len(ds.Images)),
		zap.Int("annotated_images", ds.Annotations.Len()))

	return ds, nil
}

// New builds a Dataset from an already decoded document.
func New(doc *coco.Document, logger *zap.Logger) *Dataset {
	if logger == nil {
		logger = zap.NewNop()
	}

	ds := &Dataset{
		Info:        doc.Info,
		Licenses:    doc.Licenses,
		RootName:    rootName(doc.Categories),
		Classes:     coco.CategoriesToClasses(doc.Categories),
		Images:      append([]coco.Image(nil), doc.Images...),
		Annotations: coco.GroupAnnotationsByImageID(doc.Annotations),
		classIndex:  coco.CategoryClassIndex(doc.Categories),
		logger:      logger,
	}
	ds.indexImages()

	for _, id := range ds.Annotations.ImageIDs() {
		if _, ok := ds.imagesByID[id]; !ok {
			logger.Warn("annotations reference unknown image", zap.Int("image_id", id))
		}
	}
	return ds
}

func rootName(categories []coco.Category) string {
	for _, c := range categories {
		if c.IsRoot() {
			return c.Name
		}
	}
	return coco.DefaultRootName
}

func (d *Dataset) indexImages() {
	d.imagesByID = make(map[int]int, len(d.Images))
	for i, img := range d.Images {
		d.imagesByID[img.ID] = i
	}
}

func (d *Dataset) checkImageFiles(dir string, skipMissing bool) error {
	files, err := util.ListImageFiles(dir)
	if err != nil {
		return errors.Wrap(err, "check image files")
	}
	present := util.IndexByName(files)

	kept := d.Images[:0]
	missing := make(map[int]bool)
	for _, img := range d.Images {
		if _, ok := present[util.CleanName(img.FileName)]; ok {
			kept = append(kept, img)
			continue
		}
		d.logger.Warn("image file missing",
			zap.Int("image_id", img.ID),
			zap.String("file_name", img.FileName),
			zap.String("dir", dir))
		if skipMissing {
			missing[img.ID] = true
			continue
		}
		kept = append(kept, img)
	}
	if len(missing) == 0 {
		return nil
	}

	d.Images = kept
	d.indexImages()

	var annotations []coco.Annotation
	d.Annotations.Each(func(imageID int, group []coco.Annotation) bool {
		if !missing[imageID] {
			annotations = append(annotations, group...)
		}
		return true
	})
	d.Annotations = coco.GroupAnnotationsByImageID(annotations)
	d.logger.Info("skipped images with missing files", zap.Int("count", len(missing)))
	return nil
}

// Image returns the image entry for id.
func (d *Dataset) Image(id int) (coco.Image, error) {
	i, ok := d.imagesByID[id]
	if !ok {
		return coco.Image{}, errors.Wrapf(ErrImageNotFound, "image %d", id)
	}
	return d.Images[i], nil
}

// ClassSet returns the class list as a name/index lookup.
func (d *Dataset) ClassSet() (*models.ClassSet, error) {
	return models.NewClassSet(d.Classes)
}

// Detections returns the annotations of an image as detection results.
func (d *Dataset) Detections(imageID int) ([]postprocess.Result, error) {
	if _, err := d.Image(imageID); err != nil {
		return nil, err
	}
	return coco.AnnotationsToDetections(d.Annotations.Get(imageID), d.classIndex)
}

// AnnotationOverlap is a pair of annotations of one image whose boxes
// overlap above a threshold, usually a labelling mistake.
type AnnotationOverlap struct {
	ImageID int     `json:"image_id"`
	First   int     `json:"first"`
	Second  int     `json:"second"`
	IoU     float32 `json:"iou"`
}

// Overlaps reports annotation pairs whose IoU exceeds threshold, image by
// image in group order. With classAware only same-class pairs count.
func (d *Dataset) Overlaps(threshold float32, classAware bool) ([]AnnotationOverlap, error) {
	cfg := &postprocess.NMSConfig{IoUThreshold: threshold, ClassAware: classAware}

	var out []AnnotationOverlap
	var err error
	d.Annotations.Each(func(imageID int, group []coco.Annotation) bool {
		var detections []postprocess.Result
		detections, err = coco.AnnotationsToDetections(group, d.classIndex)
		if err != nil {
			return false
		}
		for _, o := range postprocess.FindOverlaps(detections, cfg) {
			out = append(out, AnnotationOverlap{
				ImageID: imageID,
				First:   group[o.I].ID,
				Second:  group[o.J].ID,
				IoU:     o.IoU,
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Dedupe drops annotations whose box overlaps an earlier annotation of the
// same image above threshold, keeping the first of each cluster in group
// order. With classAware only same-class boxes count as duplicates. It
// returns the number of annotations removed.
func (d *Dataset) Dedupe(threshold float32, classAware bool) (int, error) {
	cfg := &postprocess.NMSConfig{IoUThreshold: threshold, ClassAware: classAware}

	var (
		kept    []coco.Annotation
		removed int
		err     error
	)
	d.Annotations.Each(func(imageID int, group []coco.Annotation) bool {
		var detections []postprocess.Result
		detections, err = coco.AnnotationsToDetections(group, d.classIndex)
		if err != nil {
			return false
		}
		// Every score is 1, so the earliest box of a cluster survives.
		keep := postprocess.GreedyNMS(detections, cfg)
		sort.Ints(keep)
		for _, i := range keep {
			kept = append(kept, group[i])
		}
		removed += len(group) - len(keep)
		return true
	})
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		d.Annotations = coco.GroupAnnotationsByImageID(kept)
		d.logger.Info("removed duplicate annotations",
			zap.Int("count", removed),
			zap.Float32("iou", threshold))
	}
	return removed, nil
}

// Document rebuilds a COCO document. The category table is regenerated from
// Classes with ClassesToCategories and every annotation's category id is
// renumbered to match it. An empty rootName keeps the source root's name.
func (d *Dataset) Document(rootName string) (*coco.Document, error) {
	if rootName == "" {
		rootName = d.RootName
	}

	annotations := d.Annotations.Flatten()
	for i, a := range annotations {
		class, ok := d.classIndex[a.CategoryID]
		if !ok {
			return nil, errors.Wrapf(coco.ErrUnknownCategory, "annotation %d: category %d", a.ID, a.CategoryID)
		}
		annotations[i].CategoryID = class + 1
	}

	return &coco.Document{
		Info:        d.Info,
		Licenses:    d.Licenses,
		Categories:  coco.ClassesToCategories(d.Classes, coco.WithRootName(rootName)),
		Images:      append([]coco.Image(nil), d.Images...),
		Annotations: annotations,
	}, nil
}

// Save writes the rebuilt document to path.
func (d *Dataset) Save(path, rootName string) error {
	doc, err := d.Document(rootName)
	if err != nil {
		return err
	}
	if err := coco.SaveDocument(path, doc); err != nil {
		return err
	}
	d.logger.Info("saved coco dataset",
		zap.String("path", path),
		zap.Int("annotations", len(doc.Annotations)))
	return nil
}

// ResizeImage resizes img, the pixels of image imageID, and returns the
// image's annotations with boxes scaled to the new size. Boxes that end up
// outside the resized frame are clipped to it.
func (d *Dataset) ResizeImage(imageID int, img image.Image, width, height int) (image.Image, []coco.Annotation, error) {
	if _, err := d.Image(imageID); err != nil {
		return nil, nil, err
	}
	resized, err := images.ResizeImage(img, width, height)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "resize image %d", imageID)
	}
	return resized.Image, d.scaleAnnotations(imageID, resized, width, height), nil
}

// ResizeImageFile reads the file of image imageID from imagesDir and
// resizes it like ResizeImage.
func (d *Dataset) ResizeImageFile(imagesDir string, imageID, width, height int) (image.Image, []coco.Annotation, error) {
	img, err := d.Image(imageID)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(filepath.Join(imagesDir, filepath.FromSlash(img.FileName)))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read image %d", imageID)
	}
	resized, err := images.ResizeBytes(data, width, height)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "resize image %d", imageID)
	}
	return resized.Image, d.scaleAnnotations(imageID, resized, width, height), nil
}

func (d *Dataset) scaleAnnotations(imageID int, resized images.Resized, width, height int) []coco.Annotation {
	group := d.Annotations.Get(imageID)
	scaled := make([]coco.Annotation, 0, len(group))
	for _, a := range group {
		a = coco.ScaleAnnotation(a, float64(resized.ScaleX), float64(resized.ScaleY))
		scaled = append(scaled, clipAnnotation(a, width, height))
	}
	return scaled
}

// clipAnnotation clips the box of a to the frame. Area is recomputed from
// the box only when clipping changed it.
func clipAnnotation(a coco.Annotation, width, height int) coco.Annotation {
	box := images.RectFromXYWH(float32(a.BBox[0]), float32(a.BBox[1]), float32(a.BBox[2]), float32(a.BBox[3]))
	clipped := box.Clip(float32(width), float32(height))
	if clipped == box {
		return a
	}
	xywh := clipped.XYWH()
	a.BBox = [4]float64{float64(xywh[0]), float64(xywh[1]), float64(xywh[2]), float64(xywh[3])}
	a.Area = float64(clipped.Area())
	return a
}

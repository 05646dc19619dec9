package coco

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-dataset/images"
	"github.com/nvr-ai/go-dataset/models/postprocess"
)

// ErrUnknownCategory is returned when an annotation refers to a category id
// that is not a leaf of the category table.
var ErrUnknownCategory = errors.New("unknown category")

// AnnotationsToDetections converts annotations into detection results.
//
// Arguments:
//   - annotations: Annotations of a single image, usually one group of
//     GroupAnnotationsByImageID.
//   - classIndex: Category id to class index, see CategoryClassIndex.
//
// Returns:
//   - []postprocess.Result: One result per annotation, in input order, with
//     the box in xyxy form and a score of 1.
//   - error: ErrUnknownCategory if an annotation's category is not indexed.
func AnnotationsToDetections(annotations []Annotation, classIndex map[int]int) ([]postprocess.Result, error) {
	results := make([]postprocess.Result, 0, len(annotations))
	for _, a := range annotations {
		class, ok := classIndex[a.CategoryID]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownCategory, "annotation %d: category %d", a.ID, a.CategoryID)
		}
		results = append(results, postprocess.Result{
			Box: images.RectFromXYWH(
				float32(a.BBox[0]),
				float32(a.BBox[1]),
				float32(a.BBox[2]),
				float32(a.BBox[3]),
			),
			Score: 1,
			Class: class,
			Crowd: a.IsCrowd == 1,
		})
	}
	return results, nil
}

// DetectionsToAnnotations converts detection results of one image into
// annotations. Ids are assigned sequentially from firstID and the category
// id follows the ClassesToCategories numbering (class index + 1).
func DetectionsToAnnotations(detections []postprocess.Result, imageID, firstID int) []Annotation {
	annotations := make([]Annotation, 0, len(detections))
	for i, d := range detections {
		xywh := d.Box.XYWH()
		crowd := 0
		if d.Crowd {
			crowd = 1
		}
		annotations = append(annotations, Annotation{
			ID:         firstID + i,
			ImageID:    imageID,
			CategoryID: d.Class + 1,
			BBox: [4]float64{
				float64(xywh[0]),
				float64(xywh[1]),
				float64(xywh[2]),
				float64(xywh[3]),
			},
			Area:    float64(d.Box.Area()),
			IsCrowd: crowd,
		})
	}
	return annotations
}

// ScaleAnnotation returns a copy of a with its box and area scaled by the
// given factors, e.g. after resizing the image it belongs to.
func ScaleAnnotation(a Annotation, sx, sy float64) Annotation {
	a.BBox = [4]float64{a.BBox[0] * sx, a.BBox[1] * sy, a.BBox[2] * sx, a.BBox[3] * sy}
	a.Area *= sx * sy
	return a
}

// Package postprocess - Detection results shared by datasets and models.
package postprocess

import "github.com/nvr-ai/go-dataset/images"

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result in xyxy pixel coordinates.
	Box images.Rect `json:"box" yaml:"box"`
	// The confidence score of the result. Ground truth carries 1.
	Score float32 `json:"score" yaml:"score"`
	// The class index of the result, a position in the dataset class list.
	Class int `json:"class" yaml:"class"`
	// Crowd marks a box that covers a group of objects.
	Crowd bool `json:"crowd,omitempty" yaml:"crowd,omitempty"`
}

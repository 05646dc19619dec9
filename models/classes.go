// Package models - Class sets shared by datasets and detection results.
package models

import (
	"sort"

	"github.com/pkg/errors"
)

// Family identifies the naming convention / dataset a class set comes from.
type Family string

const (
	// FamilyCOCO is the 80 COCO 2017 detection classes.
	FamilyCOCO Family = "coco"
	// FamilyVOC is the 20 Pascal VOC classes.
	FamilyVOC Family = "voc"
)

// ClassSet is an ordered list of class names with a reverse index.
type ClassSet struct {
	names     []string
	nameToIdx map[string]int
}

// NewClassSet builds a ClassSet from an ordered list of names.
//
// Arguments:
//   - names: Class names; position in the slice is the class index.
//
// Returns:
//   - *ClassSet: The class set.
//   - error: An error if a name is empty or appears more than once.
func NewClassSet(names []string) (*ClassSet, error) {
	s := &ClassSet{
		names:     make([]string, len(names)),
		nameToIdx: make(map[string]int, len(names)),
	}
	copy(s.names, names)
	for i, name := range names {
		if name == "" {
			return nil, errors.Errorf("class %d has an empty name", i)
		}
		if prev, ok := s.nameToIdx[name]; ok {
			return nil, errors.Errorf("class %q appears at %d and %d", name, prev, i)
		}
		s.nameToIdx[name] = i
	}
	return s, nil
}

// Len returns the number of classes.
func (s *ClassSet) Len() int {
	return len(s.names)
}

// Names returns a copy of the class names in index order.
func (s *ClassSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// GetName returns the class name for an index.
func (s *ClassSet) GetName(idx int) (string, error) {
	if idx < 0 || idx >= len(s.names) {
		return "", errors.Errorf("index %d out of range [0, %d)", idx, len(s.names))
	}
	return s.names[idx], nil
}

// GetIndex returns the class index for a name.
func (s *ClassSet) GetIndex(name string) (int, error) {
	idx, ok := s.nameToIdx[name]
	if !ok {
		return -1, errors.Errorf("name %q not found", name)
	}
	return idx, nil
}

// MapIndex maps an index in s onto the index of the same name in other.
func (s *ClassSet) MapIndex(idx int, other *ClassSet) (int, error) {
	name, err := s.GetName(idx)
	if err != nil {
		return -1, err
	}
	return other.GetIndex(name)
}

// Lookup returns the built-in class set for a family.
func Lookup(family Family) (*ClassSet, error) {
	names, ok := builtin[family]
	if !ok {
		known := make([]string, 0, len(builtin))
		for f := range builtin {
			known = append(known, string(f))
		}
		sort.Strings(known)
		return nil, errors.Errorf("family %q not registered (known: %v)", family, known)
	}
	return NewClassSet(names)
}

var builtin = map[Family][]string{
	FamilyCOCO: COCOClasses,
	FamilyVOC:  PascalVOCClasses,
}

// COCOClasses is the full 80 COCO classes. The background entry models
// carry at index 0 lives in the root category of a COCO category table
// instead.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// PascalVOCClasses is the 20 Pascal VOC classes.
var PascalVOCClasses = []string{
	"aeroplane", "bicycle", "bird", "boat", "bottle", "bus", "car", "cat", "chair", "cow",
	"diningtable", "dog", "horse", "motorbike", "person", "pottedplant", "sheep", "sofa", "train", "tvmonitor",
}

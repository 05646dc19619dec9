// Package coco converts between COCO object-detection annotation records
// and the class lists, grouped annotations and detection results used by
// the rest of the module.
//
// A COCO category table carries a root category (supercategory "none")
// followed by the leaf classes. Only leaves are classes; the root names the
// collection they belong to.
package coco

import "encoding/json"

// RootSupercategory marks a category as the root of the table rather than
// a usable class.
const RootSupercategory = "none"

// Category is a single entry of the COCO "categories" table.
type Category struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

// IsRoot reports whether c is a root category.
func (c Category) IsRoot() bool {
	return c.Supercategory == RootSupercategory
}

// Annotation is a single object instance of the COCO "annotations" table.
type Annotation struct {
	ID         int        `json:"id"`
	ImageID    int        `json:"image_id"`
	CategoryID int        `json:"category_id"`
	BBox       [4]float64 `json:"bbox"` // x, y, width, height
	Area       float64    `json:"area"`
	IsCrowd    int        `json:"iscrowd"`
	// Segmentation is carried through untouched.
	Segmentation json.RawMessage `json:"segmentation,omitempty"`
}

// Image is a single entry of the COCO "images" table.
type Image struct {
	ID           int    `json:"id"`
	FileName     string `json:"file_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	License      int    `json:"license,omitempty"`
	DateCaptured string `json:"date_captured,omitempty"`
}

// Info is the COCO "info" block.
type Info struct {
	Year        int    `json:"year,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Contributor string `json:"contributor,omitempty"`
	URL         string `json:"url,omitempty"`
	DateCreated string `json:"date_created,omitempty"`
}

// License is an entry of the COCO "licenses" table.
type License struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Document is a whole COCO annotation file.
type Document struct {
	Info        Info         `json:"info"`
	Licenses    []License    `json:"licenses"`
	Categories  []Category   `json:"categories"`
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
}

package dataset

import (
	"github.com/nvr-ai/go-dataset/models"
)

// ClassMapping pairs a dataset class with its index in a built-in class
// family. FamilyIndex is -1 when the family has no class of that name.
type ClassMapping struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	FamilyIndex int    `json:"family_index"`
}

// MapClasses looks every class of the dataset up in a built-in family,
// e.g. to check which classes a COCO-pretrained detector already knows.
func (d *Dataset) MapClasses(family models.Family) ([]ClassMapping, error) {
	set, err := d.ClassSet()
	if err != nil {
		return nil, err
	}
	target, err := models.Lookup(family)
	if err != nil {
		return nil, err
	}

	out := make([]ClassMapping, 0, set.Len())
	for i, name := range set.Names() {
		idx, err := set.MapIndex(i, target)
		if err != nil {
			idx = -1
		}
		out = append(out, ClassMapping{Index: i, Name: name, FamilyIndex: idx})
	}
	return out, nil
}

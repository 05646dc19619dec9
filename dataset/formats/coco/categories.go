package coco

// DefaultRootName is the root category name ClassesToCategories uses unless
// WithRootName overrides it.
const DefaultRootName = "common-objects"

// CategoriesToClasses returns the names of the leaf categories in the order
// they appear in categories. Root categories are skipped and ids are not
// used for ordering.
//
// Example:
//
//	CategoriesToClasses([]Category{
//		{ID: 0, Name: "fashion-assistant", Supercategory: "none"},
//		{ID: 2, Name: "hoodie", Supercategory: "fashion-assistant"},
//		{ID: 1, Name: "baseball cap", Supercategory: "fashion-assistant"},
//	}) // []string{"hoodie", "baseball cap"}
func CategoriesToClasses(categories []Category) []string {
	classes := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.IsRoot() {
			continue
		}
		classes = append(classes, c.Name)
	}
	return classes
}

type categoryOptions struct {
	rootName string
}

// CategoryOption configures ClassesToCategories.
type CategoryOption func(*categoryOptions)

// WithRootName sets the name of the root category. An empty name keeps
// DefaultRootName.
func WithRootName(name string) CategoryOption {
	return func(o *categoryOptions) {
		if name != "" {
			o.rootName = name
		}
	}
}

// ClassesToCategories builds a category table from an ordered class list.
// The table always starts with the root category (id 0); class i follows as
// id i+1 with the root's name as its supercategory. An empty class list
// yields just the root.
func ClassesToCategories(classes []string, opts ...CategoryOption) []Category {
	o := categoryOptions{rootName: DefaultRootName}
	for _, opt := range opts {
		opt(&o)
	}

	categories := make([]Category, 0, len(classes)+1)
	categories = append(categories, Category{
		ID:            0,
		Name:          o.rootName,
		Supercategory: RootSupercategory,
	})
	for i, name := range classes {
		categories = append(categories, Category{
			ID:            i + 1,
			Name:          name,
			Supercategory: o.rootName,
		})
	}
	return categories
}

// CategoryClassIndex maps each leaf category id to its position in
// CategoriesToClasses(categories).
func CategoryClassIndex(categories []Category) map[int]int {
	index := make(map[int]int, len(categories))
	next := 0
	for _, c := range categories {
		if c.IsRoot() {
			continue
		}
		index[c.ID] = next
		next++
	}
	return index
}

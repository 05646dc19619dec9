package coco

// GroupedAnnotations maps image ids to their annotations. Keys iterate in
// the order they were first seen and each group keeps the relative order of
// the input.
type GroupedAnnotations struct {
	keys   []int
	groups map[int][]Annotation
}

// GroupAnnotationsByImageID partitions annotations by ImageID. Nothing is
// dropped or merged; annotations sharing an ID stay separate.
func GroupAnnotationsByImageID(annotations []Annotation) *GroupedAnnotations {
	g := &GroupedAnnotations{
		keys:   make([]int, 0),
		groups: make(map[int][]Annotation),
	}
	for _, a := range annotations {
		g.add(a)
	}
	return g
}

func (g *GroupedAnnotations) add(a Annotation) {
	group, ok := g.groups[a.ImageID]
	if !ok {
		g.keys = append(g.keys, a.ImageID)
	}
	g.groups[a.ImageID] = append(group, a)
}

// Len returns the number of distinct image ids.
func (g *GroupedAnnotations) Len() int {
	return len(g.keys)
}

// ImageIDs returns the image ids in first-seen order.
func (g *GroupedAnnotations) ImageIDs() []int {
	out := make([]int, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the annotations for imageID, or nil if there are none.
func (g *GroupedAnnotations) Get(imageID int) []Annotation {
	group, ok := g.groups[imageID]
	if !ok {
		return nil
	}
	out := make([]Annotation, len(group))
	copy(out, group)
	return out
}

// Has reports whether any annotation refers to imageID.
func (g *GroupedAnnotations) Has(imageID int) bool {
	_, ok := g.groups[imageID]
	return ok
}

// Each calls fn for every group in key order until fn returns false. fn
// receives a copy of each group.
func (g *GroupedAnnotations) Each(fn func(imageID int, annotations []Annotation) bool) {
	for _, id := range g.keys {
		if !fn(id, g.Get(id)) {
			return
		}
	}
}

// Map returns the groups as a plain map; key order is lost.
func (g *GroupedAnnotations) Map() map[int][]Annotation {
	out := make(map[int][]Annotation, len(g.keys))
	for _, id := range g.keys {
		out[id] = g.Get(id)
	}
	return out
}

// Flatten returns every annotation, group by group.
func (g *GroupedAnnotations) Flatten() []Annotation {
	var n int
	for _, id := range g.keys {
		n += len(g.groups[id])
	}
	out := make([]Annotation, 0, n)
	for _, id := range g.keys {
		out = append(out, g.groups[id]...)
	}
	return out
}

package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-dataset/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	IoUThreshold float32 // Overlap threshold for suppression.
	ClassAware   bool    // If true, suppress only within same class.
}

// Overlap is a pair of results whose boxes overlap above a threshold.
type Overlap struct {
	I, J int // indices into the input, I < J
	IoU  float32
}

func (c *NMSConfig) overlaps(a, b Result) (float32, bool) {
	if c.ClassAware && a.Class != b.Class {
		return 0, false
	}
	iou := images.CalculateIoU(a.Box, b.Box)
	return iou, iou > c.IoUThreshold
}

// FindOverlaps returns every pair of results whose IoU exceeds the
// threshold, ordered by I then J.
func FindOverlaps(results []Result, config *NMSConfig) []Overlap {
	var out []Overlap
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if iou, ok := config.overlaps(results[i], results[j]); ok {
				out = append(out, Overlap{I: i, J: j, IoU: iou})
			}
		}
	}
	return out
}

// GreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Arguments:
//   - detections: Slice of detections in any order; it is not modified.
//   - config: NMS configuration.
//
// Returns:
//   - Indices into detections of the kept boxes, highest score first. Equal
//     scores keep input order. If no detections are provided, returns nil.
func GreedyNMS(detections []Result, config *NMSConfig) []int {
	n := len(detections)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return detections[order[i]].Score > detections[order[j]].Score
	})

	kept := make([]int, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := detections[order[i]]
		kept = append(kept, order[i])
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if _, ok := config.overlaps(anchor, detections[order[j]]); ok {
				used[j] = true
			}
		}
	}

	return kept
}

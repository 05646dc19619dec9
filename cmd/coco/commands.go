package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-dataset/config"
	"github.com/nvr-ai/go-dataset/dataset"
	"github.com/nvr-ai/go-dataset/dataset/formats/coco"
	"github.com/nvr-ai/go-dataset/models"
)

// ImageGroup is one line of `coco group` output.
type ImageGroup struct {
	ImageID       int   `json:"image_id"`
	AnnotationIDs []int `json:"annotation_ids"`
}

func loadDataset(cmd *cobra.Command, opts *RootOptions, args []string) (*dataset.Dataset, config.Config, error) {
	cfg, err := resolveConfig(cmd, opts, args)
	if err != nil {
		return nil, cfg, err
	}
	ds, err := dataset.Load(dataset.LoadArgs{
		Path:              cfg.Annotations,
		ImagesDir:         cfg.ImagesDir,
		SkipMissingImages: cfg.SkipMissingImages,
		Logger:            opts.logger,
	})
	return ds, cfg, err
}

// NewClassesCommand prints the class list of an annotation file.
func NewClassesCommand(opts *RootOptions) *cobra.Command {
	var compare string
	cmd := &cobra.Command{
		Use:   "classes [annotations.json]",
		Short: "Print the class names derived from the category table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := loadDataset(cmd, opts, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if compare != "" {
				return printClassMappings(out, opts, ds, models.Family(compare))
			}
			if opts.Format == "json" {
				return writeJSON(out, ds.Classes)
			}
			for i, name := range ds.Classes {
				fmt.Fprintf(out, "%d\t%s\n", i, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&compare, "compare", "", "map classes onto a built-in family (coco|voc)")
	return cmd
}

func printClassMappings(out io.Writer, opts *RootOptions, ds *dataset.Dataset, family models.Family) error {
	mappings, err := ds.MapClasses(family)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		return writeJSON(out, mappings)
	}
	for _, m := range mappings {
		target := "-"
		if m.FamilyIndex >= 0 {
			target = strconv.Itoa(m.FamilyIndex)
		}
		fmt.Fprintf(out, "%d\t%s\t%s\n", m.Index, m.Name, target)
	}
	return nil
}

// NewGroupCommand prints the annotations of each image.
func NewGroupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "group [annotations.json]",
		Short: "Print annotation ids grouped by image id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := loadDataset(cmd, opts, args)
			if err != nil {
				return err
			}

			groups := make([]ImageGroup, 0, ds.Annotations.Len())
			ds.Annotations.Each(func(imageID int, annotations []coco.Annotation) bool {
				ids := make([]int, 0, len(annotations))
				for _, a := range annotations {
					ids = append(ids, a.ID)
				}
				groups = append(groups, ImageGroup{ImageID: imageID, AnnotationIDs: ids})
				return true
			})

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, groups)
			}
			for _, g := range groups {
				fmt.Fprintf(out, "%d\t%d\t%v\n", g.ImageID, len(g.AnnotationIDs), g.AnnotationIDs)
			}
			return nil
		},
	}
}

// NewRebuildCommand rewrites an annotation file with its category table
// regenerated from the class list.
func NewRebuildCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [annotations.json] <output.json>",
		Short: "Rewrite a file with categories rebuilt from its classes",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[len(args)-1]
			ds, cfg, err := loadDataset(cmd, opts, args[:len(args)-1])
			if err != nil {
				return err
			}
			if err := ds.Save(output, cfg.RootName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d classes, %d images)\n", output, len(ds.Classes), len(ds.Images))
			return nil
		},
	}
}

// NewOverlapsCommand lists annotation pairs of the same image whose boxes
// overlap above --iou.
func NewOverlapsCommand(opts *RootOptions) *cobra.Command {
	var (
		iou        float32
		classAware bool
	)
	cmd := &cobra.Command{
		Use:   "overlaps [annotations.json]",
		Short: "List annotation pairs whose boxes overlap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := loadDataset(cmd, opts, args)
			if err != nil {
				return err
			}
			overlaps, err := ds.Overlaps(iou, classAware)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				if overlaps == nil {
					overlaps = []dataset.AnnotationOverlap{}
				}
				return writeJSON(out, overlaps)
			}
			for _, o := range overlaps {
				fmt.Fprintf(out, "%d\t%d\t%d\t%.3f\n", o.ImageID, o.First, o.Second, o.IoU)
			}
			return nil
		},
	}
	cmd.Flags().Float32Var(&iou, "iou", 0.9, "IoU above which two boxes are reported")
	cmd.Flags().BoolVar(&classAware, "class-aware", false, "only compare boxes of the same class")
	return cmd
}

// NewDedupeCommand rewrites an annotation file without near-duplicate
// boxes.
func NewDedupeCommand(opts *RootOptions) *cobra.Command {
	var (
		iou        float32
		classAware bool
	)
	cmd := &cobra.Command{
		Use:   "dedupe [annotations.json] <output.json>",
		Short: "Drop annotations overlapping an earlier box of the same image",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[len(args)-1]
			ds, cfg, err := loadDataset(cmd, opts, args[:len(args)-1])
			if err != nil {
				return err
			}
			removed, err := ds.Dedupe(iou, classAware)
			if err != nil {
				return err
			}
			if err := ds.Save(output, cfg.RootName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d annotations removed)\n", output, removed)
			return nil
		},
	}
	cmd.Flags().Float32Var(&iou, "iou", 0.9, "IoU above which a box is a duplicate")
	cmd.Flags().BoolVar(&classAware, "class-aware", false, "only compare boxes of the same class")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/annotation-engine/internal/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, collections and libraries",
}

// --- list items ---

var listItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List top-level items of the library",
	RunE:  runListItems,
}

// --- list collections ---

var listCollectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List collections of the library",
	RunE:  runListCollections,
}

// --- list libraries ---

var listLibrariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the personal library and group libraries",
	RunE:  runListLibraries,
}

// --- list annotations ---

var listAnnotationsCmd = &cobra.Command{
	Use:   "annotations <item-key>",
	Short: "Print a compact annotation preview for one item",
	Args:  cobra.ExactArgs(1),
	RunE:  runListAnnotations,
}

func init() {
	listItemsCmd.Flags().Int("limit", 100, "maximum number of items to list")
	listAnnotationsCmd.Flags().String("format", "", "output syntax: org or markdown (default org)")

	listCmd.AddCommand(listItemsCmd)
	listCmd.AddCommand(listCollectionsCmd)
	listCmd.AddCommand(listLibrariesCmd)
	listCmd.AddCommand(listAnnotationsCmd)
	rootCmd.AddCommand(listCmd)
}

func runListItems(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	limit, _ := cmd.Flags().GetInt("limit")

	ctx := cmd.Context()
	cl := newClients(ctx, cfg)

	items, err := cl.zot.TopLevelItems(ctx, limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items found.")
		return nil
	}

	fmt.Printf("%-10s %-16s %s\n", "KEY", "TYPE", "TITLE")
	for _, it := range items {
		title := render.Repair(it.Title)
		if title == "" {
			title = "Unknown"
		}
		fmt.Printf("%-10s %-16s %s\n", it.Key, it.ItemType, title)
	}
	return nil
}

func runListCollections(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)

	ctx := cmd.Context()
	cl := newClients(ctx, cfg)

	cols, err := cl.zot.Collections(ctx)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		fmt.Println("No collections found.")
		return nil
	}

	fmt.Printf("%-10s %-10s %s\n", "KEY", "PARENT", "NAME")
	for _, col := range cols {
		parent := col.ParentID
		if parent == "" {
			parent = "-"
		}
		fmt.Printf("%-10s %-10s %s\n", col.Key, parent, render.Repair(col.Name))
	}
	return nil
}

func runListLibraries(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)

	ctx := cmd.Context()
	cl := newClients(ctx, cfg)

	fmt.Printf("%-8s %s\n", "ID", "NAME")
	fmt.Printf("%-8d %s\n", 1, "Personal library")

	groups, err := cl.zot.Groups(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: listing groups: %v\n", err)
		return nil
	}
	for _, g := range groups {
		fmt.Printf("%-8d %s\n", g.ID, g.Name)
	}
	return nil
}

// runListAnnotations prints every annotation of an item in the compact
// one-block-per-annotation form, without chapter headings or file output.
func runListAnnotations(cmd *cobra.Command, args []string) error {
	itemKey := args[0]

	cfg := loadConfig(cmd)
	format, _ := cmd.Flags().GetString("format")
	if err := applyFormatFlag(&cfg, format); err != nil {
		return err
	}

	ctx := cmd.Context()
	cl := newClients(ctx, cfg)

	item := cl.fetchItem(ctx, itemKey)
	if item.Err != "" {
		return fmt.Errorf("%s", item.Err)
	}

	title := render.Repair(item.Title)
	if title == "" {
		title = "Unknown"
	}
	fmt.Printf("%s (%d annotations)\n\n", title, item.AnnotationCount())

	bctx := render.BlockContext{
		Syntax:      render.ForSyntax(cfg.Render.Syntax),
		Mode:        render.ModeCompact,
		CitationKey: item.CitationKey,
	}
	for _, att := range item.Attachments {
		for _, ann := range render.SortReadingOrder(att.Annotations) {
			uri, label := render.BuildLink(att.ID, cfg.Zotero.LibraryID, ann.Key, ann.PageLabel, att.ContentType)
			block := render.RenderBlock(ann, uri, label, bctx)
			if len(block) == 0 {
				continue
			}
			for _, line := range block {
				fmt.Println(line)
			}
			fmt.Println()
		}
	}
	return nil
}

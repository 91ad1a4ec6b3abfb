// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/annotation-engine/internal/exportlog"
	"github.com/pdiddy/annotation-engine/internal/render"
	"github.com/pdiddy/annotation-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [collection-key]",
	Short: "Batch-render annotated items into an output directory",
	Long: `Export renders every annotated item of a collection, or of the whole
library when no collection key is given, into one document per item. Each
document is named after the item's citation key (falling back to the item
key) and written only when its content changed since the last export.

With --frontmatter, Markdown exports carry a YAML metadata block with the
item's bibliographic fields.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "", "output syntax: org or markdown (default org)")
	exportCmd.Flags().StringP("output-dir", "o", "", "output directory (default: annotations)")
	exportCmd.Flags().Bool("frontmatter", false, "add a YAML metadata block to markdown exports")
	exportCmd.Flags().Bool("force", false, "rewrite documents even when their content is unchanged")
	exportCmd.Flags().Bool("no-chapters", false, "skip chapter headings from the document outline")
	exportCmd.Flags().Int("limit", 1000, "maximum number of library items in whole-library mode")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	format, _ := cmd.Flags().GetString("format")
	if err := applyFormatFlag(&cfg, format); err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Export.OutputDir = dir
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "annotations"
	}
	if cfg.Export.StateDir == "" {
		cfg.Export.StateDir = cfg.Export.OutputDir
	}
	if fm, _ := cmd.Flags().GetBool("frontmatter"); fm {
		cfg.Export.Frontmatter = true
	}
	force, _ := cmd.Flags().GetBool("force")
	noChapters, _ := cmd.Flags().GetBool("no-chapters")
	limit, _ := cmd.Flags().GetInt("limit")

	ctx := cmd.Context()
	cl := newClients(ctx, cfg)

	items, err := exportItems(ctx, cl, args, limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No annotated items found.")
		return nil
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	store, err := exportlog.NewStore(cfg.Export.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	as := newAssembler(cfg, noChapters)

	var sum exportlog.Summary
	for _, item := range items {
		if err := exportItem(ctx, cl, store, as, cfg, item, force, &sum); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: exporting %s: %v\n", item.ID, err)
			sum.Failed++
		}
	}

	fmt.Printf("Exported %d items: %d written, %d skipped, %d failed\n",
		sum.Total(), sum.Written, sum.Skipped, sum.Failed)
	return nil
}

// exportItems gathers the annotated items to export: the members of one
// collection, or every annotated top-level item of the library.
func exportItems(ctx context.Context, cl *clients, args []string, limit int) ([]types.Item, error) {
	if len(args) == 1 {
		col := cl.zot.CollectionAnnotations(ctx, args[0])
		if col.Err != "" {
			return nil, fmt.Errorf("%s", col.Err)
		}
		return col.Items, nil
	}

	summaries, err := cl.zot.TopLevelItems(ctx, limit)
	if err != nil {
		return nil, err
	}

	var items []types.Item
	for _, s := range summaries {
		item := cl.fetchItem(ctx, s.Key)
		if item.Err != "" || item.AnnotationCount() == 0 {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func exportItem(ctx context.Context, cl *clients, store *exportlog.Store, as *render.Assembler, cfg types.Config, item types.Item, force bool, sum *exportlog.Summary) error {
	if item.CitationKey == "" {
		item.CitationKey = cl.citationKey(ctx, item.ID)
	}

	content := as.AssembleItem(item)
	if cfg.Export.Frontmatter && cfg.Render.Syntax == types.SyntaxMarkdown {
		block, err := frontmatter(ctx, cl, item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: metadata for %s: %v\n", item.ID, err)
		} else {
			content = block + content
		}
	}

	contentSum := exportlog.ContentSum(content)
	format := as.Syntax.Name()
	if !force {
		unchanged, err := store.Unchanged(ctx, item.ID, format, contentSum)
		if err != nil {
			return err
		}
		if unchanged {
			sum.Skipped++
			return nil
		}
	}

	name := item.CitationKey
	if name == "" {
		name = item.ID
	}
	path := filepath.Join(cfg.Export.OutputDir, name+"."+as.Syntax.FileExt())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	if err := store.Put(ctx, exportlog.Record{
		ItemID:      item.ID,
		Format:      format,
		CitationKey: item.CitationKey,
		OutputPath:  path,
		ContentSum:  contentSum,
	}); err != nil {
		return err
	}

	sum.Written++
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// frontmatter renders the YAML metadata block that precedes a Markdown
// export.
func frontmatter(ctx context.Context, cl *clients, item types.Item) (string, error) {
	meta, err := cl.zot.Metadata(ctx, item.ID)
	if err != nil {
		return "", err
	}
	if meta.CitationKey == "" {
		meta.CitationKey = item.CitationKey
	}

	out, err := yaml.Marshal(meta)
	if err != nil {
		return "", err
	}
	return "---\n" + string(out) + "---\n\n", nil
}

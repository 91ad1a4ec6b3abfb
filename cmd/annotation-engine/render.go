// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <item-key>",
	Short: "Render one item's annotations as a document",
	Long: `Render fetches all PDF and EPUB annotations of a Zotero item and writes
them as a single org-mode or Markdown document. Better BibTeX is used when
its API answers; otherwise the native Zotero local API serves the same data.

By default the document is written to annotations_<item-key>.<ext> in the
current directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("format", "", "output syntax: org or markdown (default org)")
	renderCmd.Flags().StringP("output", "o", "", "output file path")
	renderCmd.Flags().Bool("stdout", false, "print the document to stdout instead of a file")
	renderCmd.Flags().Bool("no-chapters", false, "skip chapter headings from the document outline")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	itemKey := args[0]

	cfg := loadConfig(cmd)
	format, _ := cmd.Flags().GetString("format")
	if err := applyFormatFlag(&cfg, format); err != nil {
		return err
	}
	noChapters, _ := cmd.Flags().GetBool("no-chapters")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	output, _ := cmd.Flags().GetString("output")

	ctx := cmd.Context()
	cl := newClients(ctx, cfg)
	item := cl.fetchItem(ctx, itemKey)

	as := newAssembler(cfg, noChapters)
	doc := as.AssembleItem(item)

	if output == "" {
		output = fmt.Sprintf("annotations_%s.%s", itemKey, as.Syntax.FileExt())
	}
	return writeDocument(doc, output, toStdout)
}

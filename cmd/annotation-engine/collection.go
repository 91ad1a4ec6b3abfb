// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection <collection-key>",
	Short: "Render a whole collection's annotations as one document",
	Long: `Collection renders every annotated item of a Zotero collection into a
single document. Items without annotations are counted in the header but
omitted from the body.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollection,
}

func init() {
	collectionCmd.Flags().String("format", "", "output syntax: org or markdown (default org)")
	collectionCmd.Flags().StringP("output", "o", "", "output file path")
	collectionCmd.Flags().Bool("stdout", false, "print the document to stdout instead of a file")
	collectionCmd.Flags().Bool("no-chapters", false, "skip chapter headings from the document outline")
	rootCmd.AddCommand(collectionCmd)
}

func runCollection(cmd *cobra.Command, args []string) error {
	collectionKey := args[0]

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

	col := cl.zot.CollectionAnnotations(ctx, collectionKey)
	for i := range col.Items {
		if col.Items[i].CitationKey == "" {
			col.Items[i].CitationKey = cl.citationKey(ctx, col.Items[i].ID)
		}
	}

	as := newAssembler(cfg, noChapters)
	doc := as.AssembleCollection(col)

	if output == "" {
		output = fmt.Sprintf("annotations_%s.%s", collectionKey, as.Syntax.FileExt())
	}
	return writeDocument(doc, output, toStdout)
}

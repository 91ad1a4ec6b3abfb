// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the annotation-engine CLI. It renders
// Zotero PDF and EPUB annotations as org-mode or Markdown documents via the
// Zotero local API and the Better BibTeX plugin.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the annotation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "annotation-engine",
	Short: "Render Zotero annotations as org-mode or Markdown documents",
	Long: `annotation-engine retrieves highlights, notes and figures from Zotero's
local API (with Better BibTeX when available) and renders them as structured
org-mode or Markdown documents: one block per annotation with a deep link
back into the source PDF or EPUB, grouped under chapter headings when the
document carries an outline.

Subcommands render single items, whole collections, list the library, and
batch-export annotated documents to a directory.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./annotation-engine.yaml or ~/.config/annotation-engine/config.yaml)")
	rootCmd.PersistentFlags().Int("library", 0, "library id (default: personal library)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("annotation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "annotation-engine"))
		}
	}

	viper.SetEnvPrefix("ANNOTATION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the full configuration from viper plus the
// persistent flags. Unset keys stay zero; every component applies its own
// documented default at point of use.
func loadConfig(cmd *cobra.Command) types.Config {
	var cfg types.Config

	cfg.Zotero.BaseURL = viper.GetString("zotero.base_url")
	cfg.Zotero.LibraryID = viper.GetInt("zotero.library_id")
	cfg.Zotero.Timeout = viper.GetDuration("zotero.timeout")
	cfg.Zotero.UserAgent = viper.GetString("zotero.user_agent")

	cfg.BBT.BaseURL = viper.GetString("bbt.base_url")
	cfg.BBT.Timeout = viper.GetDuration("bbt.timeout")
	cfg.BBT.UserAgent = viper.GetString("bbt.user_agent")

	cfg.Outline.StorageDir = viper.GetString("outline.storage_dir")
	cfg.Outline.MaxLevel = viper.GetInt("outline.max_level")
	cfg.Outline.Disabled = viper.GetBool("outline.disabled")

	cfg.Render.Syntax = types.OutputSyntax(viper.GetString("render.syntax"))

	cfg.Export.OutputDir = viper.GetString("export.output_dir")
	cfg.Export.StateDir = viper.GetString("export.state_dir")
	cfg.Export.Frontmatter = viper.GetBool("export.frontmatter")

	if lib, err := cmd.Flags().GetInt("library"); err == nil && lib > 0 {
		cfg.Zotero.LibraryID = lib
	}
	if cfg.Zotero.UserAgent == "" {
		cfg.Zotero.UserAgent = "annotation-engine/" + version
	}
	if cfg.BBT.UserAgent == "" {
		cfg.BBT.UserAgent = cfg.Zotero.UserAgent
	}
	cfg.Outline.StorageDir = expandHome(cfg.Outline.StorageDir)
	if cfg.Outline.StorageDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Outline.StorageDir = filepath.Join(home, "Zotero", "storage")
		}
	}
	return cfg
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(dir string) string {
	if !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, dir[2:])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"DevBlogProxy/internal/app"
	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/logging"
)

var (
	flagPages   int
	flagPerPage int
	flagOut     string
	flagID      int64
	flagSlug    string
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Build and query the article id/slug index",
}

var mappingGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Walk the Dev.to listing and store id/slug pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

		application, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		report, err := application.GenerateMappings(cmd.Context(), flagPages, flagPerPage)
		if err != nil {
			return fmt.Errorf("generate mappings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d articles from %d pages\n", report.TotalArticles, report.Pages)

		if flagOut == "" {
			return nil
		}

		export, err := application.ExportMappings(cmd.Context())
		if err != nil {
			return err
		}
		if err := writeExport(flagOut, export); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d mappings to %s\n", len(export), flagOut)
		return nil
	},
}

var mappingLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve an article id to its slug or a slug to its id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (flagID > 0) == (flagSlug != "") {
			return errors.New("exactly one of --id or --slug is required")
		}

		cfg := loadConfig()
		application, err := app.New(cmd.Context(), cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format))
		if err != nil {
			return err
		}
		defer application.Close()

		var mapping domain.SlugMapping
		if flagID > 0 {
			mapping, err = application.LookupByID(cmd.Context(), flagID)
		} else {
			mapping, err = application.LookupBySlug(cmd.Context(), flagSlug)
		}
		if err != nil {
			return fmt.Errorf("lookup mapping: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), mapping.URL(application.OriginURL()))
		return nil
	},
}

func init() {
	mappingGenerateCmd.Flags().IntVar(&flagPages, "pages", 0, "number of listing pages to walk (default from config)")
	mappingGenerateCmd.Flags().IntVar(&flagPerPage, "per-page", 0, "articles per listing page (default from config)")
	mappingGenerateCmd.Flags().StringVar(&flagOut, "out", "", "write the {id: slug} JSON export to this file")

	mappingLookupCmd.Flags().Int64Var(&flagID, "id", 0, "article id")
	mappingLookupCmd.Flags().StringVar(&flagSlug, "slug", "", "article slug")

	mappingCmd.AddCommand(mappingGenerateCmd)
	mappingCmd.AddCommand(mappingLookupCmd)
}

func writeExport(path string, export map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := encodeExport(f, export); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func encodeExport(w io.Writer, export map[string]string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

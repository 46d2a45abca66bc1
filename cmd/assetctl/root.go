package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tendant/simple-asset/pkg/simpleasset"
	"github.com/tendant/simple-asset/pkg/simpleasset/config"
)

func newRootCmd() *cobra.Command {
	var (
		dataDir     string
		databaseURL string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "assetctl",
		Short: "Assetctl manages a catalog of binary assets in a local managed directory",
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "managed storage directory")
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres connection string (default: in-memory)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	build := func(ctx context.Context) (simpleasset.Service, error) {
		return buildService(ctx, dataDir, databaseURL)
	}

	cmd.AddCommand(
		newImportCmd(build, &jsonOutput),
		newFilesCmd(build, &jsonOutput),
		newAssetsCmd(build, &jsonOutput),
	)

	return cmd
}

func buildService(ctx context.Context, dataDir, databaseURL string) (simpleasset.Service, error) {
	opts := []config.Option{
		config.WithFilesystemStorage("fs", dataDir),
		config.WithDefaultStorage("fs"),
	}
	if databaseURL != "" {
		opts = append(opts, config.WithDatabase("postgres", databaseURL))
	}
	opts = append(opts, config.WithEnv("ASSETCTL_"))

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	return cfg.BuildService(ctx)
}

func newImportCmd(build func(context.Context) (simpleasset.Service, error), jsonOutput *bool) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import files from disk into the managed catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}

			for _, path := range args {
				assetTitle := title
				if assetTitle == "" {
					assetTitle = path
				}

				asset, err := svc.ImportAsset(cmd.Context(), simpleasset.ImportAssetRequest{
					Title:      assetTitle,
					SourcePath: path,
				})
				if err != nil {
					return fmt.Errorf("import %q: %w", path, err)
				}

				if *jsonOutput {
					if err := writeJSON(asset); err != nil {
						return err
					}
				} else {
					fmt.Printf("imported %s as asset %d (file %d)\n", path, asset.ID, asset.FileID)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "asset title (default: source path)")

	return cmd
}

func newFilesCmd(build func(context.Context) (simpleasset.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List file records in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}

			files, err := svc.ListFiles(cmd.Context())
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(files)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tKEY\tTAGS")
			for _, f := range files {
				fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", f.ID, f.Title, f.ObjectKey, f.Tags)
			}
			return w.Flush()
		},
	}
}

func newAssetsCmd(build func(context.Context) (simpleasset.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List asset records in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}

			assets, err := svc.ListAssets(cmd.Context())
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(assets)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tFILE")
			for _, a := range assets {
				fmt.Fprintf(w, "%d\t%s\t%d\n", a.ID, a.Title, a.FileID)
			}
			return w.Flush()
		},
	}
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package root

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole world (profile, quests, shop, settings, activity) as YAML or JSON",
		Long: "Write the whole world as YAML or JSON.\n\n" +
			"--format docs dumps the raw stored documents with their versions, for debugging.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeExport(ctx, w, a, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml|json|docs)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func writeExport(ctx context.Context, w io.Writer, a *app, format string) error {
	if format == "docs" {
		docs, err := a.store.Documents(ctx, a.svc.Family())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	snap, err := a.svc.Snapshot(ctx)
	if err != nil {
		return err
	}
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unknown format %q (yaml|json|docs)", format)
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/reportingcloud/pkg/propertymap"
)

func newTemplatesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "tpl"},
		Short:   "Manage stored templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(root),
		newTemplatesCountCmd(root),
		newTemplatesExistsCmd(root),
		newTemplatesPageCountCmd(root),
		newTemplatesThumbnailsCmd(root),
		newTemplatesUploadCmd(root),
		newTemplatesDownloadCmd(root),
		newTemplatesDeleteCmd(root),
		newTemplatesSyncCmd(root),
	)
	return cmd
}

func newTemplatesListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				list, err := s.client.GetTemplateList(ctx)
				if err != nil {
					return err
				}
				m := propertymap.TemplateInfoMap
				records := make([]map[string]any, 0, len(list))
				for _, t := range list {
					records = append(records, m.ToWire(t))
				}
				return s.print.records(m.WireKeys(), records)
			})
		},
	}
}

func newTemplatesCountCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				n, err := s.client.GetTemplateCount(ctx)
				if err != nil {
					return err
				}
				return s.print.value(n)
			})
		},
	}
}

func newTemplatesExistsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <name>",
		Short: "Check whether a template is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				ok, err := s.client.TemplateExists(ctx, args[0])
				if err != nil {
					return err
				}
				return s.print.value(ok)
			})
		},
	}
}

func newTemplatesPageCountCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pagecount <name>",
		Short: "Show the page count of a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				n, err := s.client.GetTemplatePageCount(ctx, args[0])
				if err != nil {
					return err
				}
				return s.print.value(n)
			})
		},
	}
}

type thumbnailsOptions struct {
	zoom     int
	fromPage int
	toPage   int
	format   string
	outDir   string
}

func newTemplatesThumbnailsCmd(root *rootOptions) *cobra.Command {
	opts := thumbnailsOptions{zoom: 100, fromPage: 1, toPage: 1, format: "PNG"}
	cmd := &cobra.Command{
		Use:   "thumbnails <name>",
		Short: "Render template pages as images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				return runThumbnails(ctx, s, args[0], opts)
			})
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&opts.zoom, "zoom", 100, "zoom factor in percent (1..400)")
	fs.IntVar(&opts.fromPage, "from", 1, "first page")
	fs.IntVar(&opts.toPage, "to", 1, "last page")
	fs.StringVar(&opts.format, "format", "PNG", "image format: BMP|GIF|JPG|PNG")
	fs.StringVar(&opts.outDir, "out-dir", "", "write images here instead of listing sizes")
	return cmd
}

func runThumbnails(ctx context.Context, s *session, name string, opts thumbnailsOptions) error {
	thumbs, err := s.client.GetTemplateThumbnails(ctx, name, opts.zoom, opts.fromPage, opts.toPage, opts.format)
	if err != nil {
		return err
	}
	ext := strings.ToLower(opts.format)
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	records := make([]map[string]any, 0, len(thumbs))
	for _, t := range thumbs {
		var page int64
		var img []byte
		if t.Page != nil {
			page = *t.Page
		}
		if t.Image != nil {
			img = *t.Image
		}
		rec := map[string]any{"page": page, "bytes": len(img)}
		if opts.outDir != "" {
			path := filepath.Join(opts.outDir, fmt.Sprintf("%s-%d.%s", stem, page, ext))
			if err := writeOutput(s.out, path, img); err != nil {
				return err
			}
			rec["file"] = path
		}
		records = append(records, rec)
	}
	keys := []string{"page", "bytes"}
	if opts.outDir != "" {
		keys = append(keys, "file")
	}
	return s.print.records(keys, records)
}

func newTemplatesUploadCmd(root *rootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				var (
					ok  bool
					err error
				)
				if strings.TrimSpace(name) == "" {
					ok, err = s.client.UploadTemplate(ctx, args[0])
				} else {
					var data []byte
					// #nosec G304 -- user-selected template file.
					if data, err = os.ReadFile(args[0]); err != nil {
						return err
					}
					ok, err = s.client.UploadTemplateFromBytes(ctx, name, data)
				}
				if err != nil {
					return err
				}
				return s.print.value(ok)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store under this name instead of the file's base name")
	return cmd
}

func newTemplatesDownloadCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download <name>",
		Short: "Download a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				data, err := s.client.DownloadTemplate(ctx, args[0])
				if err != nil {
					return err
				}
				return writeOutput(s.out, out, data)
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func newTemplatesDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				ok, err := s.client.DeleteTemplate(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("template %q not found", args[0])
				}
				return s.print.value(ok)
			})
		},
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/r9s-ai/reportingcloud/pkg/jsonutil"
	"github.com/r9s-ai/reportingcloud/pkg/propertymap"
	"github.com/r9s-ai/reportingcloud/pkg/reportingcloud"
)

func newDocumentCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc"},
		Short:   "Convert, merge and find-and-replace documents",
	}
	cmd.AddCommand(
		newDocumentConvertCmd(root),
		newDocumentMergeCmd(root),
		newDocumentFindReplaceCmd(root),
	)
	return cmd
}

func newDocumentConvertCmd(root *rootOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a local document to another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				data, err := s.client.ConvertDocument(ctx, args[0], format)
				if err != nil {
					return err
				}
				return writeOutput(s.out, out, data)
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&format, "format", "f", "PDF", "return format")
	fs.StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

type mergeOptions struct {
	templateName string
	templateFile string
	dataPath     string
	settingsPath string
	format       string
	appendDocs   bool
	outDir       string
}

func newDocumentMergeCmd(root *rootOptions) *cobra.Command {
	opts := mergeOptions{format: "PDF"}
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge records into a template",
		Long: "Merge a JSON array of records into a stored (--template-name) or local\n" +
			"(--template-file) template. --settings reads merge settings from YAML or JSON.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				return runMerge(ctx, s, cmd.InOrStdin(), opts)
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.templateName, "template-name", "", "stored template name")
	fs.StringVar(&opts.templateFile, "template-file", "", "local template file sent inline")
	fs.StringVarP(&opts.dataPath, "data", "d", "", "merge data JSON file (- for stdin)")
	fs.StringVar(&opts.settingsPath, "settings", "", "merge settings YAML/JSON file")
	fs.StringVarP(&opts.format, "format", "f", "PDF", "return format")
	fs.BoolVar(&opts.appendDocs, "append", false, "append all records into one document")
	fs.StringVar(&opts.outDir, "out-dir", "", "write documents here (default stdout for a single document)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runMerge(ctx context.Context, s *session, stdin io.Reader, opts mergeOptions) error {
	raw, err := readInput(stdin, opts.dataPath)
	if err != nil {
		return err
	}
	records, err := parseMergeData(raw)
	if err != nil {
		return err
	}
	req := reportingcloud.MergeRequest{
		MergeData:        records,
		ReturnFormat:     opts.format,
		TemplateName:     opts.templateName,
		TemplateFilename: opts.templateFile,
		Append:           opts.appendDocs,
	}
	var docs [][]byte
	if opts.settingsPath != "" {
		settings, err := readSettingsFile(opts.settingsPath)
		if err != nil {
			return err
		}
		docs, err = s.client.MergeDocumentWithSettings(ctx, req, settings)
		if err != nil {
			return err
		}
	} else if docs, err = s.client.MergeDocument(ctx, req); err != nil {
		return err
	}
	return writeDocuments(s, docs, opts.format, opts.outDir)
}

func writeDocuments(s *session, docs [][]byte, format, outDir string) error {
	if outDir == "" && len(docs) == 1 {
		return writeOutput(s.out, "", docs[0])
	}
	if outDir == "" {
		outDir = "."
	}
	ext := strings.ToLower(format)
	files := make([]string, 0, len(docs))
	for i, d := range docs {
		path := filepath.Join(outDir, fmt.Sprintf("document-%d.%s", i+1, ext))
		if err := writeOutput(s.out, path, d); err != nil {
			return err
		}
		files = append(files, path)
	}
	return s.print.list("file", files)
}

type findReplaceOptions struct {
	templateName string
	templateFile string
	pairsPath    string
	settingsPath string
	format       string
	out          string
}

func newDocumentFindReplaceCmd(root *rootOptions) *cobra.Command {
	opts := findReplaceOptions{format: "PDF"}
	cmd := &cobra.Command{
		Use:     "findreplace",
		Aliases: []string{"find-and-replace"},
		Short:   "Replace text in a template",
		Long: "Replace text in a stored or local template. --pairs is a JSON file holding\n" +
			`either [["find","replace"], ...] or {"find": "replace", ...}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				return runFindReplace(ctx, s, cmd.InOrStdin(), opts)
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.templateName, "template-name", "", "stored template name")
	fs.StringVar(&opts.templateFile, "template-file", "", "local template file sent inline")
	fs.StringVarP(&opts.pairsPath, "pairs", "p", "", "find-and-replace pairs JSON file (- for stdin)")
	fs.StringVar(&opts.settingsPath, "settings", "", "merge settings YAML/JSON file")
	fs.StringVarP(&opts.format, "format", "f", "PDF", "return format")
	fs.StringVar(&opts.out, "out", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("pairs")
	return cmd
}

func runFindReplace(ctx context.Context, s *session, stdin io.Reader, opts findReplaceOptions) error {
	raw, err := readInput(stdin, opts.pairsPath)
	if err != nil {
		return err
	}
	pairs, err := parseFindReplacePairs(raw)
	if err != nil {
		return err
	}
	req := reportingcloud.FindAndReplaceRequest{
		FindAndReplaceData: pairs,
		ReturnFormat:       opts.format,
		TemplateName:       opts.templateName,
		TemplateFilename:   opts.templateFile,
	}
	if opts.settingsPath != "" {
		wire, err := readSettingsFile(opts.settingsPath)
		if err != nil {
			return err
		}
		settings, err := propertymap.MergeSettingsMap.FromWire(wire)
		if err != nil {
			return fmt.Errorf("merge settings: %w", err)
		}
		req.Settings = &settings
	}
	doc, err := s.client.FindAndReplaceDocument(ctx, req)
	if err != nil {
		return err
	}
	return writeOutput(s.out, opts.out, doc)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if strings.TrimSpace(path) == "-" {
		return io.ReadAll(stdin)
	}
	// #nosec G304 -- user-selected input file.
	return os.ReadFile(path)
}

func parseMergeData(raw []byte) ([]map[string]any, error) {
	items, err := jsonutil.DecodeArray(raw, "merge data")
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("merge data item %d is not an object", i)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseFindReplacePairs(raw []byte) ([][2]string, error) {
	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil && asMap != nil {
		keys := make([]string, 0, len(asMap))
		for k := range asMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([][2]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, [2]string{k, asMap[k]})
		}
		return pairs, nil
	}
	var pairs [][2]string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("decode find-and-replace pairs: %w", err)
	}
	return pairs, nil
}

// readSettingsFile reads wire-shaped merge settings. YAML is a superset of
// JSON so both are accepted.
func readSettingsFile(path string) (map[string]any, error) {
	// #nosec G304 -- user-selected settings file.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode merge settings: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/apimap/internal/app"
	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/transform"
)

var transformHint, transformResource string

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>...",
	Short: "Resolve logical paths to backend URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMapping()
		if err != nil {
			return err
		}

		type resolved struct {
			endpoint.Resolution `yaml:",inline"`
			Resource            transform.Resource `json:"resource" yaml:"resource"`
		}
		out := make([]resolved, 0, len(args))
		for _, path := range args {
			res := m.Resolver.Resolve(path)
			out = append(out, resolved{Resolution: res, Resource: transform.ResourceFromHint(string(res.Key))})
		}

		if format != "table" {
			return render(cmd.OutOrStdout(), out)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tKIND\tRESOURCE\tURL")
		for _, r := range out {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Key, r.Kind, r.Resource, r.URL)
		}
		return tw.Flush()
	},
}

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the endpoint table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMapping()
		if err != nil {
			return err
		}

		entries := m.Table.Entries()
		if format != "table" {
			return render(cmd.OutOrStdout(), entries)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tURL")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.Key, e.URL)
		}
		return tw.Flush()
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform [file|-]",
	Short: "Reshape a backend JSON document into view models",
	Long: `Reads backend JSON from a file (or stdin when omitted or "-") and prints
the transformed document. --hint selects the resource from an endpoint path,
e.g. admin/smart-bins; --resource names it directly, e.g. bins.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			in = f
		}

		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		r, err := transformTarget()
		if err != nil {
			return err
		}
		raw, err := transform.Decode(data)
		if err != nil {
			return err
		}
		out := transform.NewRegistry().Transform(raw, r)
		if format == "yaml" {
			return render(cmd.OutOrStdout(), out)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	transformCmd.Flags().StringVar(&transformHint, "hint", "", "Endpoint hint selecting the resource")
	transformCmd.Flags().StringVar(&transformResource, "resource", "", "Resource name or alias, e.g. smart-bins, bins, dashboard")

	rootCmd.AddCommand(resolveCmd, endpointsCmd, transformCmd)
}

// transformTarget picks the resource from --resource or --hint.
func transformTarget() (transform.Resource, error) {
	switch {
	case transformHint == "" && transformResource == "":
		return transform.Unknown, errors.New("one of --hint or --resource is required")
	case transformHint != "" && transformResource != "":
		return transform.Unknown, errors.New("--hint and --resource are mutually exclusive")
	}
	if transformResource == "" {
		return transform.ResourceFromHint(transformHint), nil
	}
	r, ok := transform.ParseResource(transformResource)
	if !ok {
		return transform.Unknown, fmt.Errorf("unknown resource %q", transformResource)
	}
	return r, nil
}

func loadMapping() (*app.Mapping, error) {
	cfg := loadConfig()
	return app.LoadMapping(cfg, newLogger(cfg))
}

// render writes v as JSON or YAML according to --format.
func render(w io.Writer, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q (want table, json or yaml)", format)
	}
}

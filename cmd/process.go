package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/claims-cli/internal/claim"
)

var processFormat string

var processCmd = &cobra.Command{
	Use:   "process <file.pdf>...",
	Short: "Run local PDF claim documents through the pipeline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(processFormat); err != nil {
			return err
		}

		uploads, err := readUploads(args)
		if err != nil {
			return err
		}

		env, err := initPipeline("process")
		if err != nil {
			return err
		}

		results, err := env.Pipeline.ProcessUploads(cmd.Context(), env.Text, uploads, env.Concurrency)
		if err != nil {
			return err
		}

		return writeResults(cmd.OutOrStdout(), processFormat, results)
	},
}

func init() {
	processCmd.Flags().StringVar(&processFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(processCmd)
}

func checkFormat(format string) error {
	switch format {
	case "json", "yaml":
		return nil
	default:
		return eris.Errorf("unsupported format %q (json or yaml)", format)
	}
}

// readUploads loads local files, applying the same PDF-only rule as the
// HTTP endpoint before anything is read.
func readUploads(paths []string) ([]claim.Upload, error) {
	for _, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".pdf") {
			return nil, eris.Errorf("invalid file type for '%s': only PDFs are accepted", filepath.Base(p))
		}
	}

	uploads := make([]claim.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", p)
		}
		uploads = append(uploads, claim.Upload{FileName: filepath.Base(p), Data: data})
	}
	return uploads, nil
}

type processOutput struct {
	Message string         `json:"message"`
	Results []claim.Result `json:"results"`
}

// writeResults prints the same document the HTTP endpoint returns. YAML is
// rendered from the JSON form so field names and nulls match.
func writeResults(w io.Writer, format string, results []claim.Result) error {
	out := processOutput{Message: "Files processed successfully.", Results: results}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode results")
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return eris.Wrap(err, "convert results to yaml")
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return eris.Wrap(err, "encode yaml")
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles carried over from the JSON
// source. The encoder still quotes scalars that would change type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

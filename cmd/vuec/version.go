package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vuec/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show vuec build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionJSON(out io.Writer) error {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:      "vuec",
		Version:   v,
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	})
}

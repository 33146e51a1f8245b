package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/spigell/ares/cmd.version=v1.2.0 -X github.com/spigell/ares/cmd.commit=$(git rev-parse HEAD)"
var (
	version = "unknown"
	commit  = ""
	date    = ""
)

var readBuildInfo = debug.ReadBuildInfo

type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go"`
}

// currentBuild fills what ldflags left empty from the module build info.
func currentBuild() buildInfo {
	info := buildInfo{Version: version, Commit: commit, Date: date, Go: runtime.Version()}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "unknown" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		}
	}

	return info
}

func (b buildInfo) String() string {
	out := fmt.Sprintf("%s version: %s", appName, b.Version)
	if b.Commit != "" {
		out += " commit: " + b.Commit
	}
	if b.Date != "" {
		out += " built: " + b.Date
	}
	return out + " " + b.Go
}

func printVersion(w io.Writer, asJSON bool) error {
	info := currentBuild()
	if asJSON {
		return json.NewEncoder(w).Encode(info)
	}
	_, err := fmt.Fprintln(w, info.String())
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printVersion(cmd.OutOrStdout(), viper.GetBool("json"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = currentBuild().Version
}

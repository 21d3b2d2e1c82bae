package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/filingsight/internal/mdrender"
	"github.com/dgallion1/filingsight/internal/pageref"
)

var (
	outputFormat string
	navigateFunc string
)

var rootCmd = &cobra.Command{
	Use:   "pageref",
	Short: "Find and render [Page N] citations in markdown reports",
	Long: `pageref works on the markdown reports produced by filingsight.

It finds bracketed page citations such as [Page 7], [Page 2-5] and
[Page 1, 5, 7], resolves them to page numbers, and renders the report
to HTML with one navigation button per cited page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&navigateFunc, "navigate-func", pageref.DefaultNavigateFunc, "JavaScript function called with the page number",
	)

	rootCmd.AddCommand(renderCmd, scanCmd, resolveCmd, versionCmd)
}

func newRenderer() (*mdrender.Renderer, error) {
	if !pageref.ValidNavigateFunc(navigateFunc) {
		return nil, fmt.Errorf("invalid --navigate-func %q", navigateFunc)
	}
	return mdrender.New(pageref.WithNavigateFunc(navigateFunc)), nil
}

// readInput reads the named file, or stdin when no file is given or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

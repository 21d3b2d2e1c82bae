package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/filingsight/internal/mdrender"
	"github.com/dgallion1/filingsight/internal/pageref"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a markdown report to HTML with page buttons",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		res, err := r.Render(src)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), res.HTML)
		return err
	},
}

var scanPageCount int

// scannedCitation is a citation with the labels of its page buttons.
type scannedCitation struct {
	mdrender.Citation `yaml:",inline"`
	Buttons           []string `json:"buttons" yaml:"buttons"`
	OutOfRange        []int    `json:"out_of_range,omitempty" yaml:"out_of_range,omitempty"`
}

// boundsNavigator records navigation targets beyond the last page.
type boundsNavigator struct {
	pageCount int
	missed    []int
}

func (b *boundsNavigator) NavigateToPage(page int) {
	if page > b.pageCount {
		b.missed = append(b.missed, page)
	}
}

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "List the page citations in a markdown report",
	Long: `List the page citations in a markdown report.

With --page-count every page button is followed against a document of
that many pages and pages past the end are reported as out_of_range.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		if scanPageCount < 0 {
			return fmt.Errorf("invalid --page-count %d", scanPageCount)
		}

		out := []scannedCitation{}
		for _, c := range r.Scan(src) {
			nav := &boundsNavigator{pageCount: scanPageCount}
			sc := scannedCitation{Citation: c, Buttons: []string{}}
			for _, ctl := range pageref.Controls(pageref.NewPageReference(c.Raw), nav) {
				sc.Buttons = append(sc.Buttons, ctl.Label)
				if scanPageCount > 0 {
					ctl.Activate()
				}
			}
			sc.OutOfRange = nav.missed
			out = append(out, sc)
		}
		return writeOutput(cmd.OutOrStdout(), struct {
			Citations []scannedCitation `json:"citations" yaml:"citations"`
		}{out})
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanPageCount, "page-count", 0, "page count of the cited document (0 skips the range check)")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <raw>",
	Short: `Resolve a citation body such as "Page 2-3, 9" to page numbers`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.Join(args, " ")
		pages := pageref.Resolve(raw)
		if pages == nil {
			pages = []int{}
		}
		return writeOutput(cmd.OutOrStdout(), mdrender.Citation{Raw: raw, Pages: pages})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pageref %s\n", version)
	},
}

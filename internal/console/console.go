// Package console prints the user facing messages of the command line tool.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"darwin/internal/config"
	"darwin/internal/model"
)

const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
)

const banner = `
 ____    _    ______        _____ _   _
|  _ \  / \  |  _ \ \      / /_ _| \ | |
| | | |/ _ \ | |_) \ \ /\ / / | ||  \| |
| |_| / ___ \|  _ < \ V  V /  | || |\  |
|____/_/   \_\_| \_\ \_/\_/  |___|_| \_|
`

type Printer struct {
	w     io.Writer
	color bool
}

// New colours output only when w is a terminal.
func New(w io.Writer) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{w: w, color: color}
}

func NewPlain(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) paint(codes, text string) string {
	if !p.color {
		return text
	}
	return codes + text + reset
}

func (p *Printer) Banner() {
	fmt.Fprintln(p.w, p.paint(green+bold, banner))
	fmt.Fprintln(p.w, p.paint(magenta, "\tpopulation evolution simulator"))
	fmt.Fprintln(p.w)
}

func (p *Printer) Parameters(params config.Parameters) {
	fmt.Fprintln(p.w, p.paint(yellow, "User input:"))
	fmt.Fprintf(p.w, " - Input file: '%s'\n", params.InputFile)
	fmt.Fprintf(p.w, " - Output file: '%s'\n", params.OutputFile)
	fmt.Fprintf(p.w, " - Extinction threshold: '%g'\n", params.ExtinctionThreshold)
	fmt.Fprintf(p.w, " - Proliferation threshold: '%g'\n", params.ProliferationThreshold)
	fmt.Fprintf(p.w, " - Number of generations: '%d'\n", params.Generations)
	fmt.Fprintf(p.w, " - Number of pairs to cross-over: '%d'\n", params.PairsToCrossover)
	fmt.Fprintln(p.w, p.paint(cyan, "\nExecuting program..."))
}

func (p *Printer) Finished(runID string, initialSize, finalSize int, stats model.SummaryStats) {
	stats = stats.Reportable()
	fmt.Fprintf(p.w, "Run %s: population %s -> %s, accuracy %.2f%%, perfect fits %s\n",
		runID,
		humanize.Comma(int64(initialSize)),
		humanize.Comma(int64(finalSize)),
		stats.MeanFitness*100,
		humanize.Comma(int64(stats.PerfectFitCount)),
	)
	fmt.Fprintln(p.w, p.paint(cyan, "Program executed correctly."))
}

package cli

import (
	"log"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter renders progress bars for the analysis phases.
type CLIProgressReporter struct {
	quiet    bool
	fileBar  *progressbar.ProgressBar
	matchBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a progress reporter; quiet disables all
// output.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d source files\n", totalFiles)

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
	)
}

func (c *CLIProgressReporter) OnFileAnalyzed(processed, total int, path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	_ = c.fileBar.Set(processed)
}

func (c *CLIProgressReporter) OnMatchingStart(totalModules int) {
	if c.quiet {
		return
	}
	c.matchBar = progressbar.NewOptions(totalModules,
		progressbar.OptionSetDescription("Pattern matching"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
}

func (c *CLIProgressReporter) OnModuleMatched(processed, total int) {
	if c.quiet || c.matchBar == nil {
		return
	}
	_ = c.matchBar.Set(processed)
}

package log

import (
	"fmt"

	"github.com/pterm/pterm"
)

// 📊 Summary is the end-of-run report shown to the user
type Summary struct {
	Planned  int  // Candidates accepted by the rules
	Copied   int  // Files that landed in the output directory
	Skipped  int  // Candidates rejected by the rules
	Warnings int  // Per-file failures that did not abort the run
	Removed  int  // Files removed by a clear
	DryRun   bool // Whether this was a dry run
}

// 📝 LogSummary prints the end-of-run summary with pterm printers,
// mirroring the severity of the outcome
func (l *Logger) LogSummary(s Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var msg string
	if s.DryRun {
		msg = fmt.Sprintf("dry run: would create %d artifacts (%d candidates skipped)", s.Planned, s.Skipped)
	} else {
		msg = fmt.Sprintf("created %d artifacts (%d candidates skipped)", s.Copied, s.Skipped)
	}
	if s.Removed > 0 {
		msg += fmt.Sprintf(", removed %d stale files first", s.Removed)
	}

	switch {
	case s.Warnings > 0:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).
			Printfln("%s, %d warnings", msg, s.Warnings)
	case s.DryRun:
		pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"}).Println(msg)
	default:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "📦"}).Println(msg)
	}

	l.zlog.Info().
		Int("planned", s.Planned).
		Int("copied", s.Copied).
		Int("skipped", s.Skipped).
		Int("warnings", s.Warnings).
		Int("removed", s.Removed).
		Bool("dry_run", s.DryRun).
		Msg("run summary")
}

// 📝 LogCleared reports the result of a clear operation
func (l *Logger) LogCleared(removed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if removed == 0 {
		pterm.Info.WithPrefix(pterm.Prefix{Text: "🧹"}).Println("nothing to remove")
	} else {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "🧹"}).Printfln("removed %d files", removed)
	}
	l.zlog.Info().Int("removed", removed).Msg("clear complete")
}

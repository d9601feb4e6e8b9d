package style

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/gentoo-livegui/calstage/pkg/commands/check"
	"github.com/gentoo-livegui/calstage/pkg/commands/status"
	"github.com/gentoo-livegui/calstage/pkg/commands/vars"
	"github.com/gentoo-livegui/calstage/pkg/executor"
)

// Renderer turns command results into terminal output. In plain mode all
// styling is dropped, which is what piped output and NO_COLOR get.
type Renderer struct {
	plain bool
}

// NewRenderer creates a Renderer; plain disables styling.
func NewRenderer(plain bool) *Renderer {
	return &Renderer{plain: plain}
}

func (r *Renderer) styled(style lipgloss.Style, s string) string {
	if r.plain {
		return s
	}
	return style.Render(s)
}

// RenderInstall lists what the install did, one line per entry, with the
// summary last.
func (r *Renderer) RenderInstall(res *executor.InstallResult) string {
	var b strings.Builder

	for _, e := range res.Entries {
		switch e.Status {
		case executor.StatusInstalled:
			fmt.Fprintf(&b, "%s %s\n", r.styled(SuccessStyle, SuccessMark), e.Entry.Target)
		case executor.StatusWouldInstall:
			fmt.Fprintf(&b, "%s %s\n", r.styled(InfoStyle, PendingMark), e.Entry.Target)
		case executor.StatusSkipped:
			fmt.Fprintf(&b, "%s %s\n", r.styled(WarningStyle, WarningMark),
				r.styled(MutedStyle, e.Entry.Source+" (missing, skipped)"))
		case executor.StatusFailed:
			fmt.Fprintf(&b, "%s %s\n", r.styled(ErrorStyle, ErrorMark), e.Entry.Target)
		}
	}
	b.WriteString("\n")

	summary := fmt.Sprintf("%d installed, %d skipped in %s",
		res.Installed(), res.Skipped(), res.Duration.Round(time.Millisecond))
	if res.DryRun {
		summary = fmt.Sprintf("%d would be installed, %d skipped (dry run)",
			res.Installed(), res.Skipped())
	}
	b.WriteString(r.styled(TitleStyle, summary) + "\n")
	return b.String()
}

// RenderClean lists removals and pruned directories. Entries that were
// already absent stay out of the listing.
func (r *Renderer) RenderClean(res *executor.CleanResult) string {
	var b strings.Builder

	for _, e := range res.Entries {
		switch e.Status {
		case executor.StatusRemoved:
			fmt.Fprintf(&b, "%s %s\n", r.styled(SuccessStyle, SuccessMark), e.Entry.Target)
		case executor.StatusWouldRemove:
			fmt.Fprintf(&b, "%s %s\n", r.styled(InfoStyle, PendingMark), e.Entry.Target)
		case executor.StatusFailed:
			fmt.Fprintf(&b, "%s %s: %v\n", r.styled(ErrorStyle, ErrorMark), e.Entry.Target, e.Err)
		}
	}
	for _, dir := range res.PrunedDirs {
		fmt.Fprintf(&b, "%s %s\n", r.styled(MutedStyle, InfoMark), r.styled(MutedStyle, dir+"/"))
	}
	b.WriteString("\n")

	summary := fmt.Sprintf("%d removed, %d directories pruned in %s",
		res.Removed(), len(res.PrunedDirs), res.Duration.Round(time.Millisecond))
	if res.DryRun {
		summary = fmt.Sprintf("%d would be removed, %d directories pruned (dry run)",
			res.Removed(), len(res.PrunedDirs))
	}
	b.WriteString(r.styled(TitleStyle, summary) + "\n")
	return b.String()
}

// RenderStatus prints the per-entry deployment state as a table.
func (r *Renderer) RenderStatus(res *status.Result) string {
	if r.plain {
		var b strings.Builder
		for _, e := range res.Entries {
			fmt.Fprintf(&b, "%-22s %-15s %s\n", e.Entry.Name, e.State, e.Entry.Target)
		}
		b.WriteString("\n" + statusSummary(res) + "\n")
		return b.String()
	}

	data := pterm.TableData{{"ENTRY", "STATE", "TARGET"}}
	for _, e := range res.Entries {
		data = append(data, []string{
			e.Entry.Name,
			stateStyle(e.State).Sprint(string(e.State)),
			e.Entry.Target,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		// Degrade rather than lose the report.
		return NewRenderer(true).RenderStatus(res)
	}
	return table + "\n\n" + r.styled(TitleStyle, statusSummary(res)) + "\n"
}

// stateStyle maps a deployment state to its pterm style.
func stateStyle(s status.State) *pterm.Style {
	switch s {
	case status.StateInstalled:
		return pterm.NewStyle(pterm.FgGreen)
	case status.StateModified:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case status.StateMissing:
		return pterm.NewStyle(pterm.FgCyan)
	case status.StateSourceMissing:
		return pterm.NewStyle(pterm.FgGray)
	default:
		return pterm.NewStyle(pterm.FgRed)
	}
}

func statusSummary(res *status.Result) string {
	summary := fmt.Sprintf("%d installed, %d modified, %d missing, %d without source",
		res.Count(status.StateInstalled),
		res.Count(status.StateModified),
		res.Count(status.StateMissing),
		res.Count(status.StateSourceMissing))
	if unknown := res.Count(status.StateUnknown); unknown > 0 {
		summary += fmt.Sprintf(", %d unreadable", unknown)
	}
	return summary
}

// RenderCheck prints payload findings, required ones as errors.
func (r *Renderer) RenderCheck(res *check.Result) string {
	var b strings.Builder

	for _, f := range res.Findings {
		mark := r.styled(WarningStyle, WarningMark)
		if f.Required {
			mark = r.styled(ErrorStyle, ErrorMark)
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, r.styled(PathStyle, f.Path), f.Message)
	}
	if len(res.Findings) > 0 {
		b.WriteString("\n")
	}

	if res.Failed() {
		b.WriteString(r.styled(ErrorStyle,
			fmt.Sprintf("%d files checked, payload problems found", res.Checked)) + "\n")
	} else {
		b.WriteString(r.styled(SuccessStyle,
			fmt.Sprintf("%d files checked, payload is sound", res.Checked)) + "\n")
	}
	return b.String()
}

// RenderVars prints the variable set with values and origins.
func (r *Renderer) RenderVars(res *vars.Result) string {
	var b strings.Builder

	if res.File != "" {
		b.WriteString(r.styled(MutedStyle, "config file: "+res.File) + "\n\n")
	}
	for _, v := range res.Variables {
		value := v.Value
		if value == "" {
			value = r.styled(MutedStyle, "(unset)")
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			r.styled(TitleStyle, fmt.Sprintf("%-20s", v.Name)),
			value,
			r.styled(MutedStyle, "("+string(v.Origin)+")"))
	}
	return b.String()
}

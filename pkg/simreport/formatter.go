package simreport

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
)

// Format selects a RunReport's rendered output shape.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Formatter renders a RunReport to text or HTML, mirroring the teacher's
// reporting.Formatter split between GenerateReport's text and HTML paths.
type Formatter struct{}

// NewFormatter returns a Formatter. It carries no state; the type exists
// so call sites read the same way as the teacher's NewFormatter(logger).
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Render writes report to outputPath in the requested format.
func (f *Formatter) Render(report RunReport, format Format, outputPath string) error {
	switch format {
	case FormatHTML:
		return f.renderHTML(report, outputPath)
	case FormatText:
		return f.renderText(report, outputPath)
	default:
		return fmt.Errorf("simreport: unsupported format %q", format)
	}
}

func (f *Formatter) renderText(report RunReport, outputPath string) error {
	text := fmt.Sprintf(
		"run:            %s\n"+
			"scenario:       %s\n"+
			"seed:           %d\n"+
			"processes:      %d\n"+
			"halt reason:    %s\n"+
			"final clock:    %d jiffies\n"+
			"dispatched:     %d\n"+
			"delivers:       %d\n"+
			"timer fires:    %d\n"+
			"dropped timers: %d\n"+
			"wall duration:  %s\n",
		report.RunID, report.ScenarioName, report.Seed, report.ProcessCount,
		report.HaltReason, report.FinalClock, report.EventsDispatched,
		report.DeliverCount, report.TimerFireCount, report.DroppedTimerCount,
		report.WallDuration,
	)
	return os.WriteFile(outputPath, []byte(text), 0o644)
}

func (f *Formatter) renderHTML(report RunReport, outputPath string) error {
	tmpl, err := template.New("run-report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("simreport: parse html template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return fmt.Errorf("simreport: execute html template: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("simreport: write html report: %w", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head><title>matrixsim run {{.RunID}}</title></head>
<body>
  <h1>{{.ScenarioName}}</h1>
  <table>
    <tr><td>run id</td><td>{{.RunID}}</td></tr>
    <tr><td>seed</td><td>{{.Seed}}</td></tr>
    <tr><td>processes</td><td>{{.ProcessCount}}</td></tr>
    <tr><td>halt reason</td><td>{{.HaltReason}}</td></tr>
    <tr><td>final clock</td><td>{{.FinalClock}} jiffies</td></tr>
    <tr><td>events dispatched</td><td>{{.EventsDispatched}}</td></tr>
    <tr><td>delivers</td><td>{{.DeliverCount}}</td></tr>
    <tr><td>timer fires</td><td>{{.TimerFireCount}}</td></tr>
    <tr><td>dropped timers</td><td>{{.DroppedTimerCount}}</td></tr>
    <tr><td>wall duration</td><td>{{.WallDuration}}</td></tr>
  </table>
</body>
</html>
`

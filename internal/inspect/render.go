package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/wingeom/internal/platform"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseHandle accepts a window handle in hex (0x1a2b) or decimal.
func ParseHandle(s string) (platform.Handle, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q: expected hex (0x...) or decimal", s)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid window handle %q: must be non-zero", s)
	}
	return platform.Handle(v), nil
}

// Render writes v as JSON, YAML or aligned text.
func Render(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return renderText(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch r := v.(type) {
	case Report:
		writeReport(tw, r)
	case *Report:
		writeReport(tw, *r)
	case DesktopReport:
		writeDesktop(tw, r)
	case *DesktopReport:
		writeDesktop(tw, *r)
	default:
		// Anything else reads well enough as YAML.
		if err := yaml.NewEncoder(tw).Encode(v); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Handle:\t%s\n", r.Handle)
	fmt.Fprintf(w, "Class:\t%s\n", r.Class)
	if r.Title != "" {
		fmt.Fprintf(w, "Title:\t%s\n", r.Title)
	}
	if r.PID != 0 {
		fmt.Fprintf(w, "PID:\t%d\n", r.PID)
	}
	fmt.Fprintf(w, "Maximized:\t%s\n", yesNo(r.Maximized))
	if r.SquareEdged {
		fmt.Fprintf(w, "Square edged:\tyes (%s)\n", r.SquareEdgeRule)
	} else {
		fmt.Fprintf(w, "Square edged:\tno\n")
	}
	fmt.Fprintf(w, "Dialog frame:\t%s\n", yesNo(r.DialogFramed))
	fmt.Fprintf(w, "Border:\t%s\n", yesNo(r.Border))
	fmt.Fprintf(w, "DPI aware:\t%s\n", yesNo(r.DPIAware))
	fmt.Fprintf(w, "Base rect:\t%s\n", r.Geometry.Base)
	fmt.Fprintf(w, "Extended rect:\t%s\n", r.Geometry.Extended)
	fmt.Fprintf(w, "Resolved rect:\t%s (%s)\n", r.Geometry.Rect, r.Geometry.Policy)
	fmt.Fprintf(w, "Display rect:\t%s\n", r.Display)
	fmt.Fprintf(w, "Comparison rect:\t%s\n", r.Comparison)
}

func writeDesktop(w io.Writer, d DesktopReport) {
	fmt.Fprintf(w, "DPI scale:\t%.2f\n", d.Scale)
	fmt.Fprintf(w, "Self DPI aware:\t%s\n", yesNo(d.SelfDPIAware))
	fmt.Fprintf(w, "Visual style:\t%s\n", d.VisualStyle)
	fmt.Fprintf(w, "OS family:\t%s\n", d.OS)
	fmt.Fprintf(w, "Border width:\t%g\n", d.BorderWidth)
	fmt.Fprintf(w, "Taskbar:\t%s %s\n", d.Taskbar, d.TaskbarRect)
	if d.Foreground != "" {
		fmt.Fprintf(w, "Foreground:\t%s\n", d.Foreground)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

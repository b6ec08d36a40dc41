package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/moonpull/moonpull-web/internal/backend"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case backend.Me:
		o.printMe(v)
	case OpenResult:
		o.printOpenResult(v)
	case backend.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// OpenResult is the outcome of opening a page
type OpenResult struct {
	Path   string `json:"path"`
	State  string `json:"state"`
	Target string `json:"target"`
	URL    string `json:"url"`
}

func (o *Output) printMe(m backend.Me) {
	if !m.Authenticated {
		fmt.Fprintln(o.w, "Not logged in")
		return
	}
	p := m.Profile()
	fmt.Fprintf(o.w, "Nickname: %s\n", p.Nickname)
	if p.Role != "" {
		fmt.Fprintf(o.w, "Role: %s\n", p.Role)
	}
	fmt.Fprintf(o.w, "Login ID: %s\n", m.LoginID)
	if len(m.Roles) > 1 {
		fmt.Fprintf(o.w, "Roles: %s\n", strings.Join(m.Roles, ", "))
	}
}

func (o *Output) printOpenResult(r OpenResult) {
	fmt.Fprintf(o.w, "State: %s\n", r.State)
	fmt.Fprintf(o.w, "Navigate: %s\n", r.URL)
}

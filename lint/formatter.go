package lint

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formatter writes lint results in a given output format.
type Formatter struct {
	format string
}

// NewFormatter constructs a formatter for "text" or "json" output.
func NewFormatter(format string) *Formatter {
	return &Formatter{format: format}
}

// Format writes the result to w.
func (f *Formatter) Format(w io.Writer, result *Result, root string) error {
	switch f.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		return f.formatText(w, result, root)
	}
}

func (f *Formatter) formatText(w io.Writer, result *Result, root string) error {
	for _, issue := range result.Issues {
		if issue.Section > 0 {
			if _, err := fmt.Fprintf(w, "%s: %s [%s] section %d: %s\n",
				issue.Severity, issue.FilePath, issue.Rule, issue.Section, issue.Message); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s [%s] %s\n",
			issue.Severity, issue.FilePath, issue.Rule, issue.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d file(s), %d error(s), %d warning(s)\n",
		root, result.FilesTotal, result.ErrorCount(), result.WarningCount())
	return err
}

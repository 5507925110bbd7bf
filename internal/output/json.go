package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// JSONWriter outputs the full report as JSON. This is also the persisted
// intermediate artifact: findings serialize with null line/ruleId where the
// value is absent.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *findings.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the parts of a result compared against golden files:
// the step trace as indented JSON followed by the sale report.
func Snapshot(name string, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# scenario: " + name + "\n")

	trace, err := json.MarshalIndent(result.Trace, "", "  ")
	if err != nil {
		return nil, err
	}
	buf.Write(trace)
	buf.WriteString("\n")
	buf.WriteString(result.Report)
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return result, nil
}

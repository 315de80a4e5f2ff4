package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tarlow/cutline/internal/document"
)

// RunWithGolden executes a scenario and compares the final resolved edit
// against the golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The snapshot is the resolved edit's canonical JSON: deterministic because
// the harness wires a sequential ID generator and a static prober.
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	s, err := Run(sc)
	if err != nil {
		return err
	}

	snapshot, err := document.Encode(s.GetResolvedEdit())
	if err != nil {
		return err
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, sc.Name, snapshot)
	return nil
}

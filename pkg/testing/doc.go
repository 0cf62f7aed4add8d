// Package testing provides a test harness for components rendered by the
// fiber engine.
//
// # Quick Start
//
// Create a tester, pump an element, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := fibertest.NewTesterWithT(t)
//	    tester.PumpElement(core.C(Counter, nil), nil)
//
//	    // Simulate events
//	    tester.Tap(fibertest.ByTag("button"))
//	    tester.Pump()
//
//	    // Assert on the host tree
//	    if !tester.Find(fibertest.ByText("1")).Exists() {
//	        t.Error("expected count 1")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	FIBER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Time Slicing
//
// Frames are measured on a fake clock. SetAutoAdvance makes every deadline
// check consume time, so large trees spread over several frames:
//
//	tester.Clock().SetAutoAdvance(4 * time.Millisecond)
//	tester.PumpAndSettle(time.Second)
//
// PumpUnits runs an exact number of units of work, for asserting what the
// host looks like in the middle of a pass.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibertest "github.com/go-drift/fiber/pkg/testing"
package testing

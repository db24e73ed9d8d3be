package plannerd

import (
	"fmt"

	"github.com/dekarrin/rocketplan/internal/graphplan"
	"github.com/dekarrin/rosed"
)

// RenderPlan formats a finished Job's plan as a NOOP-elided table, one row
// per level, for cmd/plannerd's JSON responses (the "rendered" convenience
// field). cmd/planner's stdout listing and internal/trace's trace file
// format plans with their own code, not with this function. Grounded on the
// teacher's internal/game/debug.go InsertTableOpts idiom.
func RenderPlan(d *graphplan.Domain, plan graphplan.LayeredPlan) string {
	data := [][]string{{"level", "actions"}}

	elided := d.Elide(plan)
	for i, level := range elided {
		actions := d.StringLevel(level)
		data = append(data, []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%v", actions)})
	}

	opts := rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}
	return rosed.Edit("").InsertTableOpts(0, data, 80, opts).String()
}

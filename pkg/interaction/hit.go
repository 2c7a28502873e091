package interaction

import (
	"math"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/timescale"
)

// Region is the part of a bar under the pointer.
type Region int

const (
	RegionBody Region = iota
	RegionStartHandle
	RegionEndHandle
	RegionProgressHandle
)

func (r Region) String() string {
	switch r {
	case RegionStartHandle:
		return "start-handle"
	case RegionEndHandle:
		return "end-handle"
	case RegionProgressHandle:
		return "progress-handle"
	default:
		return "body"
	}
}

// Target identifies a bar region hit by the pointer.
type Target struct {
	TaskID string
	Region Region
}

// HitTest finds the bar region at chart position (x, y). Handles take
// priority over the progress handle, which takes priority over the body.
// Milestones only expose their body; projects have no progress handle.
func HitTest(scene layout.Scene, x, y, handleWidth float64) (Target, bool) {
	row, ok := scene.RowAt(y)
	if !ok || !row.Bar.Contains(x, y) {
		return Target{}, false
	}
	return Target{TaskID: row.Task.ID, Region: regionOf(row.Task, row.Bar, x, y, handleWidth)}, true
}

func regionOf(t model.Task, bar timescale.Bar, x, y, handleWidth float64) Region {
	if bar.Milestone || t.Type == model.TypeMilestone {
		return RegionBody
	}
	switch {
	case x <= bar.X+handleWidth:
		return RegionStartHandle
	case x >= bar.X2()-handleWidth:
		return RegionEndHandle
	}
	if t.Type != model.TypeProject && y >= bar.MidY() &&
		math.Abs(x-(bar.X+bar.ProgressWidth)) <= handleWidth/2 {
		return RegionProgressHandle
	}
	return RegionBody
}

// modeFor maps a region to the drag mode it starts.
func modeFor(t model.Task, r Region) Mode {
	if t.Type == model.TypeMilestone {
		return ModeMove
	}
	switch r {
	case RegionStartHandle:
		return ModeResizeStart
	case RegionEndHandle:
		return ModeResizeEnd
	case RegionProgressHandle:
		if t.Type == model.TypeProject {
			return ModeMove
		}
		return ModeProgress
	}
	return ModeMove
}

package loader

import (
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// Sample returns a small demo project anchored on the month containing now.
func Sample(now time.Time) []model.Task {
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	d := func(day int) time.Time { return base.AddDate(0, 0, day-1) }
	return []model.Task{
		{ID: "project", Name: "Some Project", Type: model.TypeProject, Start: d(1), End: d(15), Progress: 25,
			Children: []string{"idea", "research", "discussion", "release"}},
		{ID: "idea", Name: "Idea", Start: d(1), End: d(2), Progress: 45},
		{ID: "research", Name: "Research", Start: d(2), End: d(4), Progress: 25, Dependencies: []string{"idea"}},
		{ID: "discussion", Name: "Discussion with team", Start: d(4), End: d(8), Progress: 10, Dependencies: []string{"research"}},
		{ID: "release", Name: "Release", Type: model.TypeMilestone, Start: d(15), End: d(15), Dependencies: []string{"discussion"}},
		{ID: "party", Name: "Party Time", Start: d(1), End: d(2), Disabled: true},
	}
}

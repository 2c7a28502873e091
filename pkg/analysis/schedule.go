package analysis

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// === REFERENCES ===

// RefKind says which list a task reference came from.
type RefKind string

const (
	RefChild      RefKind = "child"
	RefDependency RefKind = "dependency"
)

// Reference is an id in a children or dependencies list that resolves to no
// task. Dangling references are dropped from rendering, never errors.
type Reference struct {
	TaskID string  // Task holding the reference
	RefID  string  // The unresolved id
	Kind   RefKind // child or dependency
}

// === CONFLICTS ===

// Conflict is a dependency whose dependent starts before its prerequisite
// has ended.
type Conflict struct {
	PrerequisiteID string
	DependentID    string
	Overlap        time.Duration // prerequisite end minus dependent start
}

// Report summarizes the dependency structure of a task collection.
type Report struct {
	Order     []string   // Prerequisites before dependents; nil when cyclic
	Cycles    [][]string // Each cycle's members in row order
	Conflicts []Conflict
	Dangling  []Reference

	conflicts map[[2]string]bool
}

// HasConflict reports whether the dependency prerequisite -> dependent
// overlaps in time.
func (r Report) HasConflict(prerequisiteID, dependentID string) bool {
	return r.conflicts[[2]string{prerequisiteID, dependentID}]
}

// InCycle reports whether id takes part in a dependency cycle.
func (r Report) InCycle(id string) bool {
	for _, c := range r.Cycles {
		for _, member := range c {
			if member == id {
				return true
			}
		}
	}
	return false
}

// Analyze builds the dependency graph of tasks (prerequisite -> dependent)
// and reports its order, cycles, date conflicts and dangling references.
func Analyze(tasks []model.Task) Report {
	report := Report{conflicts: make(map[[2]string]bool)}

	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if _, dup := index[t.ID]; !dup {
			index[t.ID] = i
		}
	}

	g := simple.NewDirectedGraph()
	for i := range tasks {
		if index[tasks[i].ID] == i {
			g.AddNode(simple.Node(i))
		}
	}

	var selfLoops []string
	for _, t := range tasks {
		self := index[t.ID]
		for _, childID := range t.Children {
			if _, ok := index[childID]; !ok {
				report.Dangling = append(report.Dangling, Reference{TaskID: t.ID, RefID: childID, Kind: RefChild})
			}
		}
		for _, depID := range t.Dependencies {
			j, ok := index[depID]
			if !ok {
				report.Dangling = append(report.Dangling, Reference{TaskID: t.ID, RefID: depID, Kind: RefDependency})
				continue
			}
			if j == self {
				selfLoops = append(selfLoops, t.ID)
				continue
			}
			prereq := tasks[j]
			g.SetEdge(simple.Edge{F: simple.Node(j), T: simple.Node(self)})
			if t.Start.Before(prereq.End) {
				report.Conflicts = append(report.Conflicts, Conflict{
					PrerequisiteID: prereq.ID,
					DependentID:    t.ID,
					Overlap:        prereq.End.Sub(t.Start),
				})
				report.conflicts[[2]string{prereq.ID, t.ID}] = true
			}
		}
	}

	byRow := func(nodes []graph.Node) {
		sort.Slice(nodes, func(a, b int) bool { return nodes[a].ID() < nodes[b].ID() })
	}

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		byRow(scc)
		report.Cycles = append(report.Cycles, idsOf(scc, tasks))
	}
	for _, id := range selfLoops {
		report.Cycles = append(report.Cycles, []string{id})
	}
	sort.Slice(report.Cycles, func(a, b int) bool {
		return index[report.Cycles[a][0]] < index[report.Cycles[b][0]]
	})

	if len(report.Cycles) == 0 {
		sorted, err := topo.SortStabilized(g, byRow)
		if err == nil {
			report.Order = idsOf(sorted, tasks)
		}
	}
	return report
}

func idsOf(nodes []graph.Node, tasks []model.Task) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		ids = append(ids, tasks[n.ID()].ID)
	}
	return ids
}

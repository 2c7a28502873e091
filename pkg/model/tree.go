package model

// Descendants returns every task reachable from rootID through child links,
// in breadth-first order, excluding the root itself. Dangling child ids are
// skipped and cycles are visited once.
func Descendants(rootID string, tasks []Task) []Task {
	taskMap := make(map[string]*Task, len(tasks))
	for i := range tasks {
		taskMap[tasks[i].ID] = &tasks[i]
	}
	root, ok := taskMap[rootID]
	if !ok {
		return nil
	}

	seen := map[string]bool{rootID: true}
	var out []Task
	queue := append([]string(nil), root.Children...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		child, ok := taskMap[current]
		if !ok {
			continue
		}
		out = append(out, child.Clone())
		queue = append(queue, child.Children...)
	}
	return out
}

// ParentIndex maps each child id to the id of the first task listing it.
func ParentIndex(tasks []Task) map[string]string {
	parents := make(map[string]string)
	for _, t := range tasks {
		for _, child := range t.Children {
			if _, ok := parents[child]; !ok {
				parents[child] = t.ID
			}
		}
	}
	return parents
}

// VisibleTasks filters out every task that has a collapsed ancestor
// (HideChildren). Row order is preserved.
func VisibleTasks(tasks []Task) []Task {
	hidden := make(map[string]bool)
	for _, t := range tasks {
		if !t.HideChildren {
			continue
		}
		for _, d := range Descendants(t.ID, tasks) {
			hidden[d.ID] = true
		}
	}
	if len(hidden) == 0 {
		return tasks
	}
	out := make([]Task, 0, len(tasks)-len(hidden))
	for _, t := range tasks {
		if !hidden[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// HasVisibleChildren reports whether t has at least one child that resolves
// to a task in the collection and is not collapsed.
func HasVisibleChildren(t Task, tasks []Task) bool {
	if t.HideChildren {
		return false
	}
	for _, id := range t.Children {
		if IndexByID(tasks, id) >= 0 {
			return true
		}
	}
	return false
}

// Depth returns how many ancestors t has, following the first parent found.
func Depth(id string, parents map[string]string) int {
	depth := 0
	seen := map[string]bool{id: true}
	for {
		parent, ok := parents[id]
		if !ok || seen[parent] {
			return depth
		}
		seen[parent] = true
		depth++
		id = parent
	}
}

package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// DefaultFiles are the task files looked up when no path is given, in order.
var DefaultFiles = []string{"tasks.yaml", "tasks.yml", "tasks.jsonl", "tasks.json"}

// ErrNoTasksFile is returned when no default task file exists.
var ErrNoTasksFile = errors.New("no tasks file found")

// FindTasksFile returns the first default task file in dir.
func FindTasksFile(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	for _, name := range DefaultFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoTasksFile, dir)
}

// yamlDocument is the YAML file shape: either a top-level list or a map
// with a tasks key.
type yamlDocument struct {
	Tasks []model.Task `yaml:"tasks"`
}

// LoadTasks reads tasks from path, choosing the format from the extension:
// .jsonl (one task per line), .json (array) or .yaml/.yml. Every task is
// normalized; tasks without an id or dates are dropped.
func LoadTasks(path string) ([]model.Task, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no tasks found at %s", path)
	}

	var (
		tasks []model.Task
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		tasks, err = loadJSONL(path)
	case ".json":
		tasks, err = loadJSON(path)
	case ".yaml", ".yml":
		tasks, err = loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported tasks file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return sanitize(tasks), nil
}

func loadJSONL(path string) ([]model.Task, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks file: %w", err)
	}
	defer file.Close()

	var tasks []model.Task
	scanner := bufio.NewScanner(file)
	const maxCapacity = 1024 * 1024 * 10 // 10MB
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var task model.Task
		if err := json.Unmarshal(line, &task); err != nil {
			// Skip malformed lines but continue loading the rest
			continue
		}
		tasks = append(tasks, task)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading tasks file: %w", err)
	}
	return tasks, nil
}

func loadJSON(path string) ([]model.Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}
	var tasks []model.Task
	if err := json.Unmarshal(content, &tasks); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return tasks, nil
}

func loadYAML(path string) ([]model.Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(content, &node); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var tasks []model.Task
		if err := root.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("decode yaml tasks: %w", err)
		}
		return tasks, nil
	}
	var doc yamlDocument
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml tasks: %w", err)
	}
	return doc.Tasks, nil
}

func sanitize(tasks []model.Task) []model.Task {
	out := tasks[:0]
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" || seen[t.ID] || t.Start.IsZero() || t.End.IsZero() {
			continue
		}
		seen[t.ID] = true
		t.Normalize()
		out = append(out, t)
	}
	return out
}

// SaveTasks writes tasks as YAML, the format LoadTasks reads back.
func SaveTasks(path string, tasks []model.Task) error {
	data, err := yaml.Marshal(yamlDocument{Tasks: tasks})
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace tasks file: %w", err)
	}
	return nil
}

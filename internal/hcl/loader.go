package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/repartd/internal/cluster"
	"github.com/vk/repartd/internal/ctxlog"
	"github.com/vk/repartd/internal/task"
)

// Loader parses .hcl cluster and job files into a Model.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Model is the resolved content of all loaded files.
type Model struct {
	Workers       []cluster.WorkerNode
	TopLevelTasks []*task.Task
	AllTasks      []*task.Task
}

// fileRoot decodes all possible top-level blocks from any file; worker and
// task blocks may be mixed freely across files.
type fileRoot struct {
	Workers []*workerBlock `hcl:"worker,block"`
	Tasks   []*taskBlock   `hcl:"task,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type workerBlock struct {
	Name string `hcl:"name,label"`
	Host string `hcl:"host"`
	Port int    `hcl:"port"`
}

type taskBlock struct {
	Type           string   `hcl:"type,label"`
	ID             string   `hcl:"id,label"`
	JobID          uint64   `hcl:"job_id"`
	Query          string   `hcl:"query,optional"`
	DependsOn      []string `hcl:"depends_on,optional"`
	Placements     []string `hcl:"placements,optional"`
	PartitionID    uint32   `hcl:"partition_id,optional"`
	UpstreamTaskID uint32   `hcl:"upstream_task_id,optional"`
	TopLevel       bool     `hcl:"top_level,optional"`
}

// Load parses every .hcl file under the given paths and resolves the result
// into one Model. Paths may be files or directories; missing paths are
// skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := evalContext()

	var workers []*workerBlock
	var tasks []*taskBlock
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}
		workers = append(workers, root.Workers...)
		tasks = append(tasks, root.Tasks...)
	}

	model, err := resolve(workers, tasks)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.",
		"workers", len(model.Workers), "tasks", len(model.AllTasks), "top_level", len(model.TopLevelTasks))
	return model, nil
}

// evalContext exposes the process environment to job files as env.NAME, so
// query strings can interpolate deployment-specific values.
func evalContext() *hcl.EvalContext {
	envVars := make(map[string]cty.Value)
	for _, entry := range os.Environ() {
		if name, value, ok := strings.Cut(entry, "="); ok && name != "" {
			envVars[name] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(envVars),
		},
	}
}

// resolve links the decoded blocks into tasks with direct pointers: worker
// names to nodes and depends_on references to depended tasks.
func resolve(workers []*workerBlock, blocks []*taskBlock) (*Model, error) {
	model := &Model{}

	nodesByName := make(map[string]cluster.WorkerNode)
	for _, w := range workers {
		if _, ok := nodesByName[w.Name]; ok {
			return nil, fmt.Errorf("duplicate worker %q", w.Name)
		}
		if w.Port < 1 || w.Port > 65535 {
			return nil, fmt.Errorf("worker %q: invalid port %d", w.Name, w.Port)
		}
		node := cluster.WorkerNode{Name: w.Host, Port: w.Port}
		nodesByName[w.Name] = node
		model.Workers = append(model.Workers, node)
	}

	tasksByIdentity := make(map[task.Identity]*task.Task)
	for _, b := range blocks {
		taskType, err := task.ParseType(b.Type)
		if err != nil {
			return nil, fmt.Errorf("task %q/%q: %w", b.Type, b.ID, err)
		}
		taskID, err := strconv.ParseUint(b.ID, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("task %q/%q: id must be an unsigned integer: %w", b.Type, b.ID, err)
		}

		t := &task.Task{
			JobID:          b.JobID,
			TaskID:         uint32(taskID),
			Type:           taskType,
			QueryString:    b.Query,
			PartitionID:    b.PartitionID,
			UpstreamTaskID: b.UpstreamTaskID,
		}
		for _, name := range b.Placements {
			node, ok := nodesByName[name]
			if !ok {
				return nil, fmt.Errorf("task %s: unknown worker %q", t.Identity(), name)
			}
			t.Placements = append(t.Placements, node)
		}

		if _, ok := tasksByIdentity[t.Identity()]; ok {
			return nil, fmt.Errorf("duplicate task %s", t.Identity())
		}
		tasksByIdentity[t.Identity()] = t
		model.AllTasks = append(model.AllTasks, t)
		if b.TopLevel {
			model.TopLevelTasks = append(model.TopLevelTasks, t)
		}
	}

	// Dependency linking happens after every task exists, so file order does
	// not matter.
	for i, b := range blocks {
		t := model.AllTasks[i]
		for _, ref := range b.DependsOn {
			id, err := parseTaskRef(ref, t.JobID)
			if err != nil {
				return nil, fmt.Errorf("task %s: %w", t.Identity(), err)
			}
			dep, ok := tasksByIdentity[id]
			if !ok {
				return nil, fmt.Errorf("task %s: depends on unknown task %s", t.Identity(), id)
			}
			t.DependedTasks = append(t.DependedTasks, dep)
		}
	}

	return model, nil
}

// parseTaskRef parses a depends_on entry: either "taskID" within the same
// job or a fully qualified "jobID/taskID".
func parseTaskRef(ref string, defaultJobID uint64) (task.Identity, error) {
	jobPart, taskPart, qualified := strings.Cut(ref, "/")
	if !qualified {
		taskPart = jobPart
		jobPart = strconv.FormatUint(defaultJobID, 10)
	}

	jobID, err := strconv.ParseUint(jobPart, 10, 64)
	if err != nil {
		return task.Identity{}, fmt.Errorf("invalid task reference %q: %w", ref, err)
	}
	taskID, err := strconv.ParseUint(taskPart, 10, 32)
	if err != nil {
		return task.Identity{}, fmt.Errorf("invalid task reference %q: %w", ref, err)
	}
	return task.Identity{JobID: jobID, TaskID: uint32(taskID)}, nil
}

// findHCLFiles walks the given paths and returns every .hcl file found,
// deduplicated, in discovery order.
func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	appendFile := func(p string) {
		if _, ok := seen[p]; !ok {
			files = append(files, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("accessing %s: %w", path, err)
		}

		if !info.IsDir() {
			appendFile(path)
			continue
		}
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && filepath.Ext(p) == ".hcl" {
				appendFile(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/repartd/internal/cluster"
	"github.com/vk/repartd/internal/task"
)

// writeFiles materializes the given name -> content map under a temp dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const clusterHCL = `
worker "wa" {
  host = "worker-a"
  port = 9700
}

worker "wb" {
  host = "worker-b"
  port = 9701
}
`

const jobHCL = `
task "map" "1" {
  job_id     = 1250
  query      = "SELECT worker_execute_map (1250, 1);"
  placements = ["wa"]
}

task "map_output_fetch" "2" {
  job_id           = 1250
  depends_on       = ["1"]
  partition_id     = 0
  upstream_task_id = 3
  placements       = ["wb"]
}

task "merge" "3" {
  job_id     = 1250
  depends_on = ["2"]
  query      = "SELECT worker_merge_files (1250, 3);"
  placements = ["wb"]
}

task "select" "1" {
  job_id     = 1251
  depends_on = ["1250/3"]
  query      = "SELECT * FROM merged;"
  top_level  = true
  placements = ["wb"]
}
`

func TestLoader_Load(t *testing.T) {
	t.Run("resolves workers and tasks across files", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"cluster.hcl": clusterHCL,
			"job.hcl":     jobHCL,
		})

		model, err := NewLoader().Load(context.Background(), dir)
		require.NoError(t, err)

		assert.Equal(t, []cluster.WorkerNode{
			{Name: "worker-a", Port: 9700},
			{Name: "worker-b", Port: 9701},
		}, model.Workers)

		require.Len(t, model.AllTasks, 4)
		require.Len(t, model.TopLevelTasks, 1)

		top := model.TopLevelTasks[0]
		assert.Equal(t, task.Identity{JobID: 1251, TaskID: 1}, top.Identity())
		assert.Equal(t, task.SelectTask, top.Type)

		// Cross-job dependency resolved by qualified reference.
		require.Len(t, top.DependedTasks, 1)
		merge := top.DependedTasks[0]
		assert.Equal(t, task.Identity{JobID: 1250, TaskID: 3}, merge.Identity())

		// Same-job references default to the task's own job id.
		require.Len(t, merge.DependedTasks, 1)
		fetch := merge.DependedTasks[0]
		assert.Equal(t, task.MapOutputFetchTask, fetch.Type)
		assert.Equal(t, uint32(3), fetch.UpstreamTaskID)

		// Placements resolve to configured nodes.
		assert.Equal(t, []cluster.WorkerNode{{Name: "worker-b", Port: 9701}}, fetch.Placements)
	})

	t.Run("environment interpolation in queries", func(t *testing.T) {
		t.Setenv("REPART_TABLE", "events")
		dir := writeFiles(t, map[string]string{
			"cluster.hcl": clusterHCL,
			"job.hcl": `
task "select" "1" {
  job_id     = 1
  query      = "SELECT count(*) FROM ${env.REPART_TABLE};"
  top_level  = true
  placements = ["wa"]
}
`,
		})

		model, err := NewLoader().Load(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, model.AllTasks, 1)
		assert.Equal(t, "SELECT count(*) FROM events;", model.AllTasks[0].QueryString)
	})

	t.Run("missing paths are skipped", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"cluster.hcl": clusterHCL})

		model, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "absent"))
		require.NoError(t, err)
		assert.Len(t, model.Workers, 2)
		assert.Empty(t, model.AllTasks)
	})

	t.Run("error cases", func(t *testing.T) {
		cases := []struct {
			name    string
			job     string
			wantErr string
		}{
			{
				name: "unknown worker reference",
				job: `
task "select" "1" {
  job_id     = 1
  placements = ["nope"]
}
`,
				wantErr: `unknown worker "nope"`,
			},
			{
				name: "unknown task type",
				job: `
task "shuffle" "1" {
  job_id = 1
}
`,
				wantErr: "unknown task type",
			},
			{
				name: "unknown dependency",
				job: `
task "select" "1" {
  job_id     = 1
  depends_on = ["99"]
}
`,
				wantErr: "unknown task 1/99",
			},
			{
				name: "duplicate task identity",
				job: `
task "select" "1" {
  job_id = 1
}

task "modify" "1" {
  job_id = 1
}
`,
				wantErr: "duplicate task 1/1",
			},
			{
				name: "non-numeric task id",
				job: `
task "select" "one" {
  job_id = 1
}
`,
				wantErr: "unsigned integer",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				dir := writeFiles(t, map[string]string{
					"cluster.hcl": clusterHCL,
					"job.hcl":     tc.job,
				})

				_, err := NewLoader().Load(context.Background(), dir)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			})
		}
	})

	t.Run("duplicate worker name", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"cluster.hcl": clusterHCL + "\n" + `
worker "wa" {
  host = "worker-c"
  port = 9702
}
`,
		})

		_, err := NewLoader().Load(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate worker "wa"`)
	})
}

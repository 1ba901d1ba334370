package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/repartd/internal/cluster"
)

func TestFetchPartitionFile(t *testing.T) {
	source := cluster.WorkerNode{Name: "worker-a", Port: 9700}

	got := FetchPartitionFile(1250, 3, 7, 42, source)

	assert.Equal(t, "SELECT worker_fetch_partition_file (1250, 3, 7, 42, 'worker-a', 9700);", got)
}

func TestCreateSchemas(t *testing.T) {
	t.Run("one statement per job id in order", func(t *testing.T) {
		got := CreateSchemas([]uint64{5, 7})

		assert.Equal(t,
			"SELECT worker_create_job_schema (5);SELECT worker_create_job_schema (7);",
			got)
	})

	t.Run("no job ids produces empty command", func(t *testing.T) {
		assert.Empty(t, CreateSchemas(nil))
	})
}

func TestDeleteJobDirs(t *testing.T) {
	got := DeleteJobDirs([]uint64{1250})
	assert.Equal(t, "SELECT worker_delete_job_directory (1250);", got)
}

func TestCleanupSchemas(t *testing.T) {
	got := CleanupSchemas()
	assert.Equal(t, "SELECT worker_cleanup_job_schemas ();", got)
	// The sweep is parameterless so it cannot be scoped to one run by accident.
	assert.False(t, strings.Contains(got, "%"))
}

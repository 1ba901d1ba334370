package command

import (
	"fmt"
	"strings"

	"github.com/vk/repartd/internal/cluster"
)

// Positional parameter order is fixed: changing it breaks the worker-side
// interpreter.
const (
	// fetchPartitionFileTemplate: producer job id, producer task id,
	// partition id, destination (merge) task id, source node name, source
	// node port.
	fetchPartitionFileTemplate = "SELECT worker_fetch_partition_file (%d, %d, %d, %d, '%s', %d);"

	// createJobSchemaTemplate: job id.
	createJobSchemaTemplate = "SELECT worker_create_job_schema (%d);"

	// deleteJobDirTemplate: job id.
	deleteJobDirTemplate = "SELECT worker_delete_job_directory (%d);"

	// cleanupJobSchemas drops every schema matching the engine's fixed
	// naming prefix. It takes no parameters and is safe to repeat.
	cleanupJobSchemas = "SELECT worker_cleanup_job_schemas ();"
)

// FetchPartitionFile builds the command that moves one partition file from
// the worker that produced it to the worker running the destination merge
// task.
func FetchPartitionFile(producerJobID uint64, producerTaskID, partitionID, destinationTaskID uint32, source cluster.WorkerNode) string {
	return fmt.Sprintf(fetchPartitionFileTemplate,
		producerJobID, producerTaskID, partitionID, destinationTaskID,
		source.Name, source.Port)
}

// CreateSchemas returns one batched command containing a create-schema
// statement per job id, in the given order. Batching keeps provisioning to a
// single round trip per worker.
func CreateSchemas(jobIDs []uint64) string {
	return generateJobCommand(createJobSchemaTemplate, jobIDs)
}

// DeleteJobDirs returns one batched command that removes the temporary
// on-disk job directories for the given job ids.
func DeleteJobDirs(jobIDs []uint64) string {
	return generateJobCommand(deleteJobDirTemplate, jobIDs)
}

// CleanupSchemas returns the global sweep command that drops every job
// schema with the engine's naming prefix, regardless of owning run.
func CleanupSchemas() string {
	return cleanupJobSchemas
}

// generateJobCommand concatenates the template once per job id, e.g.
// "create(j1);create(j2);...", producing exactly len(jobIDs) subcommands.
func generateJobCommand(template string, jobIDs []uint64) string {
	var b strings.Builder
	for _, jobID := range jobIDs {
		fmt.Fprintf(&b, template, jobID)
	}
	return b.String()
}

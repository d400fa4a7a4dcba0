package export

// Format selects the artifact type produced by the export worker.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Job is the JSON payload put on the RabbitMQ export queue.
type Job struct {
	JobID      string `json:"job_id"`
	OwnerID    string `json:"owner_id"`
	OwnerEmail string `json:"owner_email"`
	DocumentID string `json:"document_id"`
	Format     Format `json:"format"`
}

// Status values recorded in Redis while a job moves through the worker.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StatusRecord is what the API returns when an export job is polled.
type StatusRecord struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Format Format `json:"format"`
	URL    string `json:"url,omitempty"`
	Error  string `json:"error,omitempty"`
}

// StatusKey is the Redis key holding a job's StatusRecord.
func StatusKey(jobID string) string {
	return "export:job:" + jobID
}

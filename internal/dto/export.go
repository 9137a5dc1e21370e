package dto

// CreateExportRequest asks for a funding report in the given format.
type CreateExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJob describes a queued report generation job.
type ExportJob struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Status   string `json:"status"`
}

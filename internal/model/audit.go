package model

import "time"

// AuditTimeLayout is the timestamp format of audit records (YYYY-MM-DD HH:MM:SS).
const AuditTimeLayout = "2006-01-02 15:04:05"

// AuditTask names the task an audit record describes.
type AuditTask string

const (
	TaskProtocolGeneration AuditTask = "Protocol Generation"
	TaskSiteRanking        AuditTask = "Site Ranking"
)

// AuditStatus is the outcome recorded for a task.
type AuditStatus string

const (
	StatusReviewRequired AuditStatus = "Generated (Review Required)"
	StatusCompleted      AuditStatus = "Completed"
)

// AuditRecord is a single timestamped audit row. Records live only in the
// response that produced them.
type AuditRecord struct {
	Timestamp string      `json:"timestamp"`
	Task      AuditTask   `json:"task"`
	Status    AuditStatus `json:"status"`
}

// NewAuditRecord stamps a record with the given time in local time.
func NewAuditRecord(at time.Time, task AuditTask, status AuditStatus) AuditRecord {
	return AuditRecord{
		Timestamp: at.Local().Format(AuditTimeLayout),
		Task:      task,
		Status:    status,
	}
}

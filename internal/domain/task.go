package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "PENDING"
	TaskStatusApproved TaskStatus = "APPROVED"
	TaskStatusRejected TaskStatus = "REJECTED"
)

type TaskSubmission struct {
	ID          int64      `json:"id"`
	EventID     int64      `json:"event_id"`
	UserID      string     `json:"user_id"`
	FileURLs    []string   `json:"file_urls"`
	Status      TaskStatus `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

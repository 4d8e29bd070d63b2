package models

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Iteration statuses.
const (
	IterationStatusPublished = "published" // CMS post and pin both succeeded
	IterationStatusPostOnly  = "post_only" // CMS post succeeded, pin failed
	IterationStatusSkipped   = "skipped"   // aborted before the CMS publish
	IterationStatusFailed    = "failed"    // CMS publish failed
)

// CampaignRun records one execution of the campaign loop.
type CampaignRun struct {
	BaseModel
	RunID         string     `gorm:"uniqueIndex;size:36" json:"run_id"`
	Theme         string     `gorm:"size:255" json:"theme"`
	Requested     int        `json:"requested"`
	Completed     int        `json:"completed"`
	PinsPublished int        `json:"pins_published"`
	Status        string     `gorm:"size:16" json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
}

// IterationRecord records the outcome of a single campaign iteration.
type IterationRecord struct {
	BaseModel
	CampaignRunID ULID   `gorm:"index;type:varchar(26)" json:"campaign_run_id"`
	Sequence      int    `json:"sequence"`
	Title         string `gorm:"size:255" json:"title"`
	IdeaCount     int    `json:"idea_count"`
	PostURL       string `gorm:"size:512" json:"post_url"`
	PinPublished  bool   `json:"pin_published"`
	Status        string `gorm:"size:16" json:"status"`
	FailureReason string `gorm:"size:512" json:"failure_reason"`
}

package service

import (
	"time"

	"github.com/RigelNana/edubridge/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PortfolioTask struct {
	TaskID      uuid.UUID       `json:"task_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Domains     []string        `json:"domains"`
	EffortHours *int            `json:"effort_hours"`
	PostedBy    uuid.UUID       `json:"posted_by"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiryDate  *datatypes.Date `json:"expiry_date"`
}

type PortfolioSubmission struct {
	SubmissionID uuid.UUID      `json:"submission_id"`
	TaskID       uuid.UUID      `json:"task_id"`
	UserID       uuid.UUID      `json:"user_id"`
	Grade        *float64       `json:"grade"`
	Feedback     *string        `json:"feedback"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	Task         *PortfolioTask `json:"tasks"`
}

type PortfolioRecord struct {
	PortfolioID uuid.UUID            `json:"portfolio_id"`
	UserID      uuid.UUID            `json:"user_id"`
	AddedAt     time.Time            `json:"added_at"`
	Verified    bool                 `json:"verified"`
	Submission  *PortfolioSubmission `json:"submissions"`
}

// AssemblePortfolio joins entries with their submissions, tasks and task
// domains. Records follow the order of entries. Entries are never deleted, so
// an entry is shown only while its submission still passes
// IsPortfolioEligible; a regrade below the threshold hides it and a later
// regrade above it shows the same entry again. Entries whose submission is
// not in submissions are skipped; a missing task leaves Task nil.
func AssemblePortfolio(
	userID uuid.UUID,
	submissions []*models.Submission,
	entries []*models.PortfolioEntry,
	tasks []*models.Task,
	domains map[uuid.UUID][]string,
) []PortfolioRecord {
	subByID := make(map[uuid.UUID]*models.Submission, len(submissions))
	for _, s := range submissions {
		subByID[s.ID] = s
	}
	taskByID := make(map[uuid.UUID]*models.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	records := make([]PortfolioRecord, 0, len(entries))
	for _, e := range entries {
		sub, ok := subByID[e.SubmissionID]
		if !ok || !IsPortfolioEligible(sub.Status, sub.Grade) {
			continue
		}
		view := &PortfolioSubmission{
			SubmissionID: sub.ID,
			TaskID:       sub.TaskID,
			UserID:       sub.UserID,
			Grade:        sub.Grade,
			Feedback:     sub.Feedback,
			SubmittedAt:  sub.SubmitTime,
		}
		if t, ok := taskByID[sub.TaskID]; ok {
			taskDomains := domains[t.ID]
			if taskDomains == nil {
				taskDomains = []string{}
			}
			view.Task = &PortfolioTask{
				TaskID:      t.ID,
				Title:       t.Title,
				Description: t.Description,
				Domains:     taskDomains,
				EffortHours: t.EffortHours,
				PostedBy:    t.PostedBy,
				CreatedAt:   t.CreatedAt,
				ExpiryDate:  t.ExpiryDate,
			}
		}
		records = append(records, PortfolioRecord{
			PortfolioID: e.ID,
			UserID:      userID,
			AddedAt:     e.AddedAt,
			Verified:    e.Verified,
			Submission:  view,
		})
	}
	return records
}

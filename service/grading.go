package service

import "github.com/RigelNana/edubridge/models"

const (
	// AcceptanceThreshold is the minimum grade for an accepted submission.
	AcceptanceThreshold = 60.0
	// PortfolioThreshold is the minimum grade for portfolio admission.
	PortfolioThreshold = 80.0
)

// DeriveStatus maps a grade to a review outcome. A missing or NaN grade
// never compares >= the threshold and so is rejected.
func DeriveStatus(grade *float64) models.SubmissionStatus {
	if grade != nil && *grade >= AcceptanceThreshold {
		return models.SubmissionStatusAccepted
	}
	return models.SubmissionStatusRejected
}

// IsPortfolioEligible is the single admission rule shared by grading,
// manual status review and manual portfolio additions.
func IsPortfolioEligible(status models.SubmissionStatus, grade *float64) bool {
	return status == models.SubmissionStatusAccepted && grade != nil && *grade >= PortfolioThreshold
}

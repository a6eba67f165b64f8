package model

import "github.com/shopspring/decimal"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPaused    ProjectStatus = "paused"
)

// Project represents a nonprofit initiative volunteers can join.
// VolunteerCount and BeneficiaryCount are denormalized figures with no link
// to User records.
type Project struct {
	ID               int             `json:"id"`
	Title            string          `json:"title"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	Status           ProjectStatus   `json:"status"`
	Owner            string          `json:"owner"`
	StartDate        string          `json:"startDate"`
	EndDate          *string         `json:"endDate"`
	VolunteerCount   int             `json:"volunteerCount"`
	BeneficiaryCount int             `json:"beneficiaryCount"`
	FundingGoal      decimal.Decimal `json:"fundingGoal"`
	FundingRaised    decimal.Decimal `json:"fundingRaised"`
	ImpactSummary    string          `json:"impactSummary"`
}

// FundingPercentage returns raised/goal as a percentage rounded to one
// decimal place. Over-funded projects exceed 100; a zero goal yields 0.
func (p Project) FundingPercentage() decimal.Decimal {
	return Percentage(p.FundingRaised, p.FundingGoal)
}

// Percentage computes part/total*100 with one decimal place, 0 when total is 0.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
}

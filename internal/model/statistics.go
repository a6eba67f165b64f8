package model

import "github.com/shopspring/decimal"

// Statistics is the dashboard aggregate recomputed from the collections on
// every request.
type Statistics struct {
	TotalUsers          int             `json:"totalUsers"`
	TotalVolunteers     int             `json:"totalVolunteers"`
	TotalAdmins         int             `json:"totalAdmins"`
	TotalProjects       int             `json:"totalProjects"`
	ActiveProjects      int             `json:"activeProjects"`
	CompletedProjects   int             `json:"completedProjects"`
	PausedProjects      int             `json:"pausedProjects"`
	TotalBeneficiaries  int             `json:"totalBeneficiaries"`
	TotalRaised         decimal.Decimal `json:"totalRaised"`
	TotalFundingGoal    decimal.Decimal `json:"totalFundingGoal"`
	FundingPercentage   decimal.Decimal `json:"fundingPercentage"`
	TotalVolunteerHours int             `json:"totalVolunteerHours"`
	TotalAccesses       int             `json:"totalAccesses"`
	AccessesToday       int             `json:"accessesToday"`
}

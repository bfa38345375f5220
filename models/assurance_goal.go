package models

import "time"

// Canonical assurance goal names. The set is advisory for clients; the
// store accepts goal rows outside it.
var CanonicalGoalNames = []string{
	"Explainability",
	"Fairness",
	"Privacy",
	"Reliability",
	"Safety",
	"Transparency",
}

type AssuranceGoal struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AssuranceGoal) TableName() string { return "assurance_goal" }

func IsCanonicalGoalName(name string) bool {
	for _, n := range CanonicalGoalNames {
		if n == name {
			return true
		}
	}
	return false
}

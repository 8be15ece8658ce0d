package alerts

import (
	"fmt"

	"finhealth/internal/core"
)

// Stable alert kind ids. External layers key dismissals on these, so they
// must not change between releases.
const (
	KindLowBalance       = "low_balance"
	KindObligationCrunch = "obligation_crunch"
	KindSpendingDeficit  = "spending_deficit"

	KindEmergencyFundLow = "emergency_fund_low"
	KindSpendingSpike    = "spending_spike"
	KindCategoryHeavy    = "category_concentration"

	KindLowRunway      = "low_runway"
	KindLowSavingsRate = "low_savings_rate"
	KindSingleIncome   = "single_income_source"

	KindEmergencyOnTrack = "emergency_fund_on_track"
	KindHealthySavings   = "healthy_savings_rate"
	KindSpendingSlowdown = "spending_slowdown"
	KindSurplus          = "surplus_with_fund"
)

func defaultRules() []Rule {
	return []Rule{
		{
			ID:       KindLowBalance,
			Severity: core.SeverityCritical,
			Title:    "Balance critically low",
			Evaluate: func(s snapshot) (string, bool) {
				if s.avgDailySpend <= 0 {
					return "", false
				}
				weekOfSpending := 7 * s.avgDailySpend
				if s.balance >= weekOfSpending {
					return "", false
				}
				return fmt.Sprintf("Balance %.2f covers less than 7 days of average spending (%.2f/day).",
					s.balance, s.avgDailySpend), true
			},
		},
		{
			ID:       KindObligationCrunch,
			Severity: core.SeverityCritical,
			Title:    "Upcoming bills strain balance",
			Evaluate: func(s snapshot) (string, bool) {
				if s.upcomingTotal <= 0 || s.upcomingTotal <= 0.8*s.balance {
					return "", false
				}
				return fmt.Sprintf("Upcoming obligations of %.2f (%d bills) exceed 80%% of your %.2f balance.",
					s.upcomingTotal, s.upcomingCount, s.balance), true
			},
		},
		{
			ID:       KindSpendingDeficit,
			Severity: core.SeverityCritical,
			Title:    "Spending exceeds income",
			Evaluate: func(s snapshot) (string, bool) {
				if s.totalExpense <= s.totalIncome || s.totalExpense == 0 {
					return "", false
				}
				return fmt.Sprintf("Expenses of %.2f exceed income of %.2f over the last %d days (deficit %.2f).",
					s.totalExpense, s.totalIncome, s.windowDays, s.totalExpense-s.totalIncome), true
			},
		},
		{
			ID:       KindEmergencyFundLow,
			Severity: core.SeverityHigh,
			Title:    "Emergency fund below target",
			Evaluate: func(s snapshot) (string, bool) {
				if s.emergencyTarget <= 0 {
					return "", false
				}
				threshold := 0.3 * s.emergencyTarget
				if s.balance >= threshold {
					return "", false
				}
				return fmt.Sprintf("Balance %.2f is under 30%% of a 3-month emergency target of %.2f.",
					s.balance, s.emergencyTarget), true
			},
		},
		{
			ID:       KindSpendingSpike,
			Severity: core.SeverityHigh,
			Title:    "Spending spike this week",
			Evaluate: func(s snapshot) (string, bool) {
				if s.weeklyAvg <= 0 || s.last7Spend < 1.5*s.weeklyAvg {
					return "", false
				}
				return fmt.Sprintf("Spent %.2f in the last 7 days, %.0f%% of the %.2f weekly average.",
					s.last7Spend, s.last7Spend/s.weeklyAvg*100, s.weeklyAvg), true
			},
		},
		{
			ID:       KindCategoryHeavy,
			Severity: core.SeverityHigh,
			Title:    "One category dominates spending",
			Evaluate: func(s snapshot) (string, bool) {
				if s.totalIncome <= 0 || s.topCategorySpend <= 0.4*s.totalIncome {
					return "", false
				}
				return fmt.Sprintf("Category %q consumed %.2f, over 40%% of your %.2f monthly income.",
					s.topCategory, s.topCategorySpend, s.totalIncome), true
			},
		},
		{
			ID:       KindLowRunway,
			Severity: core.SeverityMedium,
			Title:    "Balance runway under a month",
			Evaluate: func(s snapshot) (string, bool) {
				if s.avgDailySpend <= 0 {
					return "", false
				}
				days := s.balance / s.avgDailySpend
				if days >= 30 {
					return "", false
				}
				return fmt.Sprintf("At the current burn of %.2f/day the balance of %.2f lasts about %.0f days.",
					s.avgDailySpend, s.balance, days), true
			},
		},
		{
			ID:       KindLowSavingsRate,
			Severity: core.SeverityMedium,
			Title:    "Savings rate under 10%",
			Evaluate: func(s snapshot) (string, bool) {
				if s.totalIncome <= 0 {
					return "", false
				}
				rate := (s.totalIncome - s.totalExpense) / s.totalIncome
				if rate <= 0 || rate >= 0.1 {
					return "", false
				}
				return fmt.Sprintf("Saving only %.1f%% of income (%.2f of %.2f).",
					rate*100, s.totalIncome-s.totalExpense, s.totalIncome), true
			},
		},
		{
			ID:       KindSingleIncome,
			Severity: core.SeverityMedium,
			Title:    "Single income source",
			Evaluate: func(s snapshot) (string, bool) {
				if s.totalIncome <= 0 || s.incomeSources > 1 {
					return "", false
				}
				return fmt.Sprintf("All %.2f of income in the window came from one source.",
					s.totalIncome), true
			},
		},
		{
			ID:       KindEmergencyOnTrack,
			Severity: core.SeverityLow,
			Title:    "Emergency fund on track",
			Evaluate: func(s snapshot) (string, bool) {
				if !s.hasEmergencySignal || s.emergencyProgress < 0.5 {
					return "", false
				}
				return fmt.Sprintf("Emergency fund at %.0f%% of its target.", s.emergencyProgress*100), true
			},
		},
		{
			ID:       KindHealthySavings,
			Severity: core.SeverityLow,
			Title:    "Healthy savings rate",
			Evaluate: func(s snapshot) (string, bool) {
				if s.totalIncome <= 0 {
					return "", false
				}
				rate := (s.totalIncome - s.totalExpense) / s.totalIncome
				if rate < 0.2 {
					return "", false
				}
				return fmt.Sprintf("Saving %.0f%% of income this window.", rate*100), true
			},
		},
		{
			ID:       KindSpendingSlowdown,
			Severity: core.SeverityLow,
			Title:    "Spending below weekly average",
			Evaluate: func(s snapshot) (string, bool) {
				if s.weeklyAvg <= 0 || s.last7Spend > 0.8*s.weeklyAvg {
					return "", false
				}
				return fmt.Sprintf("This week's %.2f is %.0f%% of the %.2f weekly average.",
					s.last7Spend, s.last7Spend/s.weeklyAvg*100, s.weeklyAvg), true
			},
		},
		{
			ID:       KindSurplus,
			Severity: core.SeverityLow,
			Title:    "Running a surplus",
			Evaluate: func(s snapshot) (string, bool) {
				if s.totalIncome <= s.totalExpense || !s.hasEmergencySignal || s.emergencyProgress < 1 {
					return "", false
				}
				return fmt.Sprintf("Income %.2f exceeds expenses %.2f with the emergency fund already met.",
					s.totalIncome, s.totalExpense), true
			},
		},
	}
}

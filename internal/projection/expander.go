// Package projection expands recurring-obligation definitions into concrete
// future occurrence dates.
//
// Each cadence (weekly, biweekly, monthly, quarterly, yearly) has its own
// advancer that encapsulates the date arithmetic for that recurrence rule.
package projection

import (
	"fmt"
	"time"

	"finhealth/internal/core"
)

// Advancer is the strategy interface for moving an occurrence candidate one
// cadence step forward. anchorDay is the day-of-month of the obligation's
// start date; month-based cadences clamp to it when the target month is
// shorter (Jan 31 -> Feb 28/29 -> Mar 31).
type Advancer interface {
	Next(current time.Time, anchorDay int) time.Time
}

// WeeklyAdvancer implements Advancer for weekly obligations.
type WeeklyAdvancer struct{}

func (WeeklyAdvancer) Next(current time.Time, _ int) time.Time {
	return current.AddDate(0, 0, 7)
}

// BiweeklyAdvancer implements Advancer for biweekly obligations.
type BiweeklyAdvancer struct{}

func (BiweeklyAdvancer) Next(current time.Time, _ int) time.Time {
	return current.AddDate(0, 0, 14)
}

// MonthlyAdvancer implements Advancer for monthly obligations.
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Next(current time.Time, anchorDay int) time.Time {
	return addMonthsClamped(current, 1, anchorDay)
}

// QuarterlyAdvancer implements Advancer for quarterly obligations.
type QuarterlyAdvancer struct{}

func (QuarterlyAdvancer) Next(current time.Time, anchorDay int) time.Time {
	return addMonthsClamped(current, 3, anchorDay)
}

// YearlyAdvancer implements Advancer for yearly obligations. A Feb 29 start
// clamps to Feb 28 in non-leap years.
type YearlyAdvancer struct{}

func (YearlyAdvancer) Next(current time.Time, anchorDay int) time.Time {
	return addMonthsClamped(current, 12, anchorDay)
}

// addMonthsClamped advances by whole calendar months, restoring the anchor
// day-of-month where the target month allows it. time.AddDate alone would
// overflow short months (Jan 31 + 1 month = Mar 2/3), so the target month is
// computed from its first day instead.
func addMonthsClamped(t time.Time, months, anchorDay int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	day := anchorDay
	if last := lastDayOfMonth(firstOfTarget); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// lastDayOfMonth returns the number of days in t's month.
func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// advancers maps cadences to their corresponding date advancers.
// This registry enables O(1) lookup and easy extension for new cadences.
var advancers = map[core.Cadence]Advancer{
	core.Weekly:    WeeklyAdvancer{},
	core.Biweekly:  BiweeklyAdvancer{},
	core.Monthly:   MonthlyAdvancer{},
	core.Quarterly: QuarterlyAdvancer{},
	core.Yearly:    YearlyAdvancer{},
}

// AdvancerFor returns the date advancer for a cadence, or
// core.ErrUnknownCadence when the cadence is not supported.
func AdvancerFor(cadence core.Cadence) (Advancer, error) {
	adv, ok := advancers[cadence]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownCadence, cadence)
	}
	return adv, nil
}

// RegisterAdvancer registers a custom advancer for a new cadence without
// modifying the expansion loop.
func RegisterAdvancer(cadence core.Cadence, adv Advancer) {
	advancers[cadence] = adv
}

// Expand produces the ordered, finite sequence of occurrences for one
// obligation inside [windowStart, windowEnd], both inclusive.
//
// An inactive obligation, or a window entirely outside the obligation's
// [startDate, endDate] range, yields an empty sequence and no error. An
// unknown cadence yields an empty sequence and core.ErrUnknownCadence: a
// data-quality condition the caller must surface, distinct from "no
// occurrences in window".
func Expand(ob core.RecurringObligation, windowStart, windowEnd time.Time) ([]core.ProjectedOccurrence, error) {
	if !ob.Active {
		return nil, nil
	}
	if windowEnd.Before(windowStart) {
		return nil, nil
	}
	if !ob.EndDate.IsZero() && windowStart.After(ob.EndDate.Time) {
		return nil, nil
	}
	if windowEnd.Before(ob.StartDate.Time) {
		return nil, nil
	}

	adv, err := AdvancerFor(ob.Cadence)
	if err != nil {
		return nil, err
	}

	// The expansion never runs past the obligation's own end date.
	limit := windowEnd
	if !ob.EndDate.IsZero() && ob.EndDate.Before(limit) {
		limit = ob.EndDate.Time
	}

	anchorDay := ob.StartDate.Day()
	candidate := ob.StartDate.Time
	if windowStart.After(candidate) {
		candidate = windowStart
	}

	var occurrences []core.ProjectedOccurrence
	for !candidate.After(limit) {
		if !candidate.Before(windowStart) {
			occurrences = append(occurrences, core.ProjectedOccurrence{
				ObligationID: ob.ID,
				DueDate:      core.Date{Time: candidate},
				Amount:       ob.Amount,
			})
		}

		next := adv.Next(candidate, anchorDay)
		if !next.After(candidate) {
			// Forward-progress invariant: an advancer that fails to move the
			// candidate strictly forward would loop forever on malformed data.
			break
		}
		candidate = next
	}

	return occurrences, nil
}

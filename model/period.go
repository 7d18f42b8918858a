package model

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

const (
	PeriodRuleSecondToLast   = "second_to_last"
	PeriodRuleLast           = "last"
	PeriodRuleLatestComplete = "latest_complete"
)

// PeriodRule picks the index of the month the KPI tiles report on, from rows in
// chronological order.
type PeriodRule interface {
	Name() string
	Select(resource string, rows []MonthlyMetricRow) (int, error)
}

type offsetFromEndRule struct {
	name   string
	offset int
}

func (r offsetFromEndRule) Name() string { return r.name }

func (r offsetFromEndRule) Select(resource string, rows []MonthlyMetricRow) (int, error) {
	if len(rows) == 0 {
		return -1, NewEmptyDatasetError(resource, "monthly metrics must have at least one row")
	}
	if len(rows) < r.offset {
		return -1, NewEmptyDatasetError(resource,
			fmt.Sprintf("rule %s needs at least %d rows, got %d", r.name, r.offset, len(rows)))
	}
	return len(rows) - r.offset, nil
}

// SecondToLastPeriod treats the last row as a partial, still accumulating month.
func SecondToLastPeriod() PeriodRule {
	return offsetFromEndRule{name: PeriodRuleSecondToLast, offset: 2}
}

func LastPeriod() PeriodRule {
	return offsetFromEndRule{name: PeriodRuleLast, offset: 1}
}

type latestCompleteRule struct {
	clock func() time.Time
}

// LatestCompletePeriod selects the newest month whose last instant is before clock().
func LatestCompletePeriod(clock func() time.Time) PeriodRule {
	if clock == nil {
		clock = time.Now
	}
	return latestCompleteRule{clock: clock}
}

func (r latestCompleteRule) Name() string { return PeriodRuleLatestComplete }

func (r latestCompleteRule) Select(resource string, rows []MonthlyMetricRow) (int, error) {
	if len(rows) == 0 {
		return -1, NewEmptyDatasetError(resource, "monthly metrics must have at least one row")
	}

	current := r.clock()
	for i := len(rows) - 1; i >= 0; i-- {
		month, ok := ParseMonth(rows[i].MonthName)
		if !ok {
			return -1, NewSchemaMismatchError(resource,
				fmt.Sprintf("month label %q must be a calendar month for rule %s", rows[i].MonthName, PeriodRuleLatestComplete))
		}
		if now.New(month).EndOfMonth().Before(current) {
			return i, nil
		}
	}
	return -1, NewEmptyDatasetError(resource, "no completed month found")
}

// PeriodRuleByName maps a configured rule name to its rule.
func PeriodRuleByName(name string) (PeriodRule, error) {
	switch name {
	case "", PeriodRuleSecondToLast:
		return SecondToLastPeriod(), nil
	case PeriodRuleLast:
		return LastPeriod(), nil
	case PeriodRuleLatestComplete:
		return LatestCompletePeriod(time.Now), nil
	}
	return nil, fmt.Errorf("unknown kpi period rule %q", name)
}

package dashboard

import (
	"context"
	"fmt"
	"time"

	"thordash/metrics"
	M "thordash/model"

	log "github.com/sirupsen/logrus"
)

// Loader returns a parsed dataset by logical name.
type Loader interface {
	Load(ctx context.Context, name string) (*M.Table, error)
}

type Assembler struct {
	loader     Loader
	periodRule M.PeriodRule
	// Optional period shown on affiliate totals, i.e "Apr 2025".
	affiliatePeriod string
}

func NewAssembler(loader Loader, periodRule M.PeriodRule, affiliatePeriod string) *Assembler {
	if periodRule == nil {
		periodRule = M.SecondToLastPeriod()
	}
	return &Assembler{loader: loader, periodRule: periodRule, affiliatePeriod: affiliatePeriod}
}

// Build assembles the view named by selector. Data failures are returned as *model.DataError.
func (a *Assembler) Build(ctx context.Context, selector string) (*View, error) {
	info, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	defer metrics.RecordLatencySince(metrics.LatencyViewBuild, startTime)

	switch info.Selector {
	case SelectorOverview:
		return a.buildOverview(ctx, info)
	case SelectorAffiliate:
		return a.buildAffiliate(ctx, info)
	case SelectorComingSoon:
		return buildPlaceholder(info), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, selector)
}

// Render is Build with data failures turned into a view carrying an error panel.
// Only unknown selectors and infrastructure failures are returned as errors.
func (a *Assembler) Render(ctx context.Context, selector string) (*View, error) {
	view, err := a.Build(ctx, selector)
	if err == nil {
		return view, nil
	}

	dataErr, ok := M.AsDataError(err)
	if !ok {
		return nil, err
	}

	info, _ := ParseSelector(selector)
	log.WithFields(log.Fields{"view": info.Slug, "kind": dataErr.Kind, "resource": dataErr.Resource}).
		WithError(err).Warn("Failed to build view.")
	metrics.Increment(metrics.IncrViewBuildFailure)

	view = newView(info, string(info.Selector), "")
	view.Error = &ErrorPanel{Kind: dataErr.Kind, Resource: dataErr.Resource, Message: dataErr.Error()}
	return view, nil
}

func buildPlaceholder(info ViewInfo) *View {
	view := newView(info, "Under Construction", "")
	view.Notice = "This space is reserved for future activity analytics. Coming soon!"
	return view
}

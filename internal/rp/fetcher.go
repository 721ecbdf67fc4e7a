package rp

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"echobot/internal/analytics"
)

// fetchConcurrency bounds parallel per-launch item fetches.
const fetchConcurrency = 4

// Fetcher assembles analytics inputs from the RP API: launches matching an
// attribute filter plus their test items, converted to the analytics
// domain types.
type Fetcher struct {
	project *ProjectScope
	logger  *slog.Logger
}

// NewFetcher returns a Fetcher bound to one project.
func NewFetcher(client *Client, project string) *Fetcher {
	return &Fetcher{
		project: client.Project(project),
		logger:  client.logger.With("project", project),
	}
}

// LaunchSummary is the launch view rendered in chat listings.
type LaunchSummary struct {
	ID       int
	Name     string
	PassRate float64
	URL      string
}

// ListLaunches returns launch summaries matching the attribute filter
// (comma-separated key:value pairs; empty means all launches).
func (f *Fetcher) ListLaunches(ctx context.Context, attrFilter string) ([]LaunchSummary, error) {
	launches, err := f.project.Launches().ListAll(ctx,
		WithAttributes(attrFilter),
		WithSort("startTime,desc"),
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]LaunchSummary, 0, len(launches))
	for _, l := range launches {
		passed, failed := executionCounts(&l)
		rate := 0.0
		if passed+failed > 0 {
			rate = float64(passed) / float64(passed+failed) * 100
		}
		summaries = append(summaries, LaunchSummary{
			ID:       l.ID,
			Name:     l.Name,
			PassRate: rate,
			URL:      f.project.LaunchURL(l.ID),
		})
	}
	return summaries, nil
}

// AnalyticsData fetches launches matching the attribute filter and, for
// each, its test items, returning both converted to the analytics domain.
// Item fetches run concurrently, bounded by fetchConcurrency.
func (f *Fetcher) AnalyticsData(ctx context.Context, attrFilter string) ([]analytics.Launch, map[string][]analytics.TestItem, error) {
	resources, err := f.project.Launches().ListAll(ctx, WithAttributes(attrFilter))
	if err != nil {
		return nil, nil, err
	}

	launches := make([]analytics.Launch, len(resources))
	itemLists := make([][]analytics.TestItem, len(resources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i := range resources {
		g.Go(func() error {
			launches[i] = toLaunch(&resources[i])
			items, err := f.project.Items().ListAll(gctx,
				WithLaunchID(resources[i].ID),
				WithItemType("STEP"),
			)
			if err != nil {
				return err
			}
			itemLists[i] = toTestItems(items)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	itemsByLaunch := make(map[string][]analytics.TestItem, len(resources))
	for i, l := range launches {
		itemsByLaunch[l.ID] = itemLists[i]
	}
	f.logger.InfoContext(ctx, "analytics data fetched",
		"launches", len(launches), "filter", attrFilter)
	return launches, itemsByLaunch, nil
}

// toLaunch converts a wire launch to the analytics domain. Missing
// statistics map to zero counts; a missing start time stays nil.
func toLaunch(r *LaunchResource) analytics.Launch {
	l := analytics.Launch{
		ID:   strconv.Itoa(r.ID),
		Name: r.Name,
	}
	if r.StartTime != nil {
		t := r.StartTime.Time()
		l.StartTime = &t
	}
	if r.Statistics != nil {
		l.Total = r.Statistics.Executions[ExecTotal]
		l.Passed = r.Statistics.Executions[ExecPassed]
		l.Failed = r.Statistics.Executions[ExecFailed]
		l.Skipped = r.Statistics.Executions[ExecSkipped]
	}
	for _, a := range r.Attributes {
		l.Attributes = append(l.Attributes, analytics.Attribute{Key: a.Key, Value: a.Value})
	}
	return l
}

func toTestItems(items []TestItemResource) []analytics.TestItem {
	converted := make([]analytics.TestItem, 0, len(items))
	for i := range items {
		converted = append(converted, analytics.TestItem{
			Name:        items[i].Name,
			Status:      items[i].Status,
			Description: items[i].Description,
			Duration:    items[i].Duration(),
		})
	}
	return converted
}

func executionCounts(l *LaunchResource) (passed, failed int) {
	if l.Statistics == nil {
		return 0, 0
	}
	return l.Statistics.Executions[ExecPassed], l.Statistics.Executions[ExecFailed]
}

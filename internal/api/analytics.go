package api

import (
	"context"
	"net/url"

	"presensi.client/internal/core/model"
)

type AnalyticsAPI struct {
	client *Client
}

func NewAnalyticsAPI(c *Client) *AnalyticsAPI {
	return &AnalyticsAPI{client: c}
}

func (a *AnalyticsAPI) Summary(ctx context.Context) (*model.Response[model.AnalyticsSummary], error) {
	var out model.Response[model.AnalyticsSummary]
	if err := a.client.Get(ctx, "/api/analytics/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Daily takes a YYYY-MM-DD date.
func (a *AnalyticsAPI) Daily(ctx context.Context, date string) (*model.Response[model.AnalyticsSummary], error) {
	var out model.Response[model.AnalyticsSummary]
	if err := a.client.Get(ctx, "/api/analytics/daily", map[string]string{"date": date}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Monthly takes a YYYY-MM month.
func (a *AnalyticsAPI) Monthly(ctx context.Context, month string) (*model.Response[model.MonthlyAnalytics], error) {
	var out model.Response[model.MonthlyAnalytics]
	if err := a.client.Get(ctx, "/api/analytics/monthly", map[string]string{"month": month}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AnalyticsAPI) User(ctx context.Context, userID string) (*model.Response[model.UserAnalytics], error) {
	var out model.Response[model.UserAnalytics]
	if err := a.client.Get(ctx, "/api/analytics/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AnalyticsAPI) StatusBreakdown(ctx context.Context) (*model.Response[model.StatusCounts], error) {
	var out model.Response[model.StatusCounts]
	if err := a.client.Get(ctx, "/api/analytics/status-breakdown", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

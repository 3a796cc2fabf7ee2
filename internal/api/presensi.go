package api

import (
	"context"
	"net/url"
	"strconv"

	"presensi.client/internal/core/model"
)

type PresensiAPI struct {
	client *Client
}

func NewPresensiAPI(c *Client) *PresensiAPI {
	return &PresensiAPI{client: c}
}

// FilterParams converts a filter to query parameters, dropping unset fields.
func FilterParams(f model.PresensiFilter) map[string]string {
	params := make(map[string]string)
	if f.UserID != "" {
		params["user_id"] = f.UserID
	}
	if f.Status != "" {
		params["status"] = string(f.Status)
	}
	if f.StartDate != "" {
		params["start_date"] = f.StartDate
	}
	if f.EndDate != "" {
		params["end_date"] = f.EndDate
	}
	if f.Page > 0 {
		params["page"] = strconv.Itoa(f.Page)
	}
	if f.Limit > 0 {
		params["limit"] = strconv.Itoa(f.Limit)
	}
	return params
}

func (p *PresensiAPI) List(ctx context.Context, filter model.PresensiFilter) (*model.ResponseWithMeta[[]model.Presensi], error) {
	var out model.ResponseWithMeta[[]model.Presensi]
	if err := p.client.Get(ctx, "/api/presensi", FilterParams(filter), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PresensiAPI) Get(ctx context.Context, id string) (*model.Response[model.Presensi], error) {
	var out model.Response[model.Presensi]
	if err := p.client.Get(ctx, presensiPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PresensiAPI) Create(ctx context.Context, req model.CreatePresensiRequest) (*model.Response[model.Presensi], error) {
	var out model.Response[model.Presensi]
	if err := p.client.Post(ctx, "/api/presensi", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PresensiAPI) Update(ctx context.Context, id string, req model.UpdatePresensiRequest) (*model.Response[model.Presensi], error) {
	var out model.Response[model.Presensi]
	if err := p.client.Put(ctx, presensiPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PresensiAPI) Delete(ctx context.Context, id string) (*model.Response[model.Empty], error) {
	var out model.Response[model.Empty]
	if err := p.client.Delete(ctx, presensiPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckIn stamps the check-in time of record id. loc may be nil.
func (p *PresensiAPI) CheckIn(ctx context.Context, id string, loc *model.Location) (*model.Response[model.Empty], error) {
	return p.stamp(ctx, presensiPath(id)+"/checkin", loc)
}

// CheckOut stamps the check-out time of record id. loc may be nil.
func (p *PresensiAPI) CheckOut(ctx context.Context, id string, loc *model.Location) (*model.Response[model.Empty], error) {
	return p.stamp(ctx, presensiPath(id)+"/checkout", loc)
}

func (p *PresensiAPI) stamp(ctx context.Context, endpoint string, loc *model.Location) (*model.Response[model.Empty], error) {
	var body any
	if loc != nil {
		body = loc
	}

	var out model.Response[model.Empty]
	if err := p.client.Post(ctx, endpoint, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func presensiPath(id string) string {
	return "/api/presensi/" + url.PathEscape(id)
}

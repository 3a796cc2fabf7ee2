package api

import (
	"context"
	"net/url"
	"strconv"

	"presensi.client/internal/core/model"
)

type UsersAPI struct {
	client *Client
}

func NewUsersAPI(c *Client) *UsersAPI {
	return &UsersAPI{client: c}
}

// List returns one page of users. Non-positive page or limit fall back to 1 and 10.
func (u *UsersAPI) List(ctx context.Context, page, limit int) (*model.ResponseWithMeta[[]model.User], error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}

	var out model.ResponseWithMeta[[]model.User]
	if err := u.client.Get(ctx, "/api/users", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *UsersAPI) Get(ctx context.Context, id string) (*model.Response[model.User], error) {
	var out model.Response[model.User]
	if err := u.client.Get(ctx, "/api/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus activates or deactivates an account. Admin only on the server side.
func (u *UsersAPI) UpdateStatus(ctx context.Context, id string, isActive bool) (*model.Response[model.Empty], error) {
	var out model.Response[model.Empty]
	body := model.UpdateStatusRequest{IsActive: isActive}
	if err := u.client.Patch(ctx, "/api/users/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package api

import (
	"context"

	"presensi.client/internal/core/model"
)

type AuthAPI struct {
	client *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{client: c}
}

func (a *AuthAPI) Login(ctx context.Context, req model.LoginRequest) (*model.Response[model.LoginResponse], error) {
	var out model.Response[model.LoginResponse]
	if err := a.client.Post(ctx, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Register(ctx context.Context, req model.RegisterRequest) (*model.Response[model.RegisteredUser], error) {
	var out model.Response[model.RegisteredUser]
	if err := a.client.Post(ctx, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Profile(ctx context.Context) (*model.Response[model.User], error) {
	var out model.Response[model.User]
	if err := a.client.Get(ctx, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) (*model.Response[model.Empty], error) {
	var out model.Response[model.Empty]
	if err := a.client.Post(ctx, "/api/auth/change-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

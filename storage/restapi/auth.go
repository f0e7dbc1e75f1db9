package restrepos

import (
	"context"
	"encoding/json"

	"github.com/trezcool/feedesk/core/auth"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

type authRepository struct {
	api *gatewaysvc.Client
}

func NewAuthRepository(api *gatewaysvc.Client) auth.Repository {
	return &authRepository{api: api}
}

func (repo authRepository) Login(ctx context.Context, creds auth.Credentials) (auth.LoginResponse, error) {
	var resp auth.LoginResponse
	err := repo.api.Post(ctx, "/global/login", creds, &resp)
	return resp, err
}

func (repo authRepository) Profile(ctx context.Context) (auth.User, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/global/profile", nil, &raw); err != nil {
		return auth.User{}, err
	}
	var usr auth.User
	err := decodeEntity(raw, &usr, "user", "data")
	return usr, err
}

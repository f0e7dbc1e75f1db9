package restrepos

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/trezcool/feedesk/core/accountant"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

type accountantRepository struct {
	api *gatewaysvc.Client
}

func NewAccountantRepository(api *gatewaysvc.Client) accountant.Repository {
	return &accountantRepository{api: api}
}

func (repo accountantRepository) CreateAccountant(ctx context.Context, na accountant.NewAccountant) (accountant.Accountant, error) {
	var raw json.RawMessage
	if err := repo.api.Post(ctx, "/accountant/create", na, &raw); err != nil {
		return accountant.Accountant{}, err
	}
	var a accountant.Accountant
	err := decodeEntity(raw, &a, "accountant", "data")
	return a, err
}

func (repo accountantRepository) ListAccountants(ctx context.Context) ([]accountant.Accountant, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/accountant/all", nil, &raw); err != nil {
		return nil, err
	}
	accts := make([]accountant.Accountant, 0)
	err := decodeList(raw, &accts, "data", "accountants")
	return accts, err
}

func (repo accountantRepository) UpdateAccountant(ctx context.Context, id string, ua accountant.UpdateAccountant) (accountant.Accountant, error) {
	var raw json.RawMessage
	if err := repo.api.Put(ctx, "/accountant/update/"+url.PathEscape(id), ua, &raw); err != nil {
		return accountant.Accountant{}, err
	}
	var a accountant.Accountant
	err := decodeEntity(raw, &a, "accountant", "data")
	return a, err
}

func (repo accountantRepository) DeleteAccountant(ctx context.Context, id string) error {
	return repo.api.Delete(ctx, "/accountant/delete/"+url.PathEscape(id), nil)
}

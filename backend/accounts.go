package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-resty/resty/v2"

	"finconsole/models"
)

const (
	createAccountPath = "/accounts/{ownerId}/{kind}"
	fetchAccountPath  = "/{kind}/get-by-userId/{ownerId}"
	updateAccountPath = "/{kind}/update-by-userId/{ownerId}"
	deleteAccountPath = "/{kind}/delete-by-userId/{ownerId}"
)

func (c *Client) accountRequest(ctx context.Context, kind models.AccountKind, ownerID string) *resty.Request {
	return c.request(ctx).SetPathParams(map[string]string{
		"ownerId": ownerID,
		"kind":    string(kind),
	})
}

// GetAccount fetches the owner's sub-account. A 404 yields ErrNotFound.
func (c *Client) GetAccount(ctx context.Context, kind models.AccountKind, ownerID string) (models.SubAccount, error) {
	var account models.SubAccount
	resp, err := c.accountRequest(ctx, kind, ownerID).Get(fetchAccountPath)
	if err := check("fetch "+kind.Label(), resp, err); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return account, ErrNotFound
		}
		return account, err
	}
	return account, decode("fetch "+kind.Label(), resp.Body(), &account)
}

// CreateAccount opens a sub-account; the response carries the assigned account number.
func (c *Client) CreateAccount(ctx context.Context, kind models.AccountKind, ownerID string, payload models.SubAccount) (models.SubAccount, error) {
	var account models.SubAccount
	resp, err := c.accountRequest(ctx, kind, ownerID).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(createAccountPath)
	if err := check("create "+kind.Label(), resp, err); err != nil {
		return account, err
	}
	return account, decode("create "+kind.Label(), resp.Body(), &account)
}

func (c *Client) UpdateAccount(ctx context.Context, kind models.AccountKind, ownerID string, payload models.SubAccount) (models.SubAccount, error) {
	var account models.SubAccount
	resp, err := c.accountRequest(ctx, kind, ownerID).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Patch(updateAccountPath)
	if err := check("update "+kind.Label(), resp, err); err != nil {
		return account, err
	}
	return account, decode("update "+kind.Label(), resp.Body(), &account)
}

func (c *Client) DeleteAccount(ctx context.Context, kind models.AccountKind, ownerID string) error {
	resp, err := c.accountRequest(ctx, kind, ownerID).Delete(deleteAccountPath)
	return check("delete "+kind.Label(), resp, err)
}

package backend

import (
	"context"

	"finconsole/models"
)

// ListCollections returns daily collection accounts, optionally scoped to a branch.
func (c *Client) ListCollections(ctx context.Context, branch string) ([]models.CollectionAccount, error) {
	var accounts []models.CollectionAccount
	req := c.request(ctx)
	if branch != "" {
		req.SetQueryParam("branch", branch)
	}
	resp, err := req.Get("/collections/get-all")
	if err := check("list collections", resp, err); err != nil {
		return nil, err
	}
	if err := decode("list collections", resp.Body(), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// RecordPayment appends a payment; the backend answers with the stored transaction.
func (c *Client) RecordPayment(ctx context.Context, accountNumber string, payment models.PaymentRequest) (models.Transaction, error) {
	var txn models.Transaction
	resp, err := c.request(ctx).
		SetPathParam("accountNumber", accountNumber).
		SetHeader("Content-Type", "application/json").
		SetBody(payment).
		Post("/collections/{accountNumber}/pay")
	if err := check("record payment", resp, err); err != nil {
		return txn, err
	}
	return txn, decode("record payment", resp.Body(), &txn)
}

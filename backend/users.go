package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"finconsole/models"
)

// ListOwners returns every registered customer with the given role.
func (c *Client) ListOwners(ctx context.Context, role string) ([]models.Owner, error) {
	var owners []models.Owner
	resp, err := c.request(ctx).
		SetQueryParam("role", role).
		Get("/users/get-all-users")
	if err := check("list owners", resp, err); err != nil {
		return nil, err
	}
	if err := decode("list owners", resp.Body(), &owners); err != nil {
		return nil, err
	}
	return owners, nil
}

// RegisterOwner posts the multipart registration: userData as a JSON part plus documents.
func (c *Client) RegisterOwner(ctx context.Context, reg models.OwnerRegistration, docs []models.Document) (json.RawMessage, error) {
	userData, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("encode userData: %w", err)
	}

	fields := []*resty.MultipartField{{
		Param:       "userData",
		FileName:    "blob",
		ContentType: "application/json",
		Reader:      bytes.NewReader(userData),
	}}
	for _, doc := range docs {
		fields = append(fields, &resty.MultipartField{
			Param:       doc.Field,
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			Reader:      bytes.NewReader(doc.Content),
		})
	}

	resp, err := c.request(ctx).
		SetMultipartFields(fields...).
		Post("/users/register")
	if err := check("register owner", resp, err); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// ListBranches returns the branch names an admin can scope the console to.
func (c *Client) ListBranches(ctx context.Context) ([]string, error) {
	var branches []string
	resp, err := c.request(ctx).Get("/admins/get-branch-list")
	if err := check("list branches", resp, err); err != nil {
		return nil, err
	}
	if err := decode("list branches", resp.Body(), &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

package backend

import (
	"context"

	"finconsole/models"
)

// Login authenticates an admin. Credentials travel as query parameters, as the backend expects.
func (c *Client) Login(ctx context.Context, username, password string) (models.Admin, error) {
	var admin models.Admin
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"username": username,
			"password": password,
		}).
		Post("/admins/login")
	if err := check("admin login", resp, err); err != nil {
		return admin, err
	}
	if err := decode("admin login", resp.Body(), &admin); err != nil {
		return admin, err
	}
	if admin.Username == "" {
		admin.Username = username
	}
	return admin, nil
}

func (c *Client) RegisterAdmin(ctx context.Context, reg models.AdminRegistration) error {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reg).
		Post("/admins/register")
	return check("admin register", resp, err)
}

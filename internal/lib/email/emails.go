package email

import "context"

// SendWelcomeEmail greets a newly registered user.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	data := map[string]string{
		"UserName": name,
	}

	return c.SendEmail(ctx, to, "Welcome to Robosphere!", TemplateWelcome, data)
}

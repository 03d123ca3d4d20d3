package auth

import (
	"context"
	"fmt"

	"medadmin/m/domain"
	"medadmin/m/internal/metrics"
)

// Poster is the slice of the API client that login needs.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	DisplayName string `json:"displayName"`
}

// Login exchanges credentials for a token at the endpoint matching actor
// and begins the session.
func Login(ctx context.Context, api Poster, sess *Session, username, password string, actor domain.EntityType) (domain.User, error) {
	if actor != domain.EntityStudent {
		actor = domain.EntityEmployee
	}
	var resp loginResponse
	path := fmt.Sprintf("/auth/%s/login", actor)
	if err := api.Post(ctx, path, loginRequest{Username: username, Password: password}, &resp); err != nil {
		metrics.Logins.WithLabelValues(string(actor), "rejected").Inc()
		return domain.User{}, err
	}
	u, err := sess.Begin(ctx, resp.Token, resp.DisplayName, actor)
	if err != nil {
		metrics.Logins.WithLabelValues(string(actor), "bad_token").Inc()
		return domain.User{}, err
	}
	metrics.Logins.WithLabelValues(string(actor), "ok").Inc()
	return u, nil
}

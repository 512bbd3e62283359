package api

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

const methodPasswordLogin = "PasswordLogin"

// minimumPrivilege is the privilege level requested at login. The read
// queries used by the probe require an administrator session.
const minimumPrivilege = "Administrator"

// errCodeWrongPassword is the error code the server returns for a
// rejected password.
const errCodeWrongPassword = "wrong_password"

// loginRequest is the PasswordLogin payload.
type loginRequest struct {
	MinimumPrivilegeLevel string `json:"minimumPrivilegeLevel"`
	Password              string `json:"password"`
}

// Authenticate exchanges the administrator password for a bearer token.
// The token is valid for the lifetime of the process only and is never
// persisted.
func (c *Client) Authenticate(ctx context.Context, password string) (string, error) {
	env, err := c.call(ctx, methodPasswordLogin, loginRequest{
		MinimumPrivilegeLevel: minimumPrivilege,
		Password:              password,
	}, "")
	if err != nil {
		return "", err
	}

	if env.ErrorCode == errCodeWrongPassword {
		return "", &AuthError{Kind: WrongPassword}
	}

	if env.ErrorCode != "" {
		return "", &AuthError{
			Kind:   UnexpectedAuthResponse,
			Detail: env.ErrorCode + ": " + env.ErrorMessage,
		}
	}

	var payload struct {
		AuthenticationToken string `json:"authenticationToken"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.AuthenticationToken == "" {
		return "", &AuthError{
			Kind:   UnexpectedAuthResponse,
			Detail: string(env.Data),
		}
	}

	log.Debug().Msg("Authenticated against server API")

	return payload.AuthenticationToken, nil
}

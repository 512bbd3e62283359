package api

import (
	"context"
	"encoding/json"
)

const (
	methodQueryServerState        = "QueryServerState"
	methodGetServerOptions        = "GetServerOptions"
	methodGetAdvancedGameSettings = "GetAdvancedGameSettings"
)

// GameState mirrors the serverGameState object of a QueryServerState
// response.
type GameState struct {
	ActiveSessionName   string  `json:"activeSessionName"`
	GamePhase           string  `json:"gamePhase"`
	AutoLoadSessionName string  `json:"autoLoadSessionName"`
	AverageTickRate     float64 `json:"averageTickRate"`
	TotalGameDuration   int64   `json:"totalGameDuration"`
	NumConnectedPlayers int     `json:"numConnectedPlayers"`
	PlayerLimit         int     `json:"playerLimit"`
	TechTier            int     `json:"techTier"`
	IsGameRunning       bool    `json:"isGameRunning"`
	IsGamePaused        bool    `json:"isGamePaused"`
}

// ServerOptions holds the applied and pending option maps of a
// GetServerOptions response, key order preserved.
type ServerOptions struct {
	Options OrderedFields
	Pending OrderedFields
}

// AdvancedSettings holds a GetAdvancedGameSettings response, key order
// of the settings map preserved.
type AdvancedSettings struct {
	Settings            OrderedFields
	CreativeModeEnabled bool
}

// QueryServerState fetches the current game session state.
func (c *Client) QueryServerState(ctx context.Context, token string) (*GameState, error) {
	env, err := c.call(ctx, methodQueryServerState, nil, token)
	if err != nil {
		return nil, err
	}
	if err := env.apiError(); err != nil {
		return nil, err
	}

	var payload struct {
		ServerGameState GameState `json:"serverGameState"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	return &payload.ServerGameState, nil
}

// GetServerOptions fetches the applied and pending server options.
func (c *Client) GetServerOptions(ctx context.Context, token string) (*ServerOptions, error) {
	env, err := c.call(ctx, methodGetServerOptions, nil, token)
	if err != nil {
		return nil, err
	}
	if err := env.apiError(); err != nil {
		return nil, err
	}

	var payload struct {
		ServerOptions        json.RawMessage `json:"serverOptions"`
		PendingServerOptions json.RawMessage `json:"pendingServerOptions"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	options, err := DecodeOrdered(payload.ServerOptions)
	if err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	pending, err := DecodeOrdered(payload.PendingServerOptions)
	if err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	return &ServerOptions{Options: options, Pending: pending}, nil
}

// GetAdvancedGameSettings fetches the advanced game settings and the
// creative mode flag.
func (c *Client) GetAdvancedGameSettings(ctx context.Context, token string) (*AdvancedSettings, error) {
	env, err := c.call(ctx, methodGetAdvancedGameSettings, nil, token)
	if err != nil {
		return nil, err
	}
	if err := env.apiError(); err != nil {
		return nil, err
	}

	var payload struct {
		AdvancedGameSettings json.RawMessage `json:"advancedGameSettings"`
		CreativeModeEnabled  bool            `json:"creativeModeEnabled"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	settings, err := DecodeOrdered(payload.AdvancedGameSettings)
	if err != nil {
		return nil, &NetworkError{Kind: MalformedResponse, Err: err}
	}

	return &AdvancedSettings{
		Settings:            settings,
		CreativeModeEnabled: payload.CreativeModeEnabled,
	}, nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wireRequest mirrors the request body for assertions in test handlers.
type wireRequest struct {
	Data     json.RawMessage `json:"data"`
	Function string          `json:"function"`
}

// startServer runs a TLS test server and returns a client trusting its
// self-signed certificate via the insecure opt-in.
func startServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	ts := httptest.NewTLSServer(handler)
	t.Cleanup(ts.Close)

	return NewClient(ts.URL, Options{Timeout: 5 * time.Second, InsecureTLS: true})
}

func decodeRequest(t *testing.T, r *http.Request) wireRequest {
	t.Helper()

	var req wireRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

	return req
}

func TestAuthenticate(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		req := decodeRequest(t, r)
		assert.Equal(t, "PasswordLogin", req.Function)

		var login map[string]string
		require.NoError(t, json.Unmarshal(req.Data, &login))
		assert.Equal(t, "Administrator", login["minimumPrivilegeLevel"])
		assert.Equal(t, "hunter2", login["password"])

		_, _ = w.Write([]byte(`{"data":{"authenticationToken":"tok123"}}`))
	})

	token, err := client.Authenticate(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errorCode":"wrong_password","errorMessage":"Login rejected"}`))
	})

	_, err := client.Authenticate(context.Background(), "bad")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, WrongPassword, authErr.Kind)
}

func TestAuthenticateUnexpectedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", `{"data":{}}`},
		{"unknown error code", `{"errorCode":"server_not_ready","errorMessage":"still loading"}`},
		{"data not an object", `{"data":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := startServer(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Authenticate(context.Background(), "pw")
			require.Error(t, err)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, UnexpectedAuthResponse, authErr.Kind)
			assert.NotEmpty(t, authErr.Detail)
		})
	}
}

func TestQueryServerState(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		req := decodeRequest(t, r)
		assert.Equal(t, "QueryServerState", req.Function)

		_, _ = w.Write([]byte(`{"data":{"serverGameState":{
			"activeSessionName":"MegaFactory",
			"numConnectedPlayers":2,
			"playerLimit":4,
			"techTier":8,
			"gamePhase":"GP_Project_Assembly_Phase_4",
			"isGameRunning":true,
			"totalGameDuration":1755648,
			"isGamePaused":false,
			"averageTickRate":29.8765,
			"autoLoadSessionName":"MegaFactory"
		}}}`))
	})

	state, err := client.QueryServerState(context.Background(), "tok123")
	require.NoError(t, err)

	assert.Equal(t, "MegaFactory", state.ActiveSessionName)
	assert.Equal(t, 2, state.NumConnectedPlayers)
	assert.Equal(t, 4, state.PlayerLimit)
	assert.Equal(t, int64(1755648), state.TotalGameDuration)
	assert.True(t, state.IsGameRunning)
	assert.False(t, state.IsGamePaused)
	assert.InDelta(t, 29.8765, state.AverageTickRate, 0.0001)
}

func TestGetServerOptionsKeepsOrder(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "GetServerOptions", req.Function)

		_, _ = w.Write([]byte(`{"data":{
			"serverOptions":{"FG.DSAutoPause":"True","FG.AutosaveInterval":"300","FG.SendGameplayData":"False"},
			"pendingServerOptions":{"FG.DSAutoPause":"False"}
		}}`))
	})

	options, err := client.GetServerOptions(context.Background(), "tok123")
	require.NoError(t, err)

	require.Len(t, options.Options, 3)
	assert.Equal(t, "FG.DSAutoPause", options.Options[0].Key)
	assert.Equal(t, "FG.AutosaveInterval", options.Options[1].Key)
	assert.Equal(t, "FG.SendGameplayData", options.Options[2].Key)

	require.Len(t, options.Pending, 1)
	assert.Equal(t, "False", options.Pending[0].Value)
}

func TestGetAdvancedGameSettings(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "GetAdvancedGameSettings", req.Function)

		_, _ = w.Write([]byte(`{"data":{
			"creativeModeEnabled":true,
			"advancedGameSettings":{"FG.GameRules.NoPower":"False","FG.PlayerRules.GodMode":"True"}
		}}`))
	})

	settings, err := client.GetAdvancedGameSettings(context.Background(), "tok123")
	require.NoError(t, err)

	assert.True(t, settings.CreativeModeEnabled)
	require.Len(t, settings.Settings, 2)
	assert.Equal(t, "FG.GameRules.NoPower", settings.Settings[0].Key)
}

func TestQueryServerError(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errorCode":"denied","errorMessage":"insufficient privileges"}`))
	})

	_, err := client.QueryServerState(context.Background(), "tok123")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "denied", apiErr.Code)
}

func TestNonSuccessStatus(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.QueryServerState(context.Background(), "tok123")
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, NonSuccessStatus, netErr.Kind)
}

func TestMalformedResponse(t *testing.T) {
	client := startServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not json"))
	})

	_, err := client.QueryServerState(context.Background(), "tok123")
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, MalformedResponse, netErr.Kind)
}

func TestTimeout(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL, Options{Timeout: 50 * time.Millisecond, InsecureTLS: true})

	_, err := client.QueryServerState(context.Background(), "tok123")
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, Timeout, netErr.Kind)
}

func TestConnectionFailed(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := NewClient(url, Options{Timeout: time.Second, InsecureTLS: true})

	_, err := client.QueryServerState(context.Background(), "tok123")
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, ConnectionFailed, netErr.Kind)
}

func TestDecodeOrdered(t *testing.T) {
	raw := []byte(`{"z":"last?","a":1,"nested":{"x":true,"y":null},"list":[1,"two"]}`)

	fields, err := DecodeOrdered(raw)
	require.NoError(t, err)
	require.Len(t, fields, 4)

	assert.Equal(t, "z", fields[0].Key)
	assert.Equal(t, "a", fields[1].Key)
	assert.Equal(t, json.Number("1"), fields[1].Value)

	nested, ok := fields[2].Value.(OrderedFields)
	require.True(t, ok)
	require.Len(t, nested, 2)
	assert.Equal(t, "x", nested[0].Key)
	assert.Equal(t, true, nested[0].Value)
	assert.Nil(t, nested[1].Value)

	list, ok := fields[3].Value.([]any)
	require.True(t, ok)
	assert.Equal(t, []any{json.Number("1"), "two"}, list)
}

func TestDecodeOrderedEdgeCases(t *testing.T) {
	fields, err := DecodeOrdered(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = DecodeOrdered([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = DecodeOrdered([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestOrderedFieldsMarshalJSON(t *testing.T) {
	fields := OrderedFields{
		{Key: "b", Value: "two"},
		{Key: "a", Value: json.Number("1")},
	}

	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"two","a":1}`, string(raw))
}

func TestAuthErrorMessages(t *testing.T) {
	assert.Equal(t, "authentication failed: wrong password", (&AuthError{Kind: WrongPassword}).Error())
	assert.Contains(t, (&AuthError{Kind: UnexpectedAuthResponse, Detail: "x"}).Error(), "x")
	assert.Equal(t, "unexpected authentication response", (&AuthError{Kind: UnexpectedAuthResponse}).Error())
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Kind: ConnectionFailed, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection failed")
}

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
)

// Fixed values of the legacy password-grant exchange.
const (
	authScope        = "openid profile offline_access"
	authResponseType = "token"
	authGrantType    = "password"
	authDevice       = "Browser"
	m2mGrantType     = "client_credentials"
)

// Credentials selects the auth flow: Username/Password, or M2M.
type Credentials struct {
	Username string
	Password string
	M2M      *config.M2M
}

type AuthNRequest struct {
	ClientID     string `json:"client_id"`
	Connection   string `json:"connection"`
	Device       string `json:"device"`
	GrantType    string `json:"grant_type"`
	Password     string `json:"password"`
	ResponseType string `json:"response_type"`
	Scope        string `json:"scope"`
	SSO          bool   `json:"sso"`
	Username     string `json:"username"`
}

type AuthNResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

type AuthZRequest struct {
	Param struct {
		ExternalToken string `json:"externalToken"`
		RefreshToken  string `json:"refreshToken"`
	} `json:"param"`
}

type AuthZResponse struct {
	Result struct {
		Content struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		} `json:"content"`
	} `json:"result"`
}

type M2MTokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Audience     string `json:"audience"`
}

type M2MTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Client talks to the submission platform on behalf of one identity. Which
// auth flow produced its token is not visible to callers.
type Client struct {
	endpoints *config.Endpoints
	http      *http.Client
	upload    *http.Client // never retries; a resent POST creates a duplicate
	logger    *slog.Logger
	token     string
	identity  string
}

// New returns an unauthenticated client.
func New(endpoints *config.Endpoints, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoints: endpoints,
		http:      buildHTTPClient(endpoints, endpoints.HTTPRetryMax),
		upload:    buildHTTPClient(endpoints, 0),
		logger:    logger,
	}
}

// Login builds a client and authenticates it with creds.
func Login(ctx context.Context, endpoints *config.Endpoints, creds Credentials, logger *slog.Logger) (*Client, error) {
	c := New(endpoints, logger)
	if err := c.Authenticate(ctx, creds); err != nil {
		return nil, err
	}
	return c, nil
}

// Authenticate obtains a token. For m2m credentials an exchange failure
// other than a credential rejection is only logged and leaves the client
// without a token; see Authenticated.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) error {
	if creds.M2M != nil {
		token, err := c.MachineToken(ctx, *creds.M2M)
		if err != nil {
			return err
		}
		c.token = token
		c.identity = creds.M2M.ClientID
		return nil
	}

	if creds.Username == "" || creds.Password == "" {
		return errors.New("username and password are required")
	}
	token, err := c.UserToken(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}
	c.token = token
	c.identity = creds.Username
	return nil
}

// Authenticated reports whether a token is held.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Identity returns the username or m2m client id the token was issued to.
func (c *Client) Identity() string {
	return c.identity
}

// UserToken runs the two-step password login: the legacy login exchange
// yields an id token, which the authorization service swaps for the
// platform token.
func (c *Client) UserToken(ctx context.Context, username, password string) (string, error) {
	authn := AuthNRequest{
		ClientID:     c.endpoints.ClientID,
		Connection:   c.endpoints.V2Connection,
		Device:       authDevice,
		GrantType:    authGrantType,
		Password:     password,
		ResponseType: authResponseType,
		Scope:        authScope,
		SSO:          false,
		Username:     username,
	}
	var authnRes AuthNResponse
	if _, err := c.doJSON(ctx, http.MethodPost, c.endpoints.AuthNURL, authn, &authnRes); err != nil {
		return "", authError(err)
	}
	if authnRes.IDToken == "" {
		return "", fmt.Errorf("login exchange returned no id token")
	}

	var authz AuthZRequest
	authz.Param.ExternalToken = authnRes.IDToken
	authz.Param.RefreshToken = authnRes.RefreshToken
	var authzRes AuthZResponse
	if _, err := c.doJSON(ctx, http.MethodPost, c.endpoints.AuthZURL, authz, &authzRes); err != nil {
		return "", authError(err)
	}

	token := authzRes.Result.Content.Token
	if token == "" {
		return "", fmt.Errorf("token exchange returned no token")
	}
	c.logger.Debug("authenticated", "username", username)
	return token, nil
}

// MachineToken runs the client-credentials grant. Rejected credentials
// are an error; any other failure is logged and an empty token returned.
func (c *Client) MachineToken(ctx context.Context, m2m config.M2M) (string, error) {
	req := M2MTokenRequest{
		GrantType:    m2mGrantType,
		ClientID:     m2m.ClientID,
		ClientSecret: m2m.ClientSecret,
		Audience:     c.endpoints.Auth0Audience,
	}
	var res M2MTokenResponse
	_, err := c.doJSON(ctx, http.MethodPost, c.endpoints.Auth0URL, req, &res)
	if err != nil {
		if isCredentialRejection(StatusCode(err)) {
			return "", ErrInvalidCredentials
		}
		c.logger.Error("Error while doing m2m Auth. Check your client_secret and client_id", "error", err)
		return "", nil
	}
	if res.AccessToken == "" {
		c.logger.Error("Error while doing m2m Auth. Check your client_secret and client_id", "error", "no access token in response")
	}
	return res.AccessToken, nil
}

func authError(err error) error {
	if isCredentialRejection(StatusCode(err)) {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return err
}

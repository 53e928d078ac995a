// Package tiktok implements the TikTok OAuth2 bridge. TikTok deviates
// from plain OAuth2 in one way: the client credential is sent as
// client_key rather than client_id, so the token exchange is a custom
// form POST instead of oauth2.Config.Exchange.
package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultAuthURL     = "https://www.tiktok.com/v2/auth/authorize/"
	defaultTokenURL    = "https://open.tiktokapis.com/v2/oauth/token/"
	defaultUserInfoURL = "https://open.tiktokapis.com/v2/user/info/"

	// ScopeBasicInfo grants read access to the basic user profile.
	ScopeBasicInfo = "user.info.basic"
)

// Provider implements the TikTok OAuth2 flow.
type Provider struct {
	config      *oauth2.Config
	clientKey   string
	userInfoURL string
	httpClient  *http.Client
}

// NewProvider creates a TikTok provider with the production endpoints.
func NewProvider(clientKey, clientSecret, redirectURL string) *Provider {
	config := &oauth2.Config{
		ClientID:     clientKey,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{ScopeBasicInfo},
		Endpoint: oauth2.Endpoint{
			AuthURL:  defaultAuthURL,
			TokenURL: defaultTokenURL,
		},
	}

	return &Provider{
		config:      config,
		clientKey:   clientKey,
		userInfoURL: defaultUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoints overrides the provider URLs, used by tests.
func (p *Provider) WithEndpoints(authURL, tokenURL, userInfoURL string) *Provider {
	p.config.Endpoint.AuthURL = authURL
	p.config.Endpoint.TokenURL = tokenURL
	p.userInfoURL = userInfoURL
	return p
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "tiktok"
}

// GetAuthURL returns the authorization URL for the given signed state.
func (p *Provider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("client_key", p.clientKey))
}

// Exchange swaps the authorization code for an access token.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	form := url.Values{
		"client_key":    {p.clientKey},
		"client_secret": {p.config.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {p.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed: status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
		OpenID       string `json:"open_id"`
		Error        string `json:"error"`
		ErrorDesc    string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("token exchange failed: %s: %s", payload.Error, payload.ErrorDesc)
	}
	if payload.AccessToken == "" {
		return nil, fmt.Errorf("token exchange failed: no access token in response")
	}

	token := &oauth2.Token{
		AccessToken:  payload.AccessToken,
		TokenType:    payload.TokenType,
		RefreshToken: payload.RefreshToken,
	}
	if payload.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}

	return token.WithExtra(map[string]any{"open_id": payload.OpenID}), nil
}

// UserInfo is the normalized TikTok profile.
type UserInfo struct {
	OpenID      string          `json:"open_id"`
	DisplayName string          `json:"display_name"`
	AvatarURL   string          `json:"avatar_url"`
	Raw         json.RawMessage `json:"-"`
}

// GetUserInfo fetches the basic profile for an access token.
func (p *Provider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	endpoint := p.userInfoURL + "?fields=open_id,display_name,avatar_url"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create user info request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read user info response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch user info: status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			User struct {
				OpenID      string `json:"open_id"`
				DisplayName string `json:"display_name"`
				AvatarURL   string `json:"avatar_url"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse user info: %w", err)
	}

	info := &UserInfo{
		OpenID:      payload.Data.User.OpenID,
		DisplayName: payload.Data.User.DisplayName,
		AvatarURL:   payload.Data.User.AvatarURL,
		Raw:         body,
	}
	if info.DisplayName == "" {
		info.DisplayName = "TikTok User"
	}

	return info, nil
}

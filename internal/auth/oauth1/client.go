package oauth1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIBaseURL = "https://api.twitter.com"

// Client drives the three-legged OAuth 1.0a flow against the Twitter API.
// Each call is a single HTTP round trip with no retries.
type Client struct {
	signer     *Signer
	httpClient *http.Client
	baseURL    string
}

func NewClient(signer *Signer) *Client {
	return &Client{
		signer:     signer,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultAPIBaseURL,
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// RequestToken performs step one of the flow and returns the temporary
// credentials Twitter issued for the given callback URL.
func (c *Client) RequestToken(ctx context.Context, callbackURL string) (*Token, error) {
	params := map[string]string{"oauth_callback": callbackURL}

	values, err := c.postForm(ctx, c.baseURL+"/oauth/request_token", params, nil)
	if err != nil {
		return nil, fmt.Errorf("request token: %w", err)
	}

	token := values.Get("oauth_token")
	secret := values.Get("oauth_token_secret")
	if token == "" || secret == "" {
		return nil, fmt.Errorf("request token: incomplete response from Twitter")
	}

	return &Token{Key: token, Secret: secret}, nil
}

// AuthorizeURL is where the user grants access for a request token.
func (c *Client) AuthorizeURL(requestToken string) string {
	return c.baseURL + "/oauth/authorize?oauth_token=" + url.QueryEscape(requestToken)
}

// AccessTokenResult carries the final credentials plus the identifiers
// Twitter returns alongside them.
type AccessTokenResult struct {
	Token      Token
	UserID     string
	ScreenName string
}

// AccessToken exchanges an authorized request token and verifier for
// access credentials.
func (c *Client) AccessToken(ctx context.Context, requestToken *Token, verifier string) (*AccessTokenResult, error) {
	params := map[string]string{"oauth_verifier": verifier}

	values, err := c.postForm(ctx, c.baseURL+"/oauth/access_token", params, requestToken)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}

	result := &AccessTokenResult{
		Token: Token{
			Key:    values.Get("oauth_token"),
			Secret: values.Get("oauth_token_secret"),
		},
		UserID:     values.Get("user_id"),
		ScreenName: values.Get("screen_name"),
	}
	if result.Token.Key == "" || result.Token.Secret == "" || result.UserID == "" || result.ScreenName == "" {
		return nil, fmt.Errorf("access token: incomplete response from Twitter")
	}

	return result, nil
}

// Profile is the subset of the users/show response the service keeps.
type Profile struct {
	ScreenName           string `json:"screen_name"`
	Name                 string `json:"name"`
	ProfileImageURLHTTPS string `json:"profile_image_url_https"`
	FollowersCount       int64  `json:"followers_count"`
	FriendsCount         int64  `json:"friends_count"`
	Verified             bool   `json:"verified"`
	Description          string `json:"description"`
	Location             string `json:"location"`
}

// ProfileImageURL returns the full-size variant of the profile image.
func (p *Profile) ProfileImageURL() string {
	return strings.Replace(p.ProfileImageURLHTTPS, "_normal", "", 1)
}

// UsersShow fetches the public profile for a screen name using the
// user's access credentials.
func (c *Client) UsersShow(ctx context.Context, screenName string, access *Token) (*Profile, error) {
	endpoint := c.baseURL + "/1.1/users/show.json?screen_name=" + url.QueryEscape(screenName)

	header, err := c.signer.AuthHeader(http.MethodGet, endpoint, nil, access)
	if err != nil {
		return nil, fmt.Errorf("users/show: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("users/show: %w", err)
	}
	req.Header.Set("Authorization", header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users/show: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("users/show: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("users/show: parse response: %w", err)
	}

	return &profile, nil
}

// APIError is a non-200 response from the Twitter API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter api error: status %d", e.StatusCode)
}

// postForm signs and sends a form-encoded POST, expecting a
// form-encoded response body.
func (c *Client) postForm(ctx context.Context, endpoint string, params map[string]string, token *Token) (url.Values, error) {
	header, err := c.signer.AuthHeader(http.MethodPost, endpoint, params, token)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", header)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return values, nil
}

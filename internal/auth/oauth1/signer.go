// Package oauth1 implements the OAuth 1.0a (RFC 5849) request signing and
// three-legged token exchange used by the Twitter v1.1 API. x/oauth2 does
// not cover 1.0a, so the HMAC-SHA1 flow is implemented here.
package oauth1

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alisharafiiii/nabulines-backup/internal/security"
)

// Signer produces OAuth 1.0a Authorization headers signed with HMAC-SHA1.
type Signer struct {
	ConsumerKey    string
	ConsumerSecret string

	// nonce and now are injectable for deterministic signatures in tests.
	nonce func() (string, error)
	now   func() time.Time
}

func NewSigner(consumerKey, consumerSecret string) *Signer {
	return &Signer{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		nonce: func() (string, error) {
			return security.GenerateRandomString(32)
		},
		now: time.Now,
	}
}

// Token is an OAuth 1.0a credential pair: either the temporary
// request token or the final access token.
type Token struct {
	Key    string
	Secret string
}

// AuthHeader builds the Authorization header value for a request.
// params holds the request's oauth_* and body/query parameters that
// participate in the signature base string; token may be nil for the
// request-token step.
func (s *Signer) AuthHeader(method, rawURL string, params map[string]string, token *Token) (string, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.ConsumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_version":          "1.0",
	}
	var tokenSecret string
	if token != nil {
		oauthParams["oauth_token"] = token.Key
		tokenSecret = token.Secret
	}

	signature, err := s.sign(method, rawURL, params, oauthParams, tokenSecret)
	if err != nil {
		return "", err
	}
	oauthParams["oauth_signature"] = signature

	// Header lists only the oauth_* parameters, sorted, percent-encoded
	keys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=\"%s\"", percentEncode(k), percentEncode(oauthParams[k])))
	}

	return "OAuth " + strings.Join(pairs, ", "), nil
}

// sign computes the HMAC-SHA1 signature over the base string defined in
// RFC 5849 section 3.4.1.
func (s *Signer) sign(method, rawURL string, params, oauthParams map[string]string, tokenSecret string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}

	// Collect request query, extra params and oauth params
	all := make(map[string][]string)
	for key, values := range u.Query() {
		for _, v := range values {
			all[key] = append(all[key], v)
		}
	}
	for key, value := range params {
		all[key] = append(all[key], value)
	}
	for key, value := range oauthParams {
		all[key] = append(all[key], value)
	}

	// Normalize: encode, sort by key then value, join with &
	type pair struct{ key, value string }
	encoded := make([]pair, 0, len(all))
	for key, values := range all {
		for _, v := range values {
			encoded = append(encoded, pair{percentEncode(key), percentEncode(v)})
		}
	}
	sort.Slice(encoded, func(i, j int) bool {
		if encoded[i].key != encoded[j].key {
			return encoded[i].key < encoded[j].key
		}
		return encoded[i].value < encoded[j].value
	})

	paramPairs := make([]string, 0, len(encoded))
	for _, p := range encoded {
		paramPairs = append(paramPairs, p.key+"="+p.value)
	}
	paramString := strings.Join(paramPairs, "&")

	baseURL := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.EscapedPath()
	baseString := strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(paramString)

	signingKey := percentEncode(s.ConsumerSecret) + "&" + percentEncode(tokenSecret)

	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(baseString))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// percentEncode implements the strict RFC 3986 encoding required by OAuth:
// everything except unreserved characters is encoded, spaces as %20.
func percentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range []byte(s) {
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

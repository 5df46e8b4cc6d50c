package email

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	defaultAPIBase  = "https://gmail.googleapis.com"
	gmailSendScope  = "https://www.googleapis.com/auth/gmail.send"
	jwtGrantType    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

type Config struct {
	PrivateKey  string
	ClientEmail string
	ClientID    string
	ProjectID   string
	From        string
}

// GmailProvider sends mail through the Gmail REST API using a service
// account JWT bearer grant.
type GmailProvider struct {
	cfg      Config
	tokenURL string
	apiBase  string
	client   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewGmail(cfg Config) *GmailProvider {
	if strings.TrimSpace(cfg.From) == "" {
		cfg.From = cfg.ClientEmail
	}
	return &GmailProvider{
		cfg:      cfg,
		tokenURL: defaultTokenURL,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 12 * time.Second},
	}
}

// WithEndpoints overrides the token and API endpoints, used in tests.
func (p *GmailProvider) WithEndpoints(tokenURL, apiBase string) *GmailProvider {
	p.tokenURL = strings.TrimRight(tokenURL, "/")
	p.apiBase = strings.TrimRight(apiBase, "/")
	return p
}

func (p *GmailProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	if len(to) == 0 {
		return errors.New("no_recipients")
	}

	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	raw := buildMessage(p.cfg.From, to[0], subject, htmlBody)
	payload, err := json.Marshal(map[string]string{
		"raw": base64.RawURLEncoding.EncodeToString([]byte(raw)),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/gmail/v1/users/me/messages/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error.Message == "" {
			return fmt.Errorf("gmail_send_failed: status %d", resp.StatusCode)
		}
		return errors.New(apiErr.Error.Message)
	}
	return nil
}

func (p *GmailProvider) CheckAuth(ctx context.Context) error {
	_, err := p.token(ctx)
	return err
}

// buildMessage assembles the RFC 2822 message the Gmail API expects
// inside the base64url raw field.
func buildMessage(from, to, subject, htmlBody string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}

func (p *GmailProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	assertion, err := p.signedAssertion()
	if err != nil {
		return "", err
	}

	values := url.Values{}
	values.Set("grant_type", jwtGrantType)
	values.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL,
		strings.NewReader(values.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("gmail_token_failed: status %d", resp.StatusCode)
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errors.New("gmail_token_empty")
	}

	p.accessToken = token.AccessToken
	// Refresh a minute early to avoid using a token at the edge of its
	// lifetime.
	p.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)
	return p.accessToken, nil
}

func (p *GmailProvider) signedAssertion() (string, error) {
	key, err := parsePrivateKey(p.cfg.PrivateKey)
	if err != nil {
		return "", err
	}

	now := time.Now()
	header := map[string]string{"alg": "RS256", "typ": "JWT"}
	claims := map[string]any{
		"iss":   p.cfg.ClientEmail,
		"scope": gmailSendScope,
		"aud":   defaultTokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." +
		base64.RawURLEncoding.EncodeToString(claimsJSON)

	digest := sha256.Sum256([]byte(signingInput))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("gmail_private_key_invalid")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("gmail_private_key_not_rsa")
		}
		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.New("gmail_private_key_invalid")
	}
	return key, nil
}

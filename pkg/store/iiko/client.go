package iiko

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultRetryMax = 3

	authPath   = "/resto/api/auth"
	logoutPath = "/resto/api/logout"
	olapPath   = "/resto/api/v2/reports/olap"

	dateTimeLayout = "2006-01-02T15:04:05.000"
)

// Credentials of an iiko server account. PassSHA1 is the hex SHA1 of the password.
type Credentials struct {
	Host     string
	Login    string
	PassSHA1 string
}

// HashPassword returns the hex SHA1 digest the auth endpoint expects.
func HashPassword(plain string) string {
	sum := sha1.Sum([]byte(plain))
	return hex.EncodeToString(sum[:])
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.HTTPClient.Timeout = d
		}
	}
}

func WithRetryMax(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.http.RetryMax = n
		}
	}
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = min
		c.http.RetryWaitMax = max
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.http.Logger = leveledLogger{logger: logger}
	}
}

// Client talks to the OLAP reporting API of an iiko server. Every fetch opens its own
// session and closes it afterwards.
type Client struct {
	creds Credentials
	http  *retryablehttp.Client
}

func NewClient(creds Credentials, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = DefaultRetryMax
	rc.HTTPClient.Timeout = DefaultTimeout
	rc.Logger = nil

	c := &Client{
		creds: Credentials{
			Host:     strings.TrimRight(creds.Host, "/"),
			Login:    creds.Login,
			PassSHA1: creds.PassSHA1,
		},
		http: rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFacts returns the sales of the department named location for [from, to).
func (c *Client) FetchFacts(ctx context.Context, location string, from, to time.Time) ([]domain.RawFactRow, error) {
	logger := zerolog.Ctx(ctx)

	token, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := c.Logout(context.WithoutCancel(ctx), token); err != nil {
			logger.Warn().Err(err).Msg("iiko logout failed")
		}
	}()

	rows, err := c.Sales(ctx, token, location, from, to)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("location", location).
		Int("rows", len(rows)).
		Msg("olap rows received")
	return adapters.MapStoreSalesRowsToDomainFacts(rows), nil
}

// Login opens a session and returns its token.
func (c *Client) Login(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("login", c.creds.Login)
	form.Set("pass", c.creds.PassSHA1)

	body, err := c.postForm(ctx, authPath, form)
	if err != nil {
		return "", fmt.Errorf("iiko auth failed: %w", err)
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("iiko auth failed: empty token")
	}
	return token, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	form := url.Values{}
	form.Set("key", token)

	if _, err := c.postForm(ctx, logoutPath, form); err != nil {
		return fmt.Errorf("iiko logout failed: %w", err)
	}
	return nil
}

// Sales runs the SALES OLAP report for one department grouped by order type.
func (c *Client) Sales(ctx context.Context, token, department string, from, to time.Time) ([]store.SalesRow, error) {
	payload, err := json.Marshal(NewSalesRequest(department, from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to encode olap request: %w", err)
	}

	endpoint := c.creds.Host + olapPath + "?" + url.Values{"key": {token}}.Encode()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build olap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("olap request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("olap request failed: %w", err)
	}

	var report store.SalesReport
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode olap response: %w", err)
	}
	return report.Data, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.creds.Host+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
}

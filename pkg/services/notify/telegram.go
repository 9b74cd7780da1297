package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	DefaultTelegramAPI = "https://api.telegram.org"
	DefaultRate        = 20 // messages per second
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, recipient, text string) error
}

type TelegramConfig struct {
	Token   string
	APIURL  string
	Rate    float64
	Timeout time.Duration
	// RetryMax is the number of retries on transport errors and 5xx/429 responses.
	RetryMax int
}

// TelegramSender posts Markdown messages through the Bot API sendMessage method.
type TelegramSender struct {
	endpoint string
	http     *retryablehttp.Client
	limiter  *rate.Limiter
}

func NewTelegramSender(cfg TelegramConfig) *TelegramSender {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultTelegramAPI
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &TelegramSender{
		endpoint: fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(cfg.APIURL, "/"), cfg.Token),
		http:     rc,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Rate), 1),
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type botResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func (s *TelegramSender) Send(ctx context.Context, recipient, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: recipient, Text: text, ParseMode: "Markdown"})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage failed: %w", err)
	}
	defer resp.Body.Close()

	var body botResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("sendMessage returned status %d: %w", resp.StatusCode, err)
	}
	if !body.OK {
		return fmt.Errorf("sendMessage rejected (%d): %s", body.ErrorCode, body.Description)
	}
	return nil
}

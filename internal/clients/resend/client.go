package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/utils"
)

// Client sends transactional mail through the Resend HTTP API.
type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey     string
	BaseURL    string
	FromEmail  string
	FromName   string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv(log *logger.Logger) Config {
	timeoutSec := utils.GetEnvAsInt("RESEND_TIMEOUT_SECONDS", 30, log)
	maxRetries := utils.GetEnvAsInt("RESEND_MAX_RETRIES", 3, log)
	return Config{
		APIKey:     strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		BaseURL:    strings.TrimSpace(os.Getenv("RESEND_BASE_URL")),
		FromEmail:  utils.GetEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev", log),
		FromName:   utils.GetEnv("RESEND_FROM_NAME", "OddJobz", log),
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxRetries: maxRetries,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv(log))
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing RESEND_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.resend.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &client{
		log:        log.With("client", "ResendClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type SendEmailRequest struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

type SendEmailResult struct {
	ID string
}

// Resend mail send wire types.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type HTTPError struct {
	StatusCode int
	Name       string
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "resend: <nil error>"
	}
	if strings.TrimSpace(e.Message) != "" {
		return fmt.Sprintf("resend http %d: %s", e.StatusCode, e.Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("resend http %d: %s", e.StatusCode, msg)
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("resend client unavailable")
	}
	if len(req.To) == 0 {
		return nil, fmt.Errorf("resend: To required")
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		return nil, fmt.Errorf("resend: Subject required")
	}
	if strings.TrimSpace(req.HTML) == "" && strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("resend: Text or HTML content required")
	}

	from := c.cfg.FromEmail
	if strings.TrimSpace(c.cfg.FromName) != "" {
		from = fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail)
	}

	wire := sendRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
	}

	raw, err := c.do(ctx, http.MethodPost, "/emails", wire)
	if err != nil {
		return nil, err
	}

	var resp sendResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("resend: decode response: %w", err)
	}
	return &SendEmailResult{ID: resp.ID}, nil
}

func (c *client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return raw, nil
		}

		if !isRetryable(err) || attempt == c.cfg.MaxRetries {
			return nil, err
		}

		c.log.Warn("Resend request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", backoff.String(),
			"error", err.Error(),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			he.Name = er.Name
			he.Message = er.Message
		}
		return nil, he
	}

	return raw, nil
}

func isRetryable(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

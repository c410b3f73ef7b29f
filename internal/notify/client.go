package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/webhook-reporter/webhook-reporter/internal/config"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

const (
	defaultConnTimeoutSec = 10
	defaultRetryMax       = 3
	defaultMaxIdleConns   = 10
	botUsername           = "webhook-reporter"

	// Discord rejects content longer than 2000 characters.
	discordContentLimit = 2000
)

// Client posts rendered messages to a provider webhook.
type Client struct {
	provider config.Provider
	url      string
	client   *retryablehttp.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithRetry overrides the retry policy.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.client.RetryMax = max
		c.client.RetryWaitMin = waitMin
		c.client.RetryWaitMax = waitMax
	}
}

// NewClient creates a webhook client retrying on connection errors and
// 5xx/429 responses.
func NewClient(provider config.Provider, url string, opts ...Option) *Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = defaultMaxIdleConns

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{
		Timeout:   defaultConnTimeoutSec * time.Second,
		Transport: t,
	}
	rc.RetryMax = defaultRetryMax
	rc.Logger = &leveledLogger{entry: log.WithField("provider", provider)}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{provider: provider, url: url, client: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Payload returns the JSON body the provider expects for text.
func Payload(provider config.Provider, text string) ([]byte, error) {
	var body interface{}
	switch provider {
	case config.ProviderDiscord:
		body = map[string]string{
			"content":  api.TruncateText(text, discordContentLimit-3),
			"username": botUsername,
		}
	case config.ProviderSlack, config.ProviderTeams:
		body = map[string]string{"text": text}
	default:
		return nil, &config.InvalidProviderError{Provider: string(provider)}
	}
	return json.Marshal(body)
}

// Send delivers text to the webhook. Any non-2xx final response is an error.
func (c *Client) Send(ctx context.Context, text string) error {
	payload, err := Payload(c.provider, text)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "unable to create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "unable to send message to %s", c.provider)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("%s webhook returned status %d: %s", c.provider, resp.StatusCode, bytes.TrimSpace(body))
	}
	log.Infof("Message sent to %s with [%d]", c.provider, resp.StatusCode)
	return nil
}

// leveledLogger routes the retry client logs to logrus.
type leveledLogger struct {
	entry *log.Entry
}

func (l *leveledLogger) fields(kv []interface{}) *log.Entry {
	fields := log.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.entry.WithFields(fields)
}

func (l *leveledLogger) Error(msg string, kv ...interface{}) { l.fields(kv).Error(msg) }
func (l *leveledLogger) Info(msg string, kv ...interface{})  { l.fields(kv).Debug(msg) }
func (l *leveledLogger) Debug(msg string, kv ...interface{}) { l.fields(kv).Debug(msg) }
func (l *leveledLogger) Warn(msg string, kv ...interface{})  { l.fields(kv).Warn(msg) }

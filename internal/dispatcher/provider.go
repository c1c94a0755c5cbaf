package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmehdipour/notify-relay/internal/model"
)

const (
	pushPath        = "/v2/bot/message/push"
	maxUpstreamBody = 64 << 10
)

var ErrBreakerOpen = errors.New("upstream circuit open")

// Pusher delivers one push payload using the given channel access token.
type Pusher interface {
	Push(ctx context.Context, channelAccessToken string, payload model.PushPayload) error
}

// UpstreamError is a non-2xx answer from the Messaging API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("messaging api status=%d", e.StatusCode)
}

type LineProvider struct {
	baseURL string
	client  *http.Client
	br      *MicroBreaker // nil = disabled
}

var _ Pusher = (*LineProvider)(nil)

// NewLineProvider targets baseURL (e.g. https://api.line.me). A zero timeout keeps
// the http.Client default; failThreshold <= 0 disables the breaker.
func NewLineProvider(baseURL string, timeout time.Duration, failThreshold int, openFor time.Duration) *LineProvider {
	p := &LineProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}

	if failThreshold > 0 {
		if openFor <= 0 {
			openFor = 15 * time.Second
		}
		p.br = NewMicroBreaker(failThreshold, openFor)
	}

	return p
}

func (p *LineProvider) Push(ctx context.Context, channelAccessToken string, payload model.PushPayload) error {
	if p.br != nil && !p.br.TryAcquire() {
		return ErrBreakerOpen
	}

	err := p.post(ctx, channelAccessToken, payload)
	if p.br != nil {
		if err != nil {
			p.br.OnFailure()
		} else {
			p.br.OnSuccess()
		}
	}

	return err
}

func (p *LineProvider) post(ctx context.Context, channelAccessToken string, payload model.PushPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+pushPath, bytes.NewReader(b))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+channelAccessToken)

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("messaging api request: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxUpstreamBody))
		return &UpstreamError{StatusCode: res.StatusCode, Body: string(body)}
	}

	_, _ = io.Copy(io.Discard, res.Body)

	return nil
}

package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmehdipour/notify-relay/internal/config"
)

// Record binds one caller's bearer token to an upstream identity.
type Record struct {
	ChannelAccessToken string // never echoed to the caller
	To                 string
	MessagePrefix      string
}

func (r Record) Valid() bool {
	return r.ChannelAccessToken != "" && r.To != ""
}

// Resolver maps a bearer token to a Record. Implementations are read-only
// after construction and safe for concurrent use.
type Resolver interface {
	Resolve(token string) (Record, bool)
}

type Mode string

const (
	ModeTable        Mode = "table"
	ModeSelfEncoding Mode = "self-encoding"
)

func (m Mode) String() string { return string(m) }

// Table looks tokens up verbatim in a map fixed at construction.
type Table struct {
	entries map[string]Record
}

var _ Resolver = (*Table)(nil)

// NewTable copies entries. Every record must carry a channel token and a recipient.
func NewTable(entries map[string]Record) (*Table, error) {
	m := make(map[string]Record, len(entries))
	for tok, rec := range entries {
		if tok == "" {
			return nil, errors.New("credentials: empty access token key")
		}
		if !rec.Valid() {
			return nil, fmt.Errorf("credentials: entry %q needs channelAccessToken and to", redact(tok))
		}
		m[tok] = rec
	}
	return &Table{entries: m}, nil
}

func (t *Table) Resolve(token string) (Record, bool) {
	rec, ok := t.entries[token]
	return rec, ok
}

func (t *Table) Len() int { return len(t.entries) }

const selfSeparator = "|"

// SelfEncoding derives the record from the token itself: "<channelAccessToken>|<to>".
// The bearer token is the upstream secret in this mode.
type SelfEncoding struct{}

var _ Resolver = SelfEncoding{}

func (SelfEncoding) Resolve(token string) (Record, bool) {
	channel, to, ok := strings.Cut(token, selfSeparator)
	if !ok || channel == "" || to == "" {
		return Record{}, false
	}
	return Record{ChannelAccessToken: channel, To: to}, true
}

// EncodeSelfToken builds a bearer token that SelfEncoding resolves back to
// channelAccessToken and to.
func EncodeSelfToken(channelAccessToken, to string) (string, error) {
	if channelAccessToken == "" || to == "" {
		return "", errors.New("channel access token and recipient are both required")
	}
	if strings.Contains(channelAccessToken, selfSeparator) {
		return "", fmt.Errorf("channel access token must not contain %q", selfSeparator)
	}
	return channelAccessToken + selfSeparator + to, nil
}

// New picks the process-wide resolver: the table when a credentials config was
// found, self-encoding otherwise.
func New(cfg *config.Credentials) (Resolver, Mode, error) {
	if cfg == nil {
		return SelfEncoding{}, ModeSelfEncoding, nil
	}
	entries := make(map[string]Record, len(cfg.AccessTokens))
	for tok, e := range cfg.AccessTokens {
		entries[tok] = Record{
			ChannelAccessToken: e.ChannelAccessToken,
			To:                 e.To,
			MessagePrefix:      e.MessagePrefix,
		}
	}
	t, err := NewTable(entries)
	if err != nil {
		return nil, "", err
	}
	return t, ModeTable, nil
}

func redact(tok string) string {
	if len(tok) <= 4 {
		return "****"
	}
	return tok[:2] + "****"
}

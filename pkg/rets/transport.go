package rets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"
)

const (
	AuthBasic  = "basic"
	AuthDigest = "digest"

	DefaultRETSVersion = "RETS/1.7.2"
	DefaultUserAgent   = "rechanize/1.0"
)

var ErrHTTPStatus = errors.New("rets http status")

// Transport fetches an absolute URL. Errors it returns are passed to the
// caller untouched.
type Transport interface {
	Fetch(ctx context.Context, url string) (*Envelope, error)
}

type TransportConfig struct {
	User        string
	Password    string
	AuthScheme  string
	UserAgent   string
	RETSVersion string
	Timeout     time.Duration
}

// RestyTransport is the HTTP Transport. RETS servers track the session with
// a cookie set at login so a single transport must be used for a session.
type RestyTransport struct {
	client *resty.Client
}

func NewRestyTransport(cfg TransportConfig) *RestyTransport {
	client := resty.New()

	switch strings.ToLower(cfg.AuthScheme) {
	case AuthBasic:
		client.SetBasicAuth(cfg.User, cfg.Password)
	default:
		client.SetDigestAuth(cfg.User, cfg.Password)
	}

	version := cfg.RETSVersion
	if version == "" {
		version = DefaultRETSVersion
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client.SetHeader("RETS-Version", version)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "*/*")

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &RestyTransport{client: client}
}

// Client exposes the underlying resty client, mostly so tests can point it at
// a fake server's TLS config or swap the http transport.
func (t *RestyTransport) Client() *resty.Client {
	return t.client
}

func (t *RestyTransport) Fetch(ctx context.Context, url string) (*Envelope, error) {
	resp, err := t.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "GET %s", url)
	}

	if resp.IsError() {
		return nil, ToErrorFromResponse(resp)
	}

	return &Envelope{
		ContentType: resp.Header().Get("Content-Type"),
		Header:      resp.Header(),
		Body:        resp.Body(),
	}, nil
}

// ToErrorFromResponse turns a non 2xx response into an ErrHTTPStatus error
// carrying the status and the start of the body.
func ToErrorFromResponse(resp *resty.Response) error {
	body := strings.TrimSpace(string(resp.Body()))
	if len(body) > 200 {
		body = body[:200] + "..."
	}

	return errors.Join(ErrHTTPStatus, fmt.Errorf("(HTTP Status: %d) - %s", resp.StatusCode(), body))
}

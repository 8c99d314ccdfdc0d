package rets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jkestr/rechanize/pkg/rets/retstest"
	"github.com/stretchr/testify/require"
)

func TestRestyTransport_SendsRETSHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte("<RETS/>"))
	}))
	defer srv.Close()

	transport := NewRestyTransport(TransportConfig{
		User:       "agent",
		Password:   "secret",
		AuthScheme: AuthBasic,
		UserAgent:  "test-agent/2.0",
		Timeout:    5 * time.Second,
	})

	env, err := transport.Fetch(context.Background(), srv.URL+"/login")
	require.NoError(t, err)
	require.Equal(t, "text/xml", env.ContentType)
	require.Equal(t, "<RETS/>", string(env.Body))

	require.Equal(t, DefaultRETSVersion, got.Get("RETS-Version"))
	require.Equal(t, "test-agent/2.0", got.Get("User-Agent"))

	user, password, ok := (&http.Request{Header: got}).BasicAuth()
	require.True(t, ok)
	require.Equal(t, "agent", user)
	require.Equal(t, "secret", password)
}

func TestRestyTransport_ErrorStatus(t *testing.T) {
	srv := retstest.NewServer(t)

	transport := NewRestyTransport(TransportConfig{User: "agent", Password: "wrong", AuthScheme: AuthBasic})
	_, err := transport.Fetch(context.Background(), srv.URL+retstest.LoginPath)
	require.ErrorIs(t, err, ErrHTTPStatus)
	require.Contains(t, err.Error(), "HTTP Status: 401")
}

func TestRestyTransport_KeepsSessionCookie(t *testing.T) {
	srv := retstest.NewServer(t)

	transport := NewRestyTransport(TransportConfig{User: retstest.User, Password: retstest.Password, AuthScheme: AuthBasic})
	_, err := transport.Fetch(context.Background(), srv.URL+retstest.LoginPath)
	require.NoError(t, err)

	var found bool
	for _, c := range transport.Client().GetClient().Jar.Cookies(mustParseURL(t, srv.URL)) {
		if c.Name == "RETS-Session-ID" {
			found = true
		}
	}
	require.True(t, found)
}

func TestToErrorFromResponseTruncatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer srv.Close()

	_, err := NewRestyTransport(TransportConfig{AuthScheme: AuthBasic}).Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrHTTPStatus)
	require.Contains(t, err.Error(), "HTTP Status: 500")
	require.Less(t, len(err.Error()), 300)
}

func TestMockTransport(t *testing.T) {
	transport := NewMockTransport().SetResponse("http://h/a", "text/plain", []byte("a"))

	env, err := transport.Fetch(context.Background(), "http://h/a")
	require.NoError(t, err)
	require.Equal(t, "text/plain", env.Header.Get("Content-Type"))

	_, err = transport.Fetch(context.Background(), "http://h/b")
	require.ErrorIs(t, err, ErrHTTPStatus)
	require.Equal(t, []string{"http://h/a", "http://h/b"}, transport.Requests)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

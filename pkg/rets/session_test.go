package rets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/jkestr/rechanize/pkg/rets/retstest"
	"github.com/stretchr/testify/require"
)

const loginBody = `<RETS ReplyCode="0" ReplyText="Success">
<RETS-RESPONSE>
MemberName=Joe Agent
Search=/rets/search
GetObject=/rets/getobject
GetMetadata=/rets/getmetadata
Login=/rets/login
Logout=/rets/logout
</RETS-RESPONSE>
</RETS>`

var quietLogger = &log.Logger{Handler: discard.Default, Level: log.DebugLevel}

func newMockSession(t *testing.T, loginResponse string) (*Session, *MockTransport) {
	transport := NewMockTransport()
	transport.SetResponse("http://host.com:80/login_path", "text/xml", []byte(loginResponse))

	s, err := NewSession(exampleURL, WithTransport(transport), WithLogger(quietLogger))
	require.NoError(t, err)

	return s, transport
}

func TestSession_String(t *testing.T) {
	s, _ := newMockSession(t, loginBody)
	require.Equal(t, "<RETS::host.com user>", s.String())
}

func TestSession_NotAuthenticatedByDefault(t *testing.T) {
	s, _ := newMockSession(t, loginBody)
	require.False(t, s.IsAuthenticated())
	require.Equal(t, s.Paths().Len() != 0, s.IsAuthenticated())
}

func TestSession_Authenticate(t *testing.T) {
	s, transport := newMockSession(t, loginBody)

	ok, err := s.Authenticate(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, []string{"http://host.com:80/login_path"}, transport.Requests)
	require.Equal(t, []string{MethodSearch, MethodGetObject, MethodGetMetadata, MethodLogin}, s.Paths().Methods())

	url, ok := s.Paths().Get(MethodSearch)
	require.True(t, ok)
	require.Equal(t, "http://host.com:80/rets/search", url)

	_, ok = s.Paths().Get("Logout")
	require.False(t, ok)
}

func TestSession_AuthenticateWithoutPaths(t *testing.T) {
	var tests = []struct {
		name string
		body string
	}{
		{name: "empty document", body: "<xml></xml>"},
		{name: "login error", body: `<RETS ReplyCode="20036" ReplyText="Invalid login"/>`},
		{name: "only unknown methods", body: "<RETS ReplyCode=\"0\"><RETS-RESPONSE>Logout=/logout</RETS-RESPONSE></RETS>"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, _ := newMockSession(t, test.body)

			ok, err := s.Authenticate(context.Background())
			require.NoError(t, err)
			require.False(t, ok)

			err = s.AuthenticateOrFail(context.Background())
			require.ErrorIs(t, err, ErrAuthentication)
		})
	}
}

func TestSession_ReauthenticateClearsPaths(t *testing.T) {
	s, transport := newMockSession(t, loginBody)

	ok, err := s.Authenticate(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	transport.SetResponse("http://host.com:80/login_path", "text/xml", []byte("<xml></xml>"))
	ok, err = s.Authenticate(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, s.IsAuthenticated())
}

func TestSession_AuthenticateInvalidPath(t *testing.T) {
	s, _ := newMockSession(t, "<RETS><RETS-RESPONSE>Search=http://other.com/search</RETS-RESPONSE></RETS>")

	_, err := s.Authenticate(context.Background())
	require.ErrorIs(t, err, ErrInvalidPath)
	require.False(t, s.IsAuthenticated())
}

func TestSession_AuthenticateTransportError(t *testing.T) {
	s, transport := newMockSession(t, loginBody)
	transport.SetError(ErrHTTPStatus)

	_, err := s.Authenticate(context.Background())
	require.ErrorIs(t, err, ErrHTTPStatus)
}

func TestSession_BuildRequestPath(t *testing.T) {
	s, _ := newMockSession(t, loginBody)
	_, err := s.Authenticate(context.Background())
	require.NoError(t, err)

	var tests = []struct {
		name     string
		query    string
		params   *Params
		expected string
	}{
		{
			name:     "search forces compact dmql2",
			query:    "SearchType=Property&Class=RES&Query=(ListPrice=0+)",
			params:   nil,
			expected: "http://host.com:80/rets/search?SearchType=Property&Class=RES&Query=(ListPrice=0+)&Format=COMPACT&QueryType=DMQL2",
		},
		{
			name:     "limit is renamed",
			query:    "SearchType=Property&Class=RES&Query=(ListPrice=0+)",
			params:   NewParams().Set("Select", "ListingID").Set("limit", 5),
			expected: "http://host.com:80/rets/search?SearchType=Property&Class=RES&Query=(ListPrice=0+)&Select=ListingID&Format=COMPACT&QueryType=DMQL2&Limit=5",
		},
		{
			name:     "caller format is overridden in place",
			query:    "SearchType=Property&Class=RES&Query=(ListPrice=0+)",
			params:   NewParams().Set("Format", "STANDARD-XML"),
			expected: "http://host.com:80/rets/search?SearchType=Property&Class=RES&Query=(ListPrice=0+)&Format=COMPACT&QueryType=DMQL2",
		},
		{
			name:     "photo request goes to GetObject untouched",
			query:    "Resource=Property&Type=HrPhoto&ID=1001:*",
			params:   nil,
			expected: "http://host.com:80/rets/getobject?Resource=Property&Type=HrPhoto&ID=1001:*",
		},
		{
			name:     "GetObject keeps its params",
			query:    "Resource=Property&Type=HrPhoto&ID=1001:*",
			params:   NewParams().Set("Location", 0),
			expected: "http://host.com:80/rets/getobject?Resource=Property&Type=HrPhoto&ID=1001:*&Location=0",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path, err := s.BuildRequestPath(test.query, test.params)
			require.NoError(t, err)
			require.Equal(t, test.expected, path)
		})
	}
}

func TestSession_BuildRequestPathDoesNotModifyParams(t *testing.T) {
	s, _ := newMockSession(t, loginBody)
	_, err := s.Authenticate(context.Background())
	require.NoError(t, err)

	params := NewParams().Set("limit", 5)
	_, err = s.BuildRequestPath("SearchType=Property&Class=RES&Query=(A=1)", params)
	require.NoError(t, err)
	require.Equal(t, "limit=5", params.Encode())
}

func TestSession_BuildRequestPathUnsupported(t *testing.T) {
	s, _ := newMockSession(t, "<RETS><RETS-RESPONSE>Login=/login_path\nSearch=/rets/search</RETS-RESPONSE></RETS>")
	_, err := s.Authenticate(context.Background())
	require.NoError(t, err)

	_, err = s.BuildRequestPath("Resource=Property&Type=HrPhoto&ID=1:*", nil)
	require.ErrorIs(t, err, ErrUnsupportedRequest)
}

func TestSession_BuildRequestPathBeforeLogin(t *testing.T) {
	s, _ := newMockSession(t, loginBody)
	_, err := s.BuildRequestPath("SearchType=Property&Class=RES&Query=(A=1)", nil)
	require.ErrorIs(t, err, ErrUnsupportedRequest)
}

// Older releases of this client rejected every request path with
// ErrUnsupportedRequest right after picking the method. The path is built
// now; this case stays as a marker until that behavior is confirmed dead.
func TestSession_BuildRequestPathAlwaysRejected(t *testing.T) {
	t.Skip("unconditional ErrUnsupportedRequest from BuildRequestPath is not reproduced, paths are built")
}

func TestSession_ObjectTypes(t *testing.T) {
	transport := NewMockTransport()
	transport.SetResponse("http://host.com:80/login_path", "text/xml", []byte(loginBody))

	s, err := NewSession(exampleURL, WithTransport(transport), WithLogger(quietLogger), WithObjectTypes("Photo", "HrPhoto"))
	require.NoError(t, err)
	_, err = s.Authenticate(context.Background())
	require.NoError(t, err)

	path, err := s.BuildRequestPath(ObjectQuery("Property", "Photo", "1:1"), nil)
	require.NoError(t, err)
	require.Equal(t, "http://host.com:80/rets/getobject?Resource=Property&Type=Photo&ID=1:1", path)
}

func TestSession_Get(t *testing.T) {
	s, transport := newMockSession(t, loginBody)
	_, err := s.Authenticate(context.Background())
	require.NoError(t, err)

	query := SearchQuery("Property", "RES", "(ListPrice=0+)")
	url := "http://host.com:80/rets/search?" + query + "&Format=COMPACT&QueryType=DMQL2"
	transport.SetResponse(url, "text/xml", []byte(retstest.CompactReply("0", "Success", []string{"ListingID"}, [][]string{{"1"}, {"2"}})))

	res, err := s.Get(context.Background(), query, nil)
	require.NoError(t, err)

	records := res.CollectRecords()
	require.Len(t, records, 2)
	require.Equal(t, map[string]string{"ListingID": "2"}, records[1].Map())
}

func TestSession_FetchMetadata(t *testing.T) {
	s, transport := newMockSession(t, loginBody)
	_, err := s.Authenticate(context.Background())
	require.NoError(t, err)

	transport.SetResponse("http://host.com:80/rets/getmetadata?Type=METADATA-OBJECT&Format=COMPACT&Id=0", "text/xml", []byte("data"))
	transport.SetResponse("http://host.com:80/rets/getmetadata?Type=METADATA-CLASS&Format=COMPACT&Id=0", "text/xml", []byte("classes"))

	body, err := s.FetchMetadata(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []byte("data"), body)

	body, err = s.FetchMetadata(context.Background(), "CLASS")
	require.NoError(t, err)
	require.Equal(t, []byte("classes"), body)
}

func TestSession_ArchiveMetadata(t *testing.T) {
	s, transport := newMockSession(t, loginBody)
	_, err := s.Authenticate(context.Background())
	require.NoError(t, err)

	transport.SetResponse("http://host.com:80/rets/getmetadata?Type=METADATA-OBJECT&Format=COMPACT&Id=0", "text/xml", []byte("metadata"))

	path := filepath.Join(t.TempDir(), "metadata.xml")
	require.NoError(t, s.ArchiveMetadata(context.Background(), path, ""))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "metadata", string(contents))
}

func TestSession_AgainstServer(t *testing.T) {
	srv := retstest.NewServer(t)
	srv.Objects = []retstest.Object{
		{ContentID: "1001", ObjectID: "1", ContentType: "image/jpeg", Data: []byte("photo-1")},
		{ContentID: "1001", ObjectID: "2", ContentType: "image/jpeg", Data: []byte("photo-2")},
	}

	s, err := NewSession(srv.LoginURL(), WithLogger(quietLogger), WithTransportConfig(TransportConfig{AuthScheme: AuthBasic}))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.AuthenticateOrFail(ctx))

	res, err := s.Get(ctx, SearchQuery("Property", "RES", "(ListPrice=0+)"), NewParams().Set("limit", 1))
	require.NoError(t, err)
	records := res.CollectRecords()
	require.Len(t, records, 1)
	require.Equal(t, map[string]string{"ListingID": "1001", "ListPrice": "350000"}, records[0].Map())

	res, err = s.Get(ctx, ObjectQuery("Property", "HrPhoto", "1001:*"), nil)
	require.NoError(t, err)
	require.Equal(t, ContentMultipart, res.Kind)
	parts := res.CollectParts()
	require.Len(t, parts, 2)
	require.Equal(t, "2", parts[1].Header["Object-ID"])
	require.Equal(t, []byte("photo-2"), parts[1].Data)

	requests := srv.Requests()
	require.Contains(t, requests, "/rets/search?SearchType=Property&Class=RES&Query=(ListPrice=0+)&Format=COMPACT&QueryType=DMQL2&Limit=1")
}

func TestSession_AgainstServerBadCredentials(t *testing.T) {
	srv := retstest.NewServer(t)

	s, err := NewSession(srv.LoginURLFor("agent", "wrong"), WithLogger(quietLogger), WithTransportConfig(TransportConfig{AuthScheme: AuthBasic}))
	require.NoError(t, err)

	err = s.AuthenticateOrFail(context.Background())
	require.ErrorIs(t, err, ErrHTTPStatus)
	require.False(t, s.IsAuthenticated())
}

func TestSession_AgainstServerNoRecords(t *testing.T) {
	srv := retstest.NewServer(t)
	srv.ReplyCode = ReplyCodeNoRecords
	srv.ReplyText = "No Records Found."

	s, err := NewSession(srv.LoginURL(), WithLogger(quietLogger), WithTransportConfig(TransportConfig{AuthScheme: AuthBasic}))
	require.NoError(t, err)
	require.NoError(t, s.AuthenticateOrFail(context.Background()))

	res, err := s.Get(context.Background(), SearchQuery("Property", "RES", "(ListPrice=0+)"), nil)
	require.NoError(t, err)
	require.Empty(t, res.CollectRecords())
}

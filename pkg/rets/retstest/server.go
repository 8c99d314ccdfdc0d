// Package retstest runs an in-process RETS server for tests. It speaks just
// enough of the protocol for a Session: login with basic auth, COMPACT search
// replies, multipart/parallel GetObject replies and raw metadata.
package retstest

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	User     = "agent"
	Password = "secret"
	Boundary = "rets.object.boundary"

	LoginPath       = "/rets/login"
	SearchPath      = "/rets/search"
	GetObjectPath   = "/rets/getobject"
	GetMetadataPath = "/rets/getmetadata"
)

// Object is a single attachment served by GetObject.
type Object struct {
	ContentID   string
	ObjectID    string
	ContentType string
	Data        []byte
}

type Server struct {
	*httptest.Server
	Echo *echo.Echo

	// What the server replies with, change before issuing requests.
	LoginReplyCode string
	ReplyCode      string
	ReplyText      string
	Columns        []string
	Rows           [][]string
	Objects        []Object
	Metadata       string

	mu       sync.Mutex
	requests []string
}

// NewServer starts a server that is closed when the test ends. It serves one
// listing with two fields by default.
func NewServer(t testing.TB) *Server {
	s := &Server{
		Echo:           echo.New(),
		LoginReplyCode: "0",
		ReplyCode:      "0",
		ReplyText:      "Operation Successful",
		Columns:        []string{"ListingID", "ListPrice"},
		Rows:           [][]string{{"1001", "350000"}},
		Metadata:       `<RETS ReplyCode="0" ReplyText="Success"><METADATA-OBJECT Version="1.0" Date="2024-01-01"/></RETS>`,
	}

	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Use(s.recordRequest)
	s.Echo.Use(middleware.BasicAuth(func(user, password string, _ echo.Context) (bool, error) {
		return user == User && password == Password, nil
	}))

	s.Echo.GET(LoginPath, s.login)
	s.Echo.GET(SearchPath, s.search)
	s.Echo.GET(GetObjectPath, s.getObject)
	s.Echo.GET(GetMetadataPath, s.getMetadata)

	s.Server = httptest.NewServer(s.Echo)
	t.Cleanup(s.Close)

	return s
}

// LoginURL is the connection string for the server with valid credentials.
func (s *Server) LoginURL() string {
	return s.LoginURLFor(User, Password)
}

func (s *Server) LoginURLFor(user, password string) string {
	host := strings.TrimPrefix(s.URL, "http://")
	return fmt.Sprintf("http://%s:%s@%s%s", user, password, host, LoginPath)
}

// Requests returns the request URIs (path and query) seen so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) recordRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests = append(s.requests, c.Request().RequestURI)
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<RETS ReplyCode=%q ReplyText=\"V2.7.0 761: Success\">\n", s.LoginReplyCode)
	b.WriteString("<RETS-RESPONSE>\n")
	b.WriteString("MemberName=Test Agent\n")
	b.WriteString("User=agent,1,AGENT,agent\n")
	fmt.Fprintf(&b, "Login=%s\n", LoginPath)
	fmt.Fprintf(&b, "Search=%s\n", SearchPath)
	fmt.Fprintf(&b, "GetObject=%s\n", GetObjectPath)
	fmt.Fprintf(&b, "GetMetadata=%s\n", GetMetadataPath)
	b.WriteString("Logout=/rets/logout\n")
	b.WriteString("</RETS-RESPONSE>\n</RETS>\n")

	c.Response().Header().Set("Set-Cookie", "RETS-Session-ID=abc123; Path=/")
	return c.Blob(http.StatusOK, "text/xml", []byte(b.String()))
}

func (s *Server) search(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/xml", []byte(CompactReply(s.ReplyCode, s.ReplyText, s.Columns, s.Rows)))
}

func (s *Server) getObject(c echo.Context) error {
	if len(s.Objects) == 1 {
		o := s.Objects[0]
		c.Response().Header().Set("Content-ID", o.ContentID)
		c.Response().Header().Set("Object-ID", o.ObjectID)
		return c.Blob(http.StatusOK, o.ContentType, o.Data)
	}

	contentType := fmt.Sprintf("multipart/parallel; boundary=%q", Boundary)
	return c.Blob(http.StatusOK, contentType, MultipartBody(Boundary, s.Objects))
}

func (s *Server) getMetadata(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/xml", []byte(s.Metadata))
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// CompactReply renders a tab delimited COMPACT reply. Columns and rows are
// framed with a leading and trailing tab the way RETS servers send them.
func CompactReply(code, text string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<RETS ReplyCode=\"%s\" ReplyText=\"%s\">\n", xmlEscaper.Replace(code), xmlEscaper.Replace(text))

	if code == "0" {
		b.WriteString("<DELIMITER value=\"09\"/>\n")
		fmt.Fprintf(&b, "<COLUMNS>\t%s\t</COLUMNS>\n", xmlEscaper.Replace(strings.Join(columns, "\t")))
		for _, row := range rows {
			fmt.Fprintf(&b, "<DATA>\t%s\t</DATA>\n", xmlEscaper.Replace(strings.Join(row, "\t")))
		}
	}

	b.WriteString("</RETS>\n")
	return b.String()
}

// MultipartBody renders objects as a multipart/parallel body.
func MultipartBody(boundary string, objects []Object) []byte {
	var b bytes.Buffer
	for _, o := range objects {
		fmt.Fprintf(&b, "\r\n--%s\r\n", boundary)
		fmt.Fprintf(&b, "Content-Type: %s\r\n", o.ContentType)
		fmt.Fprintf(&b, "Content-ID: %s\r\n", o.ContentID)
		fmt.Fprintf(&b, "Object-ID: %s\r\n", o.ObjectID)
		b.WriteString("\r\n")
		b.Write(o.Data)
	}
	fmt.Fprintf(&b, "\r\n--%s--\r\n", boundary)

	return b.Bytes()
}

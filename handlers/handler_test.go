package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	mw "github.com/padraicbc/recipeshare/middleware"
)

var testKey = []byte("test-session-key")

// userColumns matches the users table shape scanned by bun.
var userColumns = []string{"id", "username", "password", "image_url", "bio"}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	return New(bun.NewDB(sqldb, pgdialect.New()), testKey), mock
}

func newRequest(t *testing.T, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// signIn attaches a valid session cookie for uid to the request.
func signIn(t *testing.T, c echo.Context, uid int) {
	t.Helper()

	cookie, err := mw.NewSessionCookie(uid, testKey)
	require.NoError(t, err)
	c.Request().AddCookie(cookie)
}

// call runs a handler through the session-resolving middleware, the way it
// is mounted in main.
func call(h echo.HandlerFunc, c echo.Context) error {
	return mw.Session(testKey)(h)(c)
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == mw.SessionCookie {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

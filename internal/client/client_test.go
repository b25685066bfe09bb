package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/rebook/pkg/circuitbreaker"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Timeout: time.Second, BreakerFailures: 2, BreakerTimeout: time.Minute})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:8080", "://x"} {
		_, err := New(Config{BaseURL: base})
		assert.Error(t, err, base)
	}
}

func TestBooks_SendsBearerAndDecodes(t *testing.T) {
	var gotAuth, gotSort string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/books", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotSort = r.URL.Query().Get("sort")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Dune","author":{"id":3,"name":"Frank Herbert"},"categoryId":2,
			 "category":{"id":2,"name":"Fiction"},"status":"Available","available":1,"total":2,
			 "cover":"dune.jpg","createdAt":"2024-01-15T10:30:00Z"},
			{"id":2,"title":"Blink","author":{"id":4,"name":"Malcolm Gladwell"},"categoryId":null,
			 "category":null,"status":"Unavailable","available":0,"total":0,"cover":"",
			 "createdAt":"2024-01-16T10:30:00Z"}
		]`))
	}))

	books, err := c.Books(context.Background(), Session{Token: "tok"}, SortLatest)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "latest", gotSort)
	require.Len(t, books, 2)
	assert.Equal(t, "Frank Herbert", books[0].Author.Name)
	require.NotNil(t, books[0].CategoryID)
	assert.Equal(t, uint(2), *books[0].CategoryID)
	assert.Nil(t, books[1].CategoryID)
	assert.Equal(t, "Unavailable", books[1].Status)
}

func TestMissingSessionIsAuthenticationError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"type": "Error", "code": 40100, "message": "请先登录"})
	}))

	_, err := c.Categories(context.Background(), Session{})
	require.Error(t, err)
	assert.Equal(t, KindAuthentication, KindOf(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 40100, apiErr.Code)
	assert.Equal(t, "请先登录", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		status int
		body   string
		kind   Kind
	}{
		{http.StatusBadRequest, `{"type":"Error","code":40002,"message":"weak"}`, KindValidation},
		{http.StatusConflict, `{"type":"Error","code":40901,"message":"dup"}`, KindDuplicate},
		{http.StatusForbidden, `{"type":"Error","code":40300,"message":"no"}`, KindForbidden},
		{http.StatusNotFound, `not json`, KindNotFound},
		{http.StatusTeapot, ``, KindUnknown},
	}
	for _, tc := range cases {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))
		err := c.DeleteBook(context.Background(), Session{Token: "t"}, 1)
		assert.Equal(t, tc.kind, KindOf(err), tc.status)
		assert.NotEmpty(t, err.(*Error).Message)
	}
}

func TestSignupAndLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/user/signup":
			assert.Equal(t, "Rita Reader", body["fullname"])
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"type": "Success",
				"user": map[string]interface{}{"id": 1, "email": body["email"], "name": body["fullname"], "username": body["username"]},
			})
		case "/user/login":
			if body["password"] != "secret123" {
				writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"type": "Error", "code": 40103, "message": "邮箱或密码错误"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"type": "Success", "token": "tok", "auth": "Reader", "expiresAt": 1735660800})
		}
	}))
	ctx := context.Background()

	u, err := c.Signup(ctx, SignupRequest{Email: "rita@example.com", Password: "secret123", Fullname: "Rita Reader", Username: "rita"})
	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Email: "rita@example.com", Name: "Rita Reader", Username: "rita"}, u)

	res, err := c.Login(ctx, "rita@example.com", "wrong-pass1")
	assert.Nil(t, res)
	assert.True(t, IsKind(err, KindAuthentication))

	res, err = c.Login(ctx, "rita@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok"}, res.Session)
	assert.Equal(t, "Reader", res.Auth)
	assert.Equal(t, int64(1735660800), res.ExpiresAt.Unix())
}

func TestLogin_SuccessWithoutTokenIsError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"type": "Success"})
	}))
	res, err := c.Login(context.Background(), "a@b.c", "x")
	assert.Nil(t, res)
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestTransportErrors_TripBreaker(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Books(ctx, Session{Token: "t"}, SortDefault)
		assert.Equal(t, KindTransport, KindOf(err))
	}
	assert.Equal(t, circuitbreaker.StateOpen, c.BreakerState())

	_, err := c.Books(ctx, Session{Token: "t"}, SortDefault)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, calls, "熔断后请求不再发出")
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"type": "Error", "code": 40402, "message": "图书不存在"})
	}))
	for i := 0; i < 5; i++ {
		err := c.DeleteBook(context.Background(), Session{Token: "t"}, 9)
		assert.Equal(t, KindNotFound, KindOf(err))
	}
	assert.Equal(t, circuitbreaker.StateClosed, c.BreakerState())
}

func TestCancelledRequestsDoNotTripBreaker(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	for i := 0; i < 4; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := c.Categories(ctx, Session{Token: "t"})
		cancel()
		assert.Equal(t, KindTransport, KindOf(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, circuitbreaker.StateClosed, c.BreakerState())
}

func TestRequestTimeoutTripsBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond, BreakerFailures: 2, BreakerTimeout: time.Minute})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Categories(context.Background(), Session{Token: "t"})
		assert.Equal(t, KindTransport, KindOf(err))
	}
	assert.Equal(t, circuitbreaker.StateOpen, c.BreakerState(), "服务端超时算失败")
}

func TestUnreachableServer(t *testing.T) {
	c, err := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Books(context.Background(), Session{Token: "t"}, SortDefault)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestCover(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/file/2024/dune.png", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("png-bytes"))
	}))
	var buf bytes.Buffer
	n, err := c.Cover(context.Background(), Session{Token: "tok"}, "2024/dune.png", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "png-bytes", buf.String())
}

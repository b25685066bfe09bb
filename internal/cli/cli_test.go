package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const booksJSON = `[
	{"id":1,"title":"Dune","author":{"id":3,"name":"Frank Herbert"},"categoryId":2,
	 "category":{"id":2,"name":"Fiction"},"status":"Available","available":1,"total":2,
	 "cover":"dune.jpg","createdAt":"2024-01-15T10:30:00Z"},
	{"id":2,"title":"Blink","author":{"id":4,"name":"Malcolm Gladwell"},"categoryId":null,
	 "category":null,"status":"Unavailable","available":0,"total":0,"cover":"",
	 "createdAt":"2024-01-16T10:30:00Z"},
	{"id":3,"title":"Emma","author":{"id":5,"name":"Jane Austen"},"categoryId":2,
	 "category":{"id":2,"name":"Fiction"},"status":"Unavailable","available":0,"total":1,
	 "cover":"","createdAt":"2024-01-17T10:30:00Z"}
]`

// fakeAPI 模拟rebook API
type fakeAPI struct {
	mu      sync.Mutex
	deleted []string
	sorts   []string
	signups []map[string]string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"type": "Error", "code": 40100, "message": "请先登录"})
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("/user/signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.signups = append(f.signups, body)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"type": "Success",
			"user": map[string]interface{}{"id": 7, "email": body["email"], "name": body["fullname"], "username": body["username"]},
		})
	})
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"type": "Error", "code": 40102, "message": "邮箱或密码错误"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"type": "Success", "token": "tok", "auth": "Reader", "expiresAt": 4102444800})
	})
	mux.HandleFunc("/user/logout", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"type": "Success", "code": 0, "message": "success"})
	}))
	mux.HandleFunc("/api/v1/books", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.sorts = append(f.sorts, r.URL.Query().Get("sort"))
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(booksJSON))
	}))
	mux.HandleFunc("/api/v1/categories", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 2, "name": "Fiction"}, {"id": 5, "name": "Science"}})
	}))
	mux.HandleFunc("/api/v1/book/", authed(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/book/")
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if id == "99" {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"type": "Error", "code": 40402, "message": "图书不存在"})
			return
		}
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{"type": "Success", "code": 0, "message": "success"})
	}))
	mux.HandleFunc("/api/v1/file/", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/file/dune.jpg" {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"type": "Error", "code": 40404, "message": "文件不存在"})
			return
		}
		_, _ = w.Write([]byte("JPEGDATA"))
	}))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	api *fakeAPI
	url string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return &harness{api: api, url: srv.URL}
}

// run 执行命令，返回stdout
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetArgs(append([]string{"--server", h.url}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBooks_FilterBySearch(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "--token", "tok", "books", "--search", "DUNE")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Frank Herbert")
	assert.NotContains(t, out, "Blink")
	assert.Contains(t, out, "1 of 3 books")
}

func TestBooks_FilterByCategoryNameAndStatus(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "--token", "tok", "books", "--category", "fiction", "--status", "unavailable")
	require.NoError(t, err)
	assert.Contains(t, out, "Emma")
	assert.NotContains(t, out, "Dune")
	assert.NotContains(t, out, "Blink")

	out, err = h.run(t, "", "--token", "tok", "books", "-c", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Emma")
	assert.Contains(t, out, "2 of 3 books")
}

func TestBooks_InvalidOptions(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "--token", "tok", "books", "--status", "lost")
	assert.ErrorContains(t, err, "unknown status")

	_, err = h.run(t, "", "--token", "tok", "books", "--category", "Poetry")
	assert.ErrorContains(t, err, "unknown category")
}

func TestBooks_RequiresToken(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "books")
	assert.ErrorContains(t, err, "not logged in")

	_, err = h.run(t, "", "--token", "wrong", "books")
	assert.ErrorContains(t, err, "请先登录")
}

func TestBooks_NoMatch(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "--token", "tok", "books", "-s", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No books.")
	assert.Contains(t, out, "0 of 3 books")
}

func TestLatest_Limit(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "--token", "tok", "latest", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.NotContains(t, out, "Blink")
	assert.Equal(t, []string{"latest"}, h.api.sorts)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "secret1\n", "login", "--email", "ann@example.com", "-q")
	require.NoError(t, err)
	assert.Equal(t, "tok\n", out)

	out, err = h.run(t, "ann@example.com\nsecret1\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Reader")

	_, err = h.run(t, "nope\n", "login", "--email", "ann@example.com")
	assert.ErrorContains(t, err, "邮箱或密码错误")
}

func TestSignup(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "secret1\n", "signup", "--email", "ann@example.com", "--name", "Ann Reader", "--username", "ann")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed up ann@example.com (#7)")

	require.Len(t, h.api.signups, 1)
	assert.Equal(t, "secret1", h.api.signups[0]["password"])
	assert.Equal(t, "Ann Reader", h.api.signups[0]["fullname"])

	_, err = h.run(t, "secret1\n", "signup", "--email", "ann@example.com")
	assert.Error(t, err, "name和username必填")
}

func TestLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "--token", "tok", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
}

func TestDelete_Confirmation(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "n\n", "--token", "tok", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Empty(t, h.api.deleted)

	out, err = h.run(t, "", "--token", "tok", "delete", "1")
	require.NoError(t, err, "没有输入时按否处理")
	assert.Contains(t, out, "Cancelled.")
	assert.Empty(t, h.api.deleted)

	out, err = h.run(t, "y\n", "--token", "tok", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted book #1.")
	assert.Equal(t, []string{"1"}, h.api.deleted)

	_, err = h.run(t, "", "--token", "tok", "delete", "2", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, h.api.deleted)
}

func TestDelete_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "--token", "tok", "delete", "abc")
	assert.ErrorContains(t, err, "invalid book id")

	_, err = h.run(t, "", "--token", "tok", "delete", "99", "-y")
	assert.ErrorContains(t, err, "图书不存在")
	assert.Empty(t, h.api.deleted)
}

func TestCover(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "cover", "dune.jpg")
	assert.ErrorContains(t, err, "not logged in")

	out, err := h.run(t, "", "--token", "tok", "cover", "dune.jpg")
	require.NoError(t, err)
	assert.Equal(t, "JPEGDATA", out)

	path := filepath.Join(t.TempDir(), "dune.jpg")
	_, err = h.run(t, "", "--token", "tok", "cover", "dune.jpg", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "JPEGDATA", string(data))

	missing := filepath.Join(t.TempDir(), "missing.jpg")
	_, err = h.run(t, "", "--token", "tok", "cover", "missing.jpg", "-o", missing)
	assert.Error(t, err)
	assert.NoFileExists(t, missing)
}

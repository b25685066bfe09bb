// Package client rebook REST API客户端
//
// 每个需要登录的调用都显式传入Session，客户端本身不保存凭证。
// 所有失败都返回*Error，按Kind区分重复、校验、认证、传输等类别。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/rebook/pkg/circuitbreaker"
	"github.com/xiebiao/rebook/pkg/metrics"
)

// Session 登录凭证，Token为空表示未登录
type Session struct {
	Token string
}

// Authenticated 是否持有Token
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Config 客户端配置
type Config struct {
	BaseURL         string
	Timeout         time.Duration // 单次请求超时，0表示10s
	BreakerFailures int           // 连续失败多少次熔断，0表示5
	BreakerTimeout  time.Duration // 熔断后多久进入半开，0表示30s
	HTTPClient      *http.Client
}

// Client REST客户端
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// New 创建客户端
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("无效的服务地址: %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	failures := uint32(cfg.BreakerFailures)
	breaker := circuitbreaker.NewCircuitBreaker("rebook-api", circuitbreaker.Config{
		// 目录轮询同时请求图书和分类，半开时两个都要放行
		MaxRequests: 2,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetBreakerState(name, int(to))
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, errAborted)
		},
	})

	return &Client{base: base, http: cfg.HTTPClient, timeout: cfg.Timeout, breaker: breaker}, nil
}

// BreakerState 熔断器状态
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

// Sort 图书列表排序
type Sort string

const (
	SortDefault Sort = ""
	SortLatest  Sort = "latest"
)

// Author 作者
type Author struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Category 分类
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Book 图书
type Book struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Author     Author    `json:"author"`
	CategoryID *uint     `json:"categoryId"`
	Category   *Category `json:"category"`
	Status     string    `json:"status"`
	Available  int       `json:"available"`
	Total      int       `json:"total"`
	Cover      string    `json:"cover"`
	CreatedAt  time.Time `json:"createdAt"`
}

// User 注册成功后返回的用户信息
type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// SignupRequest 注册参数
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Contacts string `json:"contacts"`
}

// LoginResult 登录结果
type LoginResult struct {
	Session   Session
	Auth      string
	ExpiresAt time.Time
}

// Signup 注册
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	var out struct {
		Type string `json:"type"`
		User User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/user/signup", nil, Session{}, req, &out); err != nil {
		return nil, err
	}
	if out.Type != typeSuccess {
		return nil, unexpected(out.Type)
	}
	return &out.User, nil
}

// Login 登录，成功时必定返回非空Token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out struct {
		Type      string `json:"type"`
		Token     string `json:"token"`
		Auth      string `json:"auth"`
		ExpiresAt int64  `json:"expiresAt"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, Session{}, body, &out); err != nil {
		return nil, err
	}
	if out.Type != typeSuccess || out.Token == "" {
		return nil, unexpected(out.Type)
	}

	res := &LoginResult{Session: Session{Token: out.Token}, Auth: out.Auth}
	if out.ExpiresAt > 0 {
		res.ExpiresAt = time.Unix(out.ExpiresAt, 0)
	}
	return res, nil
}

// Logout 登出，Token在服务端加入黑名单
func (c *Client) Logout(ctx context.Context, sess Session) error {
	return c.do(ctx, http.MethodPost, "/user/logout", nil, sess, nil, nil)
}

// Books 全部图书
func (c *Client) Books(ctx context.Context, sess Session, sort Sort) ([]Book, error) {
	var query url.Values
	if sort != SortDefault {
		query = url.Values{"sort": {string(sort)}}
	}
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/v1/books", query, sess, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Book 图书详情
func (c *Client) Book(ctx context.Context, sess Session, id uint) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, sess, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Categories 全部分类
func (c *Client) Categories(ctx context.Context, sess Session) ([]Category, error) {
	var list []Category
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, sess, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteBook 删除图书（图书管理员）
func (c *Client) DeleteBook(ctx context.Context, sess Session, id uint) error {
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, sess, nil, nil)
}

// Cover 下载封面写入w，返回写入的字节数
func (c *Client) Cover(ctx context.Context, sess Session, ref string, w io.Writer) (int64, error) {
	var n int64
	err := c.send(ctx, http.MethodGet, "/api/v1/file/"+strings.TrimPrefix(ref, "/"), nil, sess, nil, func(r io.Reader) error {
		var err error
		n, err = io.Copy(w, r)
		return err
	})
	return n, err
}

func bookPath(id uint) string {
	return "/api/v1/book/" + strconv.FormatUint(uint64(id), 10)
}

const typeSuccess = "Success"

func unexpected(typ string) error {
	return &Error{Kind: KindUnknown, Message: fmt.Sprintf("unexpected response type %q", typ)}
}

// do 发送JSON请求并把响应解码到out（out为nil时丢弃响应体）
func (c *Client) do(ctx context.Context, method, path string, query url.Values, sess Session, in, out interface{}) error {
	return c.send(ctx, method, path, query, sess, in, func(r io.Reader) error {
		if out == nil {
			_, err := io.Copy(io.Discard, r)
			return err
		}
		return json.NewDecoder(r).Decode(out)
	})
}

// errAborted 调用方取消了请求（ctx取消或到期），与服务端是否可用无关
var errAborted = errors.New("request aborted")

// send 发送请求
// 只有传输错误和5xx计入熔断器，4xx是调用方的问题；调用方取消的请求不计入
func (c *Client) send(parent context.Context, method, path string, query url.Values, sess Session, in interface{}, read func(io.Reader) error) error {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindUnknown, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(buf)
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	var apiErr error
	err = c.breaker.Execute(func() error {
		resp, err := c.http.Do(req)
		if err != nil {
			if parent.Err() != nil {
				return &Error{Kind: KindTransport, Message: "request cancelled", Err: fmt.Errorf("%w: %w", errAborted, err)}
			}
			return &Error{Kind: KindTransport, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if err := read(resp.Body); err != nil {
				apiErr = &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: "decode response", Err: err}
			}
			return nil
		}

		e := decodeError(resp)
		if e.Kind == KindTransport {
			return e
		}
		apiErr = e
		return nil
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return &Error{Kind: KindTransport, Message: "服务暂不可用，请稍后重试", Err: err}
	}
	if err != nil {
		return err
	}
	return apiErr
}

// decodeError 解析{type:"Error",code,message}，响应体不是JSON时用状态码描述
func decodeError(resp *http.Response) *Error {
	e := &Error{Kind: kindFromStatus(resp.StatusCode), Status: resp.StatusCode}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		e.Code = body.Code
		e.Message = body.Message
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

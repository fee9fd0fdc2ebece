package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 10 << 20
)

// Client はストアの REST API をまとめて叩く。
// リソースごとのラッパーは Cart / Products などのフィールドから使う。
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu    sync.RWMutex
	token string

	Cart          *CartAPI
	Products      *ProductAPI
	AdminProducts *AdminProductAPI
	AdminAuth     *AdminAuthAPI
	Customers     *CustomerAPI
	Checkout      *CheckoutAPI
	Payments      *PaymentAPI
	Delivery      *DeliveryAPI
	Orders        *OrderAPI
	AuditLogs     *AuditLogAPI
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// baseURL は /api まで含める（例: http://localhost:8080/api）
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Cart = &CartAPI{c: c}
	c.Products = &ProductAPI{c: c}
	c.AdminProducts = &AdminProductAPI{c: c}
	c.AdminAuth = &AdminAuthAPI{c: c}
	c.Customers = &CustomerAPI{c: c}
	c.Checkout = &CheckoutAPI{c: c}
	c.Payments = &PaymentAPI{c: c}
	c.Delivery = &DeliveryAPI{c: c}
	c.Orders = &OrderAPI{c: c}
	c.AuditLogs = &AuditLogAPI{c: c}
	return c
}

// ログイン後に Bearer トークンを差し替える
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type filePart struct {
	field    string
	filename string
	r        io.Reader
}

type multipartBody struct {
	fields [][2]string
	files  []filePart
}

func (m *multipartBody) field(name, value string) {
	m.fields = append(m.fields, [2]string{name, value})
}

func (m *multipartBody) file(field, filename string, r io.Reader) {
	m.files = append(m.files, filePart{field: field, filename: filename, r: r})
}

// 1リクエスト分の指定
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	form   *multipartBody

	// 本文に message が無いときの文言
	fallback string
	// ステータスごとに固定したい文言（500 は 5xx 全体に効く）
	statusMessages map[int]string
}

// do は JSON を送って out にデコードする。out が nil なら本文は捨てる。
func (c *Client) do(ctx context.Context, r request, out any) error {
	body, _, err := c.roundTrip(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, r.method, r.path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, r request) ([]byte, string, error) {
	reqBody, contentType, err := encodeBody(r)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.buildURL(r.path, r.query), reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err))
		return nil, "", fmt.Errorf("%w: %s %s: %w", ErrUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.log.Debug("request done",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", newAPIError(resp.StatusCode, body, r)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func encodeBody(r request) (io.Reader, string, error) {
	switch {
	case r.form != nil:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range r.form.fields {
			if err := w.WriteField(f[0], f[1]); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
			}
		}
		for _, f := range r.form.files {
			part, err := w.CreateFormFile(f.field, f.filename)
			if err != nil {
				return nil, "", fmt.Errorf("create form file: %w", err)
			}
			if _, err := io.Copy(part, f.r); err != nil {
				return nil, "", fmt.Errorf("copy %s: %w", f.filename, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	case r.body != nil:
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, "", fmt.Errorf("marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
	return nil, "", nil
}

// パスのIDはエスケープしてつなぐ
func pathOf(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}

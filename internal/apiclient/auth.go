package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// /admin/register, /admin/login
type AdminAuthAPI struct {
	c *Client
}

func (a *AdminAuthAPI) Register(ctx context.Context, in AdminRegisterInput) (AdminAuth, error) {
	var out AdminAuth
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/admin/register",
		body:     in,
		fallback: "Registration failed",
	}, &out)
	if err != nil {
		return AdminAuth{}, err
	}
	return out, nil
}

// Login はトークンを返すだけ。Client への設定は呼び出し側で行う。
func (a *AdminAuthAPI) Login(ctx context.Context, email, password string) (AdminAuth, error) {
	var out AdminAuth
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/admin/login",
		body:     map[string]string{"email": email, "password": password},
		fallback: "Login failed",
	}, &out)
	if err != nil {
		return AdminAuth{}, err
	}
	if out.Token == "" {
		return AdminAuth{}, fmt.Errorf("%w: missing token", ErrInvalidResponse)
	}
	return out, nil
}

// /customers 系（登録・ログインと管理者向け一覧）
type CustomerAPI struct {
	c *Client
}

type customerAuthBody struct {
	Data     []Customer `json:"data"`
	Customer *Customer  `json:"customer"`
	Token    string     `json:"token"`
}

func (b customerAuthBody) result() (CustomerAuth, error) {
	switch {
	case b.Customer != nil:
		return CustomerAuth{Customer: *b.Customer, Token: b.Token}, nil
	case len(b.Data) > 0:
		return CustomerAuth{Customer: b.Data[0], Token: b.Token}, nil
	}
	return CustomerAuth{}, fmt.Errorf("%w: missing customer", ErrInvalidResponse)
}

func (a *CustomerAPI) Signup(ctx context.Context, in SignupInput) (CustomerAuth, error) {
	var body customerAuthBody
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/customers",
		body:     in,
		fallback: "Signup failed",
	}, &body)
	if err != nil {
		return CustomerAuth{}, err
	}
	return body.result()
}

func (a *CustomerAPI) Login(ctx context.Context, email, password string) (CustomerAuth, error) {
	var body customerAuthBody
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/customers/login",
		body:     map[string]string{"email": email, "password": password},
		fallback: "Login failed",
	}, &body)
	if err != nil {
		return CustomerAuth{}, err
	}
	return body.result()
}

type CustomerQuery struct {
	Page   int
	Limit  int
	Search string
}

func (a *CustomerAPI) List(ctx context.Context, q CustomerQuery) (CustomerPage, error) {
	query := pageQuery(q.Page, q.Limit)
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	r := request{
		method:   http.MethodGet,
		path:     "/customers",
		query:    query,
		fallback: "Failed to fetch customers",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return CustomerPage{Customers: []Customer{}, Error: errorText(err, r.fallback)}, err
	}
	customers, err := decodeList[Customer](raw, "customers")
	if err != nil {
		return CustomerPage{Customers: []Customer{}, Error: errorText(err, r.fallback)}, err
	}

	meta := decodeMeta(raw)
	return CustomerPage{
		Customers:   customers,
		Total:       meta.Total,
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.CurrentPage,
		Success:     true,
	}, nil
}

func (a *CustomerAPI) Get(ctx context.Context, id string) (Customer, error) {
	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodGet,
		path:     pathOf("customers", id),
		fallback: "Failed to fetch customer",
	}, &raw)
	if err != nil {
		return Customer{}, err
	}

	var cu Customer
	if err := decodeObject(raw, "customer", &cu); err != nil {
		return Customer{}, err
	}
	return cu, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"medkit/internal/apiclient"

	"github.com/shopspring/decimal"
)

func adminCommands() []command {
	return []command{
		{name: "products", usage: "list products", run: adminProducts},
		{name: "create-product", usage: "--name --category --brand name:price:stock ... [--image f ...]", run: adminCreateProduct},
		{name: "update-product", usage: "<productId> (same flags as create-product)", run: adminUpdateProduct},
		{name: "delete-product", usage: "<productId>", run: adminDeleteProduct},
		{name: "orders", usage: "[--status s] [--page n] [--limit n]", run: adminOrders},
		{name: "order", usage: "<orderId>", run: adminOrder},
		{name: "order-status", usage: "<orderId> <status>", run: adminOrderStatus},
		{name: "payments", usage: "[--status s] [--page n] [--limit n]", run: adminPayments},
		{name: "payment", usage: "<paymentId>", run: adminPayment},
		{name: "approve", usage: "<paymentId> [--notes text]", run: adminApprove},
		{name: "reject", usage: "<paymentId> --reason text [--notes text]", run: adminReject},
		{name: "proof", usage: "<paymentId> <out file>", run: adminProof},
		{name: "customers", usage: "[--search q] [--page n] [--limit n]", run: adminCustomers},
		{name: "customer", usage: "<customerId>", run: adminCustomer},
	}
}

func adminProducts(ctx context.Context, a *app, args []string) error {
	if _, err := a.parse(a.newFlags("products"), args, 0); err != nil {
		return err
	}
	out, err := a.client.AdminProducts.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

// name:price[:stock[:originalPrice]]
func parseBrand(v string) (apiclient.BrandInput, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 {
		return apiclient.BrandInput{}, fmt.Errorf("brand %q: want name:price[:stock[:originalPrice]]", v)
	}
	price, err := decimal.NewFromString(parts[1])
	if err != nil {
		return apiclient.BrandInput{}, fmt.Errorf("brand %q: invalid price", v)
	}
	b := apiclient.BrandInput{Name: parts[0], Price: price, OriginalPrice: price}
	if len(parts) > 2 {
		if b.Stock, err = strconv.Atoi(parts[2]); err != nil {
			return apiclient.BrandInput{}, fmt.Errorf("brand %q: invalid stock", v)
		}
	}
	if len(parts) > 3 {
		if b.OriginalPrice, err = decimal.NewFromString(parts[3]); err != nil {
			return apiclient.BrandInput{}, fmt.Errorf("brand %q: invalid original price", v)
		}
	}
	return b, nil
}

// フォームを組み立てる。戻り値の close で画像ファイルを閉じる。
func (a *app) productForm(name string, args []string, minArgs int) (apiclient.ProductForm, []string, func(), error) {
	fs := a.newFlags(name)
	f := apiclient.ProductForm{}
	fs.StringVar(&f.ProductName, "name", "", "product name")
	fs.StringVar(&f.Category, "category", "", "category")
	fs.StringVar(&f.Description, "description", "", "description")
	fs.BoolVar(&f.IsFeatured, "featured", false, "featured product")
	brands := fs.StringArray("brand", nil, "name:price[:stock[:originalPrice]] (repeatable)")
	images := fs.StringArray("image", nil, "image file (repeatable)")
	rest, err := a.parse(fs, args, minArgs)
	if err != nil {
		return f, nil, func() {}, err
	}

	for _, v := range *brands {
		b, err := parseBrand(v)
		if err != nil {
			return f, nil, func() {}, err
		}
		f.Brands = append(f.Brands, b)
	}

	var opened []*os.File
	closeAll := func() {
		for _, fh := range opened {
			_ = fh.Close()
		}
	}
	for _, path := range *images {
		fh, err := os.Open(path)
		if err != nil {
			closeAll()
			return f, nil, func() {}, err
		}
		opened = append(opened, fh)
		f.Images = append(f.Images, apiclient.ImageUpload{Filename: filepath.Base(path), Content: fh})
	}
	return f, rest, closeAll, nil
}

func adminCreateProduct(ctx context.Context, a *app, args []string) error {
	f, _, done, err := a.productForm("create-product", args, 0)
	if err != nil {
		return err
	}
	defer done()

	p, err := a.client.AdminProducts.Create(ctx, f)
	if err != nil {
		return err
	}
	return printJSON(a.out, p)
}

func adminUpdateProduct(ctx context.Context, a *app, args []string) error {
	f, rest, done, err := a.productForm("update-product", args, 1)
	if err != nil {
		return err
	}
	defer done()

	p, err := a.client.AdminProducts.Update(ctx, rest[0], f)
	if err != nil {
		return err
	}
	return printJSON(a.out, p)
}

func adminDeleteProduct(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("delete-product"), args, 1)
	if err != nil {
		return err
	}
	if err := a.client.AdminProducts.Delete(ctx, rest[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", rest[0])
	return nil
}

func adminOrders(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("orders")
	status := fs.String("status", "", "order status")
	page := fs.Int("page", 0, "page")
	limit := fs.Int("limit", 0, "limit")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	out, err := a.client.Orders.List(ctx, apiclient.OrderQuery{Page: *page, Limit: *limit, Status: apiclient.OrderStatus(*status)})
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func adminOrder(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("order"), args, 1)
	if err != nil {
		return err
	}
	o, err := a.client.Orders.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(a.out, o)
}

func adminOrderStatus(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("order-status"), args, 2)
	if err != nil {
		return err
	}
	o, err := a.client.Orders.UpdateStatus(ctx, rest[0], apiclient.OrderStatus(rest[1]))
	if err != nil {
		return err
	}
	return printJSON(a.out, o)
}

func adminPayments(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("payments")
	status := fs.String("status", "", "payment status")
	page := fs.Int("page", 0, "page")
	limit := fs.Int("limit", 0, "limit")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	out, err := a.client.Payments.List(ctx, apiclient.PaymentQuery{Page: *page, Limit: *limit, Status: apiclient.PaymentStatus(*status)})
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func adminPayment(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("payment"), args, 1)
	if err != nil {
		return err
	}
	s, err := a.client.Payments.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(a.out, s)
}

func adminApprove(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("approve")
	notes := fs.String("notes", "", "admin notes")
	rest, err := a.parse(fs, args, 1)
	if err != nil {
		return err
	}
	s, err := a.client.Payments.Approve(ctx, rest[0], *notes)
	if err != nil {
		return err
	}
	return printJSON(a.out, s)
}

func adminReject(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("reject")
	reason := fs.String("reason", "", "rejection reason")
	notes := fs.String("notes", "", "admin notes")
	rest, err := a.parse(fs, args, 1)
	if err != nil {
		return err
	}
	s, err := a.client.Payments.Reject(ctx, rest[0], *reason, *notes)
	if err != nil {
		return err
	}
	return printJSON(a.out, s)
}

func adminProof(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("proof"), args, 2)
	if err != nil {
		return err
	}
	data, contentType, err := a.client.Payments.Proof(ctx, rest[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(rest[1], data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s (%s, %d bytes)\n", rest[1], contentType, len(data))
	return nil
}

func adminCustomers(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("customers")
	search := fs.String("search", "", "name or email")
	page := fs.Int("page", 0, "page")
	limit := fs.Int("limit", 0, "limit")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	out, err := a.client.Customers.List(ctx, apiclient.CustomerQuery{Page: *page, Limit: *limit, Search: *search})
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func adminCustomer(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("customer"), args, 1)
	if err != nil {
		return err
	}
	c, err := a.client.Customers.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(a.out, c)
}

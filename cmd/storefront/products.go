package main

import (
	"context"
	"errors"

	"medkit/internal/apiclient"
)

func productCommands() []command {
	return []command{
		{name: "list", usage: "[--category c] [--page n] [--limit n]", run: listProducts},
		{name: "get", usage: "<productId>", run: getProduct},
		{name: "featured", usage: "[--limit n]", run: featuredProducts},
		{name: "search", usage: "<query> [--page n] [--limit n]", run: searchProducts},
		{name: "reviews", usage: "<productId>", run: productReviews},
		{name: "review", usage: "<productId> --rating 1-5 --comment text", run: leaveReview},
	}
}

func listProducts(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("list")
	category := fs.String("category", "", "category")
	page := fs.Int("page", 0, "page")
	limit := fs.Int("limit", 0, "limit")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	var (
		out apiclient.ProductList
		err error
	)
	if *category != "" {
		out, err = a.client.Products.ByCategory(ctx, *category, *page, *limit)
	} else {
		out, err = a.client.Products.List(ctx)
	}
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func getProduct(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("get"), args, 1)
	if err != nil {
		return err
	}
	p, err := a.client.Products.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(a.out, p)
}

func featuredProducts(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("featured")
	limit := fs.Int("limit", 8, "limit")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	out, err := a.client.Products.Featured(ctx, *limit)
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func searchProducts(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("search")
	page := fs.Int("page", 0, "page")
	limit := fs.Int("limit", 0, "limit")
	rest, err := a.parse(fs, args, 1)
	if err != nil {
		return err
	}
	out, err := a.client.Products.Search(ctx, rest[0], *page, *limit)
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func productReviews(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("reviews"), args, 1)
	if err != nil {
		return err
	}
	out, err := a.client.Products.Reviews(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func leaveReview(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("review")
	in := apiclient.ReviewInput{}
	fs.IntVar(&in.Rating, "rating", 0, "rating 1-5")
	fs.StringVar(&in.Comment, "comment", "", "comment")
	rest, err := a.parse(fs, args, 1)
	if err != nil {
		return err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return errors.New("--rating must be between 1 and 5")
	}

	customerID, err := a.customerID()
	if err != nil {
		return err
	}
	rv, err := a.client.Products.LeaveReview(ctx, customerID, rest[0], in)
	if err != nil {
		return err
	}
	return printJSON(a.out, rv)
}

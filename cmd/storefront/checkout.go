package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"medkit/internal/apiclient"

	"github.com/shopspring/decimal"
)

func checkoutCommands() []command {
	return []command{
		{name: "create", usage: "[--shipping-fee n] [--notes text]", run: checkoutCreate},
		{name: "summary", usage: "checkout summary for the current cart", run: checkoutSummary},
		{name: "upload", usage: "<proof file>", run: checkoutUpload},
	}
}

func deliveryCommands() []command {
	return []command{
		{name: "add", usage: "--full-name --phone --address --city --state [--session id]", run: deliveryAdd},
	}
}

// 現在のカートのセッションID
func (a *app) cartSession(ctx context.Context) (string, string, error) {
	s, err := a.cart(ctx)
	if err != nil {
		return "", "", err
	}
	defer s.Close()

	customerID, _ := a.customerID()
	if s.SessionID() == "" {
		return "", "", errors.New("cart has no session yet")
	}
	return customerID, s.SessionID(), nil
}

func checkoutCreate(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("create")
	fee := fs.String("shipping-fee", "0", "shipping fee")
	notes := fs.String("notes", "", "notes for the store")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	shipping, err := decimal.NewFromString(*fee)
	if err != nil {
		return errors.New("--shipping-fee must be a number")
	}

	customerID, sessionID, err := a.cartSession(ctx)
	if err != nil {
		return err
	}
	s, err := a.client.Checkout.CreateSession(ctx, customerID, sessionID, apiclient.CheckoutInput{ShippingFee: shipping, Notes: *notes})
	if err != nil {
		return err
	}
	return printJSON(a.out, s)
}

func checkoutSummary(ctx context.Context, a *app, args []string) error {
	if _, err := a.parse(a.newFlags("summary"), args, 0); err != nil {
		return err
	}
	customerID, sessionID, err := a.cartSession(ctx)
	if err != nil {
		return err
	}
	out, err := a.client.Checkout.Summary(ctx, customerID, sessionID)
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

func checkoutUpload(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("upload"), args, 1)
	if err != nil {
		return err
	}
	customerID, err := a.customerID()
	if err != nil {
		return err
	}

	f, err := os.Open(rest[0])
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := a.client.Checkout.UploadPaymentProof(ctx, customerID, filepath.Base(rest[0]), f)
	if err != nil {
		return err
	}
	return printJSON(a.out, s)
}

func deliveryAdd(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("add")
	d := apiclient.DeliveryDetails{}
	session := fs.String("session", "", "checkout or cart session id")
	fs.StringVar(&d.FullName, "full-name", "", "recipient name")
	fs.StringVar(&d.Phone, "phone", "", "phone")
	fs.StringVar(&d.Address, "address", "", "street address")
	fs.StringVar(&d.City, "city", "", "city")
	fs.StringVar(&d.State, "state", "", "state")
	fs.StringVar(&d.ZipCode, "zip", "", "zip code")
	fs.StringVar(&d.Landmark, "landmark", "", "landmark")
	fs.StringVar(&d.DeliveryInstructions, "instructions", "", "delivery instructions")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	customerID, err := a.customerID()
	if err != nil {
		return err
	}
	out, err := a.client.Delivery.Add(ctx, customerID, *session, d)
	if err != nil {
		return err
	}
	return printJSON(a.out, out)
}

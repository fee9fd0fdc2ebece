package main

import (
	"context"
	"fmt"
	"strconv"

	"medkit/internal/cartsync"
)

func cartCommands() []command {
	return []command{
		{name: "show", usage: "print the cart", run: cartShow},
		{name: "add", usage: "<productId> <brand> [qty]", run: cartAdd},
		{name: "update", usage: "<productId> <brand> <qty>", run: cartUpdate},
		{name: "remove", usage: "<productId> <brand>", run: cartRemove},
		{name: "clear", usage: "remove every item", run: cartClear},
	}
}

// サーバーから読み込んだ同期器を返す
func (a *app) cart(ctx context.Context) (*cartsync.Synchronizer, error) {
	customerID, err := a.customerID()
	if err != nil {
		return nil, err
	}
	s := cartsync.New(a.client.Cart, cartsync.NewCustomerSession(customerID), termNotifier{w: a.errOut}, cartsync.Options{
		RetryDelay: a.cfg.RetryDelay,
		ErrorTTL:   a.cfg.ErrorTTL,
		Logger:     a.log,
	})
	if err := s.Refresh(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func cartShow(ctx context.Context, a *app, args []string) error {
	if _, err := a.parse(a.newFlags("show"), args, 0); err != nil {
		return err
	}
	s, err := a.cart(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	printCart(a.out, s)
	return nil
}

// 商品を引いて在庫と価格をそろえてから追加する
func cartAdd(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("add"), args, 2)
	if err != nil {
		return err
	}
	qty := 1
	if len(rest) > 2 {
		if qty, err = strconv.Atoi(rest[2]); err != nil {
			return fmt.Errorf("invalid quantity %q", rest[2])
		}
	}

	p, err := a.client.Products.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	item := cartsync.CartItem{ProductID: p.ID, BrandName: rest[1], Name: p.ProductName}
	found := false
	for _, b := range p.Brands {
		if b.Name == rest[1] {
			item.UnitPrice = b.Price
			item.AvailableStock = b.Stock
			found = true
		}
	}
	if !found {
		return fmt.Errorf("brand %q not found on %s", rest[1], p.ProductName)
	}
	if len(p.ProductImages) > 0 {
		item.ImageURL = p.ProductImages[0]
	}

	s, err := a.cart(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AddItem(ctx, item, qty); err != nil {
		return err
	}
	printCart(a.out, s)
	return nil
}

func cartUpdate(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("update"), args, 3)
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(rest[2])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", rest[2])
	}

	s, err := a.cart(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.UpdateQuantity(ctx, rest[0], rest[1], qty); err != nil {
		return err
	}
	printCart(a.out, s)
	return nil
}

func cartRemove(ctx context.Context, a *app, args []string) error {
	rest, err := a.parse(a.newFlags("remove"), args, 2)
	if err != nil {
		return err
	}

	s, err := a.cart(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.RemoveItem(ctx, rest[0], rest[1]); err != nil {
		return err
	}
	printCart(a.out, s)
	return nil
}

func cartClear(ctx context.Context, a *app, args []string) error {
	if _, err := a.parse(a.newFlags("clear"), args, 0); err != nil {
		return err
	}

	s, err := a.cart(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Clear(ctx); err != nil {
		return err
	}
	printCart(a.out, s)
	return nil
}

package main

import (
	"context"
	"fmt"

	"medkit/internal/apiclient"
)

func authCommands() []command {
	return []command{
		{name: "login", usage: "customer login: --email --password", run: customerLogin},
		{name: "signup", usage: "customer signup: --name --email --password [--phone]", run: customerSignup},
		{name: "admin-login", usage: "admin login: --email --password", run: adminLogin},
		{name: "admin-register", usage: "admin register: --name --email --password [--phone]", run: adminRegister},
	}
}

func customerLogin(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	out, err := a.client.Customers.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return printAuth(a, out.Customer.ID, out.Token)
}

func customerSignup(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("signup")
	in := apiclient.SignupInput{}
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Address.City, "city", "", "city")
	fs.StringVar(&in.Address.Country, "country", "", "country")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	out, err := a.client.Customers.Signup(ctx, in)
	if err != nil {
		return err
	}
	return printAuth(a, out.Customer.ID, out.Token)
}

func adminLogin(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("admin-login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	out, err := a.client.AdminAuth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return printAuth(a, out.User.ID, out.Token)
}

func adminRegister(ctx context.Context, a *app, args []string) error {
	fs := a.newFlags("admin-register")
	in := apiclient.AdminRegisterInput{}
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.PhoneNumber, "phone", "", "phone number")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	in.ConfirmPassword = in.Password

	out, err := a.client.AdminAuth.Register(ctx, in)
	if err != nil {
		return err
	}
	return printAuth(a, out.User.ID, out.Token)
}

// シェルで eval できる形で出す
func printAuth(a *app, id, token string) error {
	fmt.Fprintf(a.out, "export MEDKIT_TOKEN=%s\n", token)
	fmt.Fprintf(a.out, "export MEDKIT_CUSTOMER_ID=%s\n", id)
	return nil
}

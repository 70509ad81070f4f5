package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/session"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
)

func (c *cli) reportStart(res session.StartResult) {
	fmt.Fprintf(c.out, "signed in as %s <%s>\n", res.User.Name, res.User.Email)
	if res.Merge.Replayed > 0 {
		fmt.Fprintf(c.out, "moved %d guest cart item(s) to your account\n", res.Merge.Replayed)
	}
	if res.CartErr != nil {
		fmt.Fprintln(c.out, "cart sync incomplete:", pkgerrors.UserMessage(res.CartErr))
	}
	if res.FavoritesErr != nil {
		fmt.Fprintln(c.out, "favorites unavailable:", pkgerrors.UserMessage(res.FavoritesErr))
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := c.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := c.sf.Session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	c.reportStart(res)
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := c.flags("register")
	in := api.RegisterInput{}
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Phone, "phone", "", "10 digit phone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := c.sf.Session.Register(ctx, in)
	if err != nil {
		return err
	}
	c.reportStart(res)
	return nil
}

func (c *cli) logout(ctx context.Context, _ []string) error {
	if !c.sf.Session.IsAuthenticated() {
		fmt.Fprintln(c.out, "not signed in")
		return nil
	}
	c.sf.Session.Logout(ctx)
	fmt.Fprintf(c.out, "signed out; %d item(s) kept in cart\n", c.sf.Cart.Count())
	return nil
}

func (c *cli) whoami(_ context.Context, _ []string) error {
	user, ok := c.sf.Session.User()
	if !ok {
		fmt.Fprintln(c.out, "guest")
		return nil
	}
	fmt.Fprintf(c.out, "%s <%s>\n", user.Name, user.Email)
	return nil
}

func (c *cli) profile(ctx context.Context, args []string) error {
	fs := c.flags("profile")
	name := fs.String("name", "", "new display name")
	phone := fs.String("phone", "", "new phone")
	image := fs.String("image", "", "new profile image url")
	if err := fs.Parse(args); err != nil {
		return err
	}
	update := api.ProfileUpdate{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.Name = name
		case "phone":
			update.Phone = phone
		case "image":
			update.ProfileImage = image
		}
	})
	if update == (api.ProfileUpdate{}) {
		return c.whoami(ctx, nil)
	}
	user, err := c.sf.Session.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "profile updated: %s <%s> %s\n", user.Name, user.Email, user.Phone)
	return nil
}

func (c *cli) addresses(ctx context.Context, _ []string) error {
	if !c.sf.Session.IsAuthenticated() {
		return pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to see saved addresses")
	}
	list, err := c.sf.API.Addresses(ctx)
	if err != nil {
		return err
	}
	w := c.table()
	for _, a := range list {
		def := ""
		if a.IsDefault {
			def = "default"
		}
		fmt.Fprintf(w, "%s\t%s\t%s, %s, %s %s\t%s\n", a.ID, a.Label, a.Line1, a.City, a.State, a.PostalCode, def)
	}
	return w.Flush()
}

// resetPassword requests a code with -email, or sets the password with
// -token and -password.
func (c *cli) resetPassword(ctx context.Context, args []string) error {
	fs := c.flags("reset-password")
	email := fs.String("email", "", "account email")
	token := fs.String("token", "", "reset code")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token != "" {
		if err := c.sf.Session.ResetPassword(ctx, *token, *password); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "password updated; sign in with the new password")
		return nil
	}
	if err := c.sf.Session.RequestPasswordReset(ctx, *email); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "if the account exists, a reset code is on its way")
	return nil
}

func (c *cli) changePassword(ctx context.Context, args []string) error {
	fs := c.flags("change-password")
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.sf.Session.ChangePassword(ctx, *current, *next); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "password changed")
	return nil
}

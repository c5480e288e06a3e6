package cli

import (
	"context"
)

// getSimpleText is an indirection used to facilitate testing.
var getSimpleText = GetSimpleText

// Signup prompts for an email and a name and finds or creates the account.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	u, err := a.session.Signup(ctx, email, name)
	if err != nil {
		return a.writeFail(err)
	}
	a.printf("Welcome, %s!\n", u.DisplayName())
	return nil
}

// Login prompts for an email and signs in. The backend has no passwords.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	u, err := a.session.Login(ctx, email)
	if err != nil {
		return a.writeFail(err)
	}
	a.printf("Welcome back, %s!\n", u.DisplayName())
	return nil
}

// Logout forgets the stored session and all cached data.
func (a *App) Logout(ctx context.Context) error {
	a.switchView(ctx, viewNone, "")
	if err := a.session.Logout(ctx); err != nil {
		return a.writeFail(err)
	}
	a.println("Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u, err := a.session.Require()
	if err != nil {
		return a.writeFail(err)
	}
	a.printf("%s <%s> (%s)\n", u.DisplayName(), u.Email, u.ID)
	if at, ok := a.session.SignedInAt(ctx); ok {
		a.printf("Signed in since %s\n", at.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

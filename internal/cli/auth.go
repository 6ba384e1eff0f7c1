package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/metgo3d/fieldsync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and authenticates against the
// remote API. The session lands in the encrypted store tier, so it
// survives restarts.
//
// When the server cannot be reached the login is refused rather than
// faked: reads still work offline through the cache, but a credential
// check needs the network. The password byte slice is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.gateway.Login(ctx, email, string(password))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrOffline):
			fmt.Println("Cannot log in while offline.")
		case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrRemote):
			fmt.Println("Login failed, check your credentials.")
		default:
			fmt.Println("Login failed.")
		}
		a.log.Warn(ctx, "login failed", "err", err)
		return err
	}

	fmt.Printf("Welcome, %s!\n", user.Name)
	return nil
}

// Logout forgets the local session. No remote call is made.
func (a *App) Logout(ctx context.Context) error {
	if err := a.gateway.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout failed", "err", err)
		fmt.Println("Could not remove the local session.")
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

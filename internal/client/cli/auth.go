package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// roleArg parses an optional role argument, defaulting to patient.
func roleArg(args []string) (models.Role, error) {
	if len(args) == 0 {
		return models.RolePatient, nil
	}
	return models.ParseRole(args[0])
}

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// Register prompts for the profile fields and a password, then registers
// and logs in. Validation failures are returned with every violated rule.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context, args []string) error {
	role, err := roleArg(args)
	if err != nil {
		return err
	}

	var in models.RegisterInput
	if in.Name, err = a.ask("Enter full name"); err != nil {
		return err
	}
	if in.Email, err = a.ask("Enter email"); err != nil {
		return err
	}
	if in.Phone, err = a.ask("Enter phone (optional)"); err != nil {
		return err
	}
	if role == models.RoleDoctor {
		if in.Specialization, err = a.ask("Enter specialization (optional)"); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	u, err := a.session.Register(ctx, in, role)
	if err != nil {
		return err
	}

	printlnFn("Registered with id", u.ID)
	return nil
}

// findProfile resolves a directory id, falling back to a case-insensitive
// email match.
func (a *App) findProfile(ctx context.Context, key string) (models.User, error) {
	u, err := a.session.Profile(ctx, key)
	if err == nil || !errors.Is(err, common.ErrorNotFound) {
		return u, err
	}

	all, err := a.session.Profiles(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, p := range all {
		if strings.EqualFold(p.Email, key) {
			return p, nil
		}
	}
	return models.User{}, fmt.Errorf("profile %q: %w", key, common.ErrorNotFound)
}

// Login selects a directory profile by id or email and logs in with it.
// The role defaults to the profile's own role.
func (a *App) Login(ctx context.Context) error {
	key, err := a.ask("Enter profile id or email")
	if err != nil {
		return err
	}

	u, err := a.findProfile(ctx, key)
	if err != nil {
		return err
	}

	answer, err := a.ask(fmt.Sprintf("Enter role [%s]", u.Role))
	if err != nil {
		return err
	}
	role := u.Role
	if answer != "" {
		if role, err = models.ParseRole(answer); err != nil {
			return err
		}
	}

	_, err = a.session.Login(ctx, u, role)
	return err
}

// Demo logs in with the seeded demo profile for the role.
func (a *App) Demo(ctx context.Context, args []string) error {
	role, err := roleArg(args)
	if err != nil {
		return err
	}

	_, err = a.session.LoginDemo(ctx, role)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w (run 'seed' first)", err)
	}
	return err
}

func (a *App) Seed(ctx context.Context) error {
	if err := a.session.CreateDemoUsers(ctx); err != nil {
		return err
	}
	printlnFn("Demo users created")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Passwd changes the current user's password. The current password is
// asked for but the session manager does not verify it.
func (a *App) Passwd(ctx context.Context) error {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	return a.session.ChangePassword(ctx, string(current), string(next))
}

// Reset requests password reset instructions for an email address.
func (a *App) Reset(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	return a.session.ResetPassword(ctx, email)
}

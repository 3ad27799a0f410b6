package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/client/services"
)

func (a *App) WhoAmI(ctx context.Context) error {
	u, ok := a.session.CurrentUser()
	if !ok {
		printlnFn("Not logged in")
		return nil
	}

	printlnFn("ID:        ", u.ID)
	printlnFn("Name:      ", u.Name)
	printlnFn("Email:     ", u.Email)
	printlnFn("Role:      ", u.Role)
	if u.Phone != "" {
		printlnFn("Phone:     ", u.Phone)
	}
	if u.Specialization != "" {
		printlnFn("Specialty: ", u.Specialization)
	}
	printlnFn("Logged in: ", u.LoginTime.Format(time.RFC3339))
	if !u.LastActivity.IsZero() {
		printlnFn("Active at: ", u.LastActivity.Format(time.RFC3339))
	}
	if u.PasswordLastChanged != nil {
		printlnFn("Password:  ", "changed", u.PasswordLastChanged.Format(time.RFC3339))
	}
	printlnFn("Session:   ", u.SessionID)
	return nil
}

type promptField struct {
	label string
	cur   string
	dst   **string
}

// Update asks for each profile field; an empty answer keeps the value.
func (a *App) Update(ctx context.Context) error {
	u, ok := a.session.CurrentUser()
	if !ok {
		printlnFn("Not logged in")
		return nil
	}

	var upd models.ProfileUpdate
	fields := []promptField{
		{"Name", u.Name, &upd.Name},
		{"Email", u.Email, &upd.Email},
		{"Phone", u.Phone, &upd.Phone},
	}
	if u.Role == models.RoleDoctor {
		fields = append(fields, promptField{"Specialization", u.Specialization, &upd.Specialization})
	}

	for _, f := range fields {
		answer, err := a.ask(fmt.Sprintf("%s [%s] (Enter to keep)", f.label, f.cur))
		if err != nil {
			return err
		}
		*f.dst = optional(answer)
	}

	if upd.IsEmpty() {
		printlnFn("Nothing to update")
		return nil
	}

	_, err := a.session.UpdateProfile(ctx, upd)
	return err
}

func (a *App) Extend(ctx context.Context) error {
	if err := a.session.ExtendSession(ctx); err != nil {
		return err
	}
	printlnFn("Session extended")
	return nil
}

func (a *App) Check(ctx context.Context) error {
	if a.session.CheckSessionExpiry(ctx) {
		printlnFn("Session is valid")
	}
	return nil
}

func (a *App) Routes(ctx context.Context) error {
	routes := services.RoutesFor(a.session.GetUserRole())
	if len(routes) == 0 {
		printlnFn("No routes available")
		return nil
	}
	printlnFn("Routes:", strings.Join(routes, ", "))
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: open <route>")
		return nil
	}

	route := args[0]
	if !a.session.CanAccessRoute(route) {
		printlnFn("Access denied:", route)
		return nil
	}
	printlnFn("Opening", route)
	return nil
}

func (a *App) Perms(ctx context.Context) error {
	perms := a.session.GetUserPermissions()
	if len(perms) == 0 {
		printlnFn("No permissions")
		return nil
	}
	for _, p := range perms {
		printlnFn(" -", p)
	}
	return nil
}

func (a *App) Can(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: can <permission>")
		return nil
	}
	if a.session.HasPermission(args[0]) {
		printlnFn("yes")
	} else {
		printlnFn("no")
	}
	return nil
}

func (a *App) Profiles(ctx context.Context) error {
	users, err := a.session.Profiles(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		printlnFn("No profiles")
		return nil
	}

	for _, u := range users {
		line := fmt.Sprintf("%-38s %-8s %-24s %s", u.ID, u.Role, u.Email, u.Name)
		if u.IsDemo {
			line += " (demo)"
		}
		printlnFn(line)
	}
	return nil
}

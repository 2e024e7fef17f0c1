package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/centralhub/hub-core/internal/domain/model"
)

func runCreateUser(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := fs.String("email", "", "user email (required)")
	fullName := fs.String("full-name", "", "display name")
	role := fs.String("role", string(model.RoleViewer), "primary role (administrator, manager, operator, viewer)")
	moduleAccess := fs.String("modules", "", "comma-delimited module names for direct access")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("-email is required")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	var modules []string
	if *moduleAccess != "" {
		for _, name := range strings.Split(*moduleAccess, ",") {
			if name = strings.TrimSpace(name); name != "" {
				modules = append(modules, name)
			}
		}
	}

	services, cleanup, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := services.Users.Create(ctx.Ctx, model.CreateUserRequest{
		Email:        *email,
		Password:     password,
		FullName:     *fullName,
		Role:         model.RoleName(*role),
		ModuleAccess: modules,
	})
	if err != nil {
		return err
	}

	ctx.Logger.InfoContext(ctx.Ctx, "user created", "id", user.ID, "email", user.Email, "role", user.Role)
	return nil
}

// readPassword reads one line from stdin so the credential never lands in
// shell history or process listings.
func readPassword() (string, error) {
	if err := writef(os.Stderr, "password: "); err != nil {
		return "", err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}

func runListUsers(ctx *commandContext, _ []string) error {
	services, cleanup, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	users, err := services.Users.List(ctx.Ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tEMAIL\tROLE\tACTIVE\tMODULES\n"); err != nil {
		return err
	}
	for i := range users {
		u := &users[i]
		if err := writef(tw, "%s\t%s\t%s\t%t\t%s\n",
			u.ID, u.Email, u.Role, u.IsActive, strings.Join(u.ModuleAccess, ",")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/trezcool/feedesk/core/auth"
)

func (cli *commandLine) loginCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	email := fs.String("email", "", "The account e-mail. The password will be prompted next.")
	role := fs.String("role", auth.RoleAdmin, "The area to log into: admin or accountant.")

	return func(ctx context.Context) error {
		if *email == "" {
			return usageErr(fs)
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			return usageErr(fs)
		}

		sess, err := cli.mgr.Login(ctx, auth.Credentials{Email: *email, Password: string(pwd), Role: *role})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Logged in as %s (%s)\n", sess.User.Name, sess.Role)
		return nil
	}
}

func (cli *commandLine) logoutCmd(_ *flag.FlagSet) func(ctx context.Context) error {
	return func(context.Context) error {
		if err := cli.mgr.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Logged out")
		return nil
	}
}

func (cli *commandLine) whoamiCmd(_ *flag.FlagSet) func(ctx context.Context) error {
	return func(context.Context) error {
		sess, err := cli.mgr.Require()
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s <%s>\nrole: %s\n", sess.User.Name, sess.User.Email, sess.Role)
		if sess.User.CampusID != "" {
			fmt.Fprintf(cli.out, "campus: %s\n", sess.User.CampusID)
		}
		return nil
	}
}

// campusOf returns the campus a command works on: accountants are pinned to their own,
// admins must name one.
func (cli *commandLine) campusOf(fs *flag.FlagSet, given string) (string, error) {
	sess, err := cli.mgr.Require()
	if err != nil {
		return "", err
	}
	switch sess.Role {
	case auth.RoleAccountant:
		if sess.User.CampusID == "" {
			return "", errNoCampus
		}
		return sess.User.CampusID, nil
	case auth.RoleAdmin:
		if given == "" {
			return "", usageErr(fs)
		}
		return given, nil
	}
	return "", auth.ErrUnknownRole
}

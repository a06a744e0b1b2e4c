package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(ctx context.Context, uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname)
	email = core.CleanString(email, true /* lower */)

	if err := cli.validatePassword(email, uname, pwd); err != nil {
		return err
	}

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	switch errors.Cause(err) {
	case nil:
	case user.ErrNotFound:
		usr = user.User{Email: email, Role: user.RoleStudent}
	default:
		return err
	}
	usr.Username = uname
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrSvc.Save(ctx, usr)
	return err
}

// validatePassword applies the signup password policy.
func (cli *commandLine) validatePassword(email, uname, pwd string) error {
	cp := user.ChangePassword{Email: email, Username: uname, Password: pwd}
	return cp.Validate(cli.validate)
}

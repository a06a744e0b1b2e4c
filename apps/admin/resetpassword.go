package main

import (
	"context"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	usr, err := cli.usrSvc.GetByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err = cli.validatePassword(usr.Email, usr.Username, pwd); err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrSvc.Save(ctx, usr)
	return err
}

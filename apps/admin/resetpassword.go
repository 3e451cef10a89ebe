package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core/user"
)

func (cli *commandLine) resetPassword(email, pwd, confirm string) error {
	usr, err := cli.usrSvc.ResetPassword(context.Background(), user.ResetPassword{
		Email:           email,
		Password:        pwd,
		PasswordConfirm: confirm,
	})
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.ErrNotFound
		}
		return describe(err, "resetting password")
	}

	fmt.Printf("Password of %s reset\n", usr.Email)
	return nil
}

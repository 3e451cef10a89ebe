package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd, confirm string, isAdmin bool) error {
	usr, err := cli.usrSvc.AddUser(context.Background(), user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: confirm,
		IsAdmin:         isAdmin,
	})
	if err != nil {
		return describe(err, "adding user")
	}

	fmt.Printf("User %s <%s> saved (admin: %t)\n", usr.Name, usr.Email, cli.usrSvc.IsAdmin(usr))
	return nil
}

// describe turns field validation failures into one readable error.
func describe(err error, msg string) error {
	fldErrs := core.FieldErrors(err)
	if len(fldErrs) == 0 {
		return errors.Wrap(err, msg)
	}
	for _, fld := range []string{"name", "email", "password", "password_confirm"} {
		if fErr, ok := fldErrs[fld]; ok {
			return errors.Errorf("%s: %s", msg, fErr)
		}
	}
	for _, fErr := range fldErrs {
		return errors.Errorf("%s: %s", msg, fErr)
	}
	return errors.Wrap(err, msg)
}

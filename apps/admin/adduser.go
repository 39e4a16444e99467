package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type newUserArgs struct {
	name, uname, email, pwd string
	roles                   []string
	isAdmin                 bool
}

// addUser updates or creates a user.User
func (cli *commandLine) addUser(args newUserArgs) (user.User, error) {
	ctx := context.Background()
	uname := core.CleanString(args.uname, true /* lower */)
	email := core.CleanString(args.email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: []string{uname, email}})
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return user.User{}, err
		}
		usr = user.User{
			Username: uname,
			Email:    email,
			Roles:    []string{user.RoleStudent},
		}
	}
	if name := core.CleanString(args.name); name != "" {
		usr.Name = name
	}
	if usr.Name == "" {
		usr.Name = usr.Username
	}
	for _, r := range args.roles {
		if user.RolePriority(r) == 0 {
			return user.User{}, errors.Errorf("unknown role %q", r)
		}
	}
	if len(args.roles) > 0 {
		usr.Roles = args.roles
	}
	if args.isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.SetActive(true)
	if err := usr.SetPassword(args.pwd); err != nil {
		return user.User{}, err
	}
	return cli.usrRepo.UpdateOrCreateUser(ctx, usr)
}

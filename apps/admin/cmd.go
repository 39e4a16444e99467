package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db           *sqlx.DB
	usrRepo      user.Repository
	challengeSvc *challenge.Service
	out          io.Writer
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

// promptPassword reads a password without echoing it.
func (cli *commandLine) promptPassword() (string, error) {
	cli.printf("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "GVCS CS Club administration",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	root.AddCommand(
		cli.migrateCmd(),
		cli.addUserCmd(),
		cli.resetPasswordCmd(),
		cli.importUsersCmd(),
		cli.todayCmd(),
	)
	return root
}

// run executes the command line; args[0] is the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if strings.HasPrefix(err.Error(), "unknown command") {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) resetPasswordCmd() *cobra.Command {
	var uname string
	cmd := &cobra.Command{
		Use:   "resetpassword",
		Short: "Reset a user's password; the password is prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uname == "" {
				_ = cmd.Usage()
				return errHelp
			}
			pwd, err := cli.promptPassword()
			if err != nil {
				return err
			}
			if pwd == "" {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.resetPassword(uname, pwd)
		},
	}
	cmd.Flags().StringVarP(&uname, "username", "u", "", "The user's username or email")
	return cmd
}

func (cli *commandLine) addUserCmd() *cobra.Command {
	var (
		name, uname, email string
		roles              []string
		isAdmin            bool
	)
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user, or update the one with the same username or email; the password is prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uname == "" && email == "" {
				_ = cmd.Usage()
				return errHelp
			}
			pwd, err := cli.promptPassword()
			if err != nil {
				return err
			}
			if pwd == "" {
				_ = cmd.Usage()
				return errHelp
			}
			usr, err := cli.addUser(newUserArgs{
				name:    name,
				uname:   uname,
				email:   email,
				pwd:     pwd,
				roles:   roles,
				isAdmin: isAdmin,
			})
			if err != nil {
				return err
			}
			cli.printf("saved user %s (%s)\n", usr.Username, usr.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&uname, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.Flags().StringSliceVarP(&roles, "role", "r", nil, "Role(s), e.g. student: or teacher:")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Grant every role")
	return cmd
}

func (cli *commandLine) importUsersCmd() *cobra.Command {
	conf := defaultImportConfig()
	cmd := &cobra.Command{
		Use:   "importusers FILE",
		Short: "Import a roster of students from an .xlsx or .csv file (name, username, email[, role])",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.FilePath = args[0]
			res, err := cli.importUsers(cmd.Context(), conf)
			if err != nil {
				return err
			}
			cli.printf("processed %d rows: %d created, %d skipped\n", res.Processed, res.Created, res.Skipped)
			for _, e := range res.Errors {
				cli.printf("  %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&conf.SheetName, "sheet", conf.SheetName, "Sheet to import (xlsx only)")
	cmd.Flags().IntVar(&conf.StartRow, "start-row", conf.StartRow, "First row to import, 1-based")
	cmd.Flags().StringVar(&conf.DefaultRole, "role", conf.DefaultRole, "Role of rows without one")
	return cmd
}

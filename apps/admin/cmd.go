package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errNoSQLDatabase = errors.New("migrations only apply to the postgres engine")
)

type commandLine struct {
	usrSvc  *user.Service
	clubSvc *club.Service
	db      *sql.DB // nil unless the engine is postgres
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL -name NAME [-admin]  - create or update a user; the password is prompted")
	fmt.Println("  resetpassword -email EMAIL                - reset a user's password")
	fmt.Println("  importclubs -file FILE                    - create or replace the clubs listed in a TOML file")
	fmt.Println("  migrate up|up-by-one|up-to N|down|down-to N|redo - manage the postgres schema")
}

// promptPassword reads a password and its confirmation without echoing them.
func promptPassword() (string, string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	if len(pwd) == 0 {
		return "", "", nil
	}

	fmt.Print("Confirm password:")
	confirm, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	return string(pwd), string(confirm), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email, used to log in. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant admin rights.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	importClubsCmd := flag.NewFlagSet("importclubs", flag.ContinueOnError)
	importClubsFile := importClubsCmd.String("file", "", "Path of the TOML file listing the clubs.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, confirm, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd, confirm, *addUserAdmin)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, confirm, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd, confirm)

	case "importclubs":
		if err := importClubsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importClubsFile == "" {
			importClubsCmd.Usage()
			return errHelp
		}
		f, err := os.Open(*importClubsFile)
		if err != nil {
			return err
		}
		defer f.Close()
		return cli.importClubs(f)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

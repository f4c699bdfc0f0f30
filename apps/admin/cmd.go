package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/zawadi/shule/core/staff"
	"github.com/zawadi/shule/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sql.DB
	staffRepo  staff.Repository
	studentSvc *student.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a database migration command (up, down, status, ...)")
	fmt.Println("  addstaff -username USERNAME -email EMAIL [-admin] - update or create a staff member")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset a staff member's password")
	fmt.Println("  importstudents -file PATH - bulk import students from a spreadsheet")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStaffCmd := flag.NewFlagSet("addstaff", flag.ExitOnError)
	addStaffUname := addStaffCmd.String("username", "", "The staff member's username. The password will be prompted next.")
	addStaffEmail := addStaffCmd.String("email", "", "The staff member's email. The password will be prompted next.")
	addStaffIsAdmin := addStaffCmd.Bool("admin", false, "Grant all admin roles.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The staff member's username or email. The password will be prompted next.")

	importStudentsCmd := flag.NewFlagSet("importstudents", flag.ExitOnError)
	importStudentsFile := importStudentsCmd.String("file", "", "Path to a .csv or .xlsx file of student records.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addstaff":
		if err := addStaffCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStaffUname == "" && *addStaffEmail == "" {
			addStaffCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addStaffCmd.Usage()
			return errHelp
		}
		return cli.addStaff(*addStaffUname, *addStaffEmail, pwd, *addStaffIsAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "importstudents":
		if err := importStudentsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importStudentsFile == "" {
			importStudentsCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importStudentsFile)
	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

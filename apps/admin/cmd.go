package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/defaulter"
	"github.com/trezcool/feedesk/core/report"
	"github.com/trezcool/feedesk/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp     = errors.New("help provided")
	errAborted  = errors.New("aborted")
	errNoCampus = errors.New("no campus assigned to this account")
	errExpired  = errors.New("session expired, please login again")
)

type commandLine struct {
	mgr           *auth.Manager
	campusSvc     *campus.Service
	accountantSvc *accountant.Service
	studentSvc    *student.Service
	defaulterSvc  *defaulter.Service
	reportSvc     *report.Service
	translator    ut.Translator
	pageSize      int

	in  io.Reader
	out io.Writer
}

type command struct {
	usage string
	flags func(fs *flag.FlagSet) func(ctx context.Context) error
}

func (cli *commandLine) commands() map[string]command {
	return map[string]command{
		"login":           {usage: "login -email EMAIL -role admin|accountant - open a session, the password is prompted", flags: cli.loginCmd},
		"logout":          {usage: "logout - close the current session", flags: cli.logoutCmd},
		"whoami":          {usage: "whoami - show the current session", flags: cli.whoamiCmd},
		"campuses":        {usage: "campuses [-search TERM] [-page N] - list campuses", flags: cli.campusesCmd},
		"campus-create":   {usage: "campus-create -name NAME -city CITY -phone PHONE - add a campus", flags: cli.campusCreateCmd},
		"campus-delete":   {usage: "campus-delete -id ID [-yes] - delete a campus", flags: cli.campusDeleteCmd},
		"accountants":     {usage: "accountants [-search TERM] [-page N] - list accountants", flags: cli.accountantsCmd},
		"students":        {usage: "students [-campus ID] [-search TERM] [-page N] - list the students of a campus", flags: cli.studentsCmd},
		"defaulters":      {usage: "defaulters [-campus ID] [-search TERM] [-page N] - list fee defaulters", flags: cli.defaultersCmd},
		"report-daily":    {usage: "report-daily -date YYYY-MM-DD [-bf AMOUNT] [-o FILE] - daily cash report", flags: cli.reportDailyCmd},
		"report-cashflow": {usage: "report-cashflow [-campus ID] -period KIND [...] [-o FILE] - campus cash-flow report", flags: cli.reportCashFlowCmd},
	}
}

func (cli *commandLine) printUsage() {
	cmds := cli.commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(cli.out, "Usage:")
	for _, name := range names {
		fmt.Fprintf(cli.out, "  %s\n", cmds[name].usage)
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd, ok := cli.commands()[args[1]]
	if !ok {
		cli.printUsage()
		return errHelp
	}

	fs := flag.NewFlagSet(args[1], flag.ContinueOnError)
	fs.SetOutput(cli.out)
	exec := cmd.flags(fs)
	if err := fs.Parse(args[2:]); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}

	err := exec(context.Background())
	if args[1] != "login" && core.IsUnauthorized(err) {
		// the server no longer accepts the saved token
		_ = cli.mgr.Logout()
		return errExpired
	}
	return err
}

// usageErr prints the usage of fs; commands return it when a required flag is missing.
func usageErr(fs *flag.FlagSet) error {
	fs.Usage()
	return errHelp
}

// confirm asks a yes/no question on the command line; anything but y/yes is a no.
func (cli *commandLine) confirm(question string) bool {
	fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(cli.in, &answer); err != nil {
		return false
	}
	answer = core.CleanString(answer, true /* lower */)
	return answer == "y" || answer == "yes"
}

// describe turns an error into the lines shown to the operator.
func (cli *commandLine) describe(err error) string {
	if vErr, ok := errors.Cause(err).(*core.ValidationError); ok && len(vErr.Fields) > 0 {
		lines := make([]string, 0, len(vErr.Fields))
		for _, fld := range vErr.Fields {
			lines = append(lines, fmt.Sprintf("  %s: %s", fld.Field, fld.Error))
		}
		return "invalid input:\n" + strings.Join(lines, "\n")
	}
	if vErrs, ok := errors.Cause(err).(validator.ValidationErrors); ok {
		fldErrs := core.TranslateErrors(vErrs, cli.translator)
		lines := make([]string, 0, len(fldErrs))
		for fld, msg := range fldErrs {
			lines = append(lines, fmt.Sprintf("  %s: %s", fld, msg))
		}
		sort.Strings(lines)
		return "invalid input:\n" + strings.Join(lines, "\n")
	}
	if errors.Cause(err) == auth.ErrUnauthenticated {
		return "not logged in, run: admin login -email EMAIL"
	}
	return core.ErrorMessage(err, err.Error())
}

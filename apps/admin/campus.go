package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/form"
	"github.com/trezcool/feedesk/core/listing"
)

// listFlags registers -search and -page.
func (cli *commandLine) listFlags(fs *flag.FlagSet) func() listing.Query {
	search := fs.String("search", "", "Only show rows containing this term.")
	page := fs.Int("page", 1, "The page to show.")
	return func() listing.Query {
		return listing.Query{Search: *search, Page: *page, PageSize: cli.pageSize}
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printFooter(w io.Writer, filtered, total, page, pages int) {
	if filtered == 0 {
		fmt.Fprintln(w, "No records found")
		return
	}
	fmt.Fprintf(w, "%d of %d records, page %d/%d\n", filtered, total, page, pages)
}

// reloadFailed reports a list that could not be fetched again after a change that went through.
func (cli *commandLine) reloadFailed(err error) {
	fmt.Fprintf(cli.out, "the list could not be reloaded: %s\n", core.ErrorMessage(err, "server unreachable"))
}

func (cli *commandLine) campusesCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	query := cli.listFlags(fs)

	return func(ctx context.Context) error {
		if _, err := cli.mgr.RequireRole(auth.RoleAdmin); err != nil {
			return err
		}
		campuses, err := cli.campusSvc.List(ctx)
		if err != nil {
			return err
		}
		cli.printCampuses(campuses, query())
		return nil
	}
}

func (cli *commandLine) printCampuses(campuses []campus.Campus, q listing.Query) {
	page := campus.View(campuses, q)
	st := campus.Summarize(campuses)

	tw := newTable(cli.out)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tPHONE\tSTATUS\tACCOUNTANTS")
	for _, c := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.City, c.PhoneNo, c.Status, c.AccountantCount)
	}
	_ = tw.Flush()
	printFooter(cli.out, page.FilteredCount, page.TotalCount, page.Page, page.TotalPages)
	fmt.Fprintf(cli.out, "active: %d, inactive: %d, accountants: %d\n", st.Active, st.Inactive, st.Accountants)
}

func (cli *commandLine) campusCreateCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	var nc campus.NewCampus
	fs.StringVar(&nc.Name, "name", "", "The campus name.")
	fs.StringVar(&nc.City, "city", "", "The campus city.")
	fs.StringVar(&nc.PhoneNo, "phone", "", "The campus phone number.")

	return func(ctx context.Context) error {
		if _, err := cli.mgr.RequireRole(auth.RoleAdmin); err != nil {
			return err
		}

		var created campus.Campus
		var list []campus.Campus
		wf := form.NewCreate(campus.NewCampus{}, time.Minute)
		wf.SuccessText = "Campus created successfully"
		wf.SetDraft(nc)
		wf.Refetch = func(c context.Context) (err error) {
			list, err = cli.campusSvc.List(c)
			return
		}

		err := wf.Submit(ctx, func(c context.Context, draft campus.NewCampus) (err error) {
			created, err = cli.campusSvc.Create(c, draft)
			return
		})
		refetchErr, reloadFailed := err.(*form.RefetchError)
		if err != nil && !reloadFailed {
			return err
		}
		if flash, ok := wf.Flash(); ok {
			fmt.Fprintf(cli.out, "%s: %s\n", flash.Message, created.ID)
		}
		if reloadFailed {
			cli.reloadFailed(refetchErr.Err)
			return nil
		}
		cli.printCampuses(list, listing.Query{PageSize: cli.pageSize})
		return nil
	}
}

func (cli *commandLine) campusDeleteCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	id := fs.String("id", "", "The campus to delete.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")

	return func(ctx context.Context) error {
		if *id == "" {
			return usageErr(fs)
		}
		if _, err := cli.mgr.RequireRole(auth.RoleAdmin); err != nil {
			return err
		}
		confirmed := *yes || cli.confirm(fmt.Sprintf("Delete campus %s?", *id))
		if err := form.Confirm(confirmed); err != nil {
			return errAborted
		}
		if err := cli.campusSvc.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Campus deleted successfully")

		list, err := cli.campusSvc.List(ctx)
		if err != nil {
			cli.reloadFailed(err)
			return nil
		}
		cli.printCampuses(list, listing.Query{PageSize: cli.pageSize})
		return nil
	}
}

func (cli *commandLine) accountantsCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	query := cli.listFlags(fs)

	return func(ctx context.Context) error {
		if _, err := cli.mgr.RequireRole(auth.RoleAdmin); err != nil {
			return err
		}
		campuses, err := cli.campusSvc.List(ctx)
		if err != nil {
			return err
		}
		accts, err := cli.accountantSvc.List(ctx)
		if err != nil {
			return err
		}
		accountant.ResolveCampusNames(accts, campuses)

		page := accountant.View(accts, query())
		tw := newTable(cli.out)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tCAMPUS\tSTATUS")
		for _, a := range page.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Email, a.PhoneNo, a.Campus.Name, a.Status)
		}
		_ = tw.Flush()
		printFooter(cli.out, page.FilteredCount, page.TotalCount, page.Page, page.TotalPages)
		return nil
	}
}

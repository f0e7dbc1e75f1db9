package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/defaulter"
	"github.com/trezcool/feedesk/core/student"
	printsvc "github.com/trezcool/feedesk/services/print"
)

func (cli *commandLine) studentsCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	campusID := fs.String("campus", "", "The campus whose students are listed (admins only).")
	query := cli.listFlags(fs)

	return func(ctx context.Context) error {
		id, err := cli.campusOf(fs, *campusID)
		if err != nil {
			return err
		}
		students, err := cli.studentSvc.ListByCampus(ctx, id)
		if err != nil {
			return err
		}

		page := student.View(students, query())
		tw := newTable(cli.out)
		fmt.Fprintln(tw, "ID\tNAME\tFATHER\tCLASS\tTOTAL\tPAID\tBALANCE\t")
		for _, s := range page.Items {
			mark := ""
			if !s.Consistent() {
				mark = "!"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.FatherName, s.Class,
				printsvc.Money(s.AllTotal), printsvc.Money(s.FeePaid), printsvc.Money(s.CurBalance), mark)
		}
		_ = tw.Flush()
		printFooter(cli.out, page.FilteredCount, page.TotalCount, page.Page, page.TotalPages)

		st := student.Summarize(students)
		fmt.Fprintf(cli.out, "balance due: %s\n", printsvc.Money(st.TotalBalance))
		if st.Inconsistent > 0 {
			fmt.Fprintf(cli.out, "%d balance(s) do not match total - paid (marked !)\n", st.Inconsistent)
		}
		return nil
	}
}

func (cli *commandLine) defaultersCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	campusID := fs.String("campus", "", "Only list the defaulters of this campus.")
	query := cli.listFlags(fs)

	return func(ctx context.Context) error {
		sess, err := cli.mgr.Require()
		if err != nil {
			return err
		}

		var defaulters []defaulter.Defaulter
		if sess.Role == auth.RoleAdmin && *campusID == "" {
			if defaulters, err = cli.defaulterSvc.List(ctx); err != nil {
				return err
			}
		} else {
			id, err := cli.campusOf(fs, *campusID)
			if err != nil {
				return err
			}
			list, err := cli.defaulterSvc.ListByCampus(ctx, id)
			if err != nil {
				return err
			}
			defaulters = list.Defaulters
		}

		page := defaulter.View(defaulters, query())
		tw := newTable(cli.out)
		fmt.Fprintln(tw, "STUDENT\tFATHER\tCLASS\tSTATUS\tPAID\tREMAINING")
		for _, d := range page.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", d.Student.Name, d.Student.FatherName, d.Student.Class, d.Status,
				printsvc.Money(d.PaidAmount), printsvc.Money(d.RemainingBalance))
		}
		_ = tw.Flush()
		printFooter(cli.out, page.FilteredCount, page.TotalCount, page.Page, page.TotalPages)

		st := defaulter.Summarize(defaulters)
		fmt.Fprintf(cli.out, "outstanding: %s (partial: %d, unpaid: %d)\n", printsvc.Money(st.TotalOutstanding), st.Partial, st.Unpaid)
		return nil
	}
}

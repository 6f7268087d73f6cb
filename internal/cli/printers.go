package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"komunitas/internal/application/listutil"
	"komunitas/internal/application/projections"
	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/review"
	"komunitas/internal/domain/submission"
)

var (
	idr   = message.NewPrinter(language.Indonesian)
	title = cases.Title(language.Indonesian)

	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
)

// FormatIDR renders an amount in rupiah with Indonesian digit grouping, e.g. "Rp 14.500.000".
func FormatIDR(amount int64) string {
	return idr.Sprintf("Rp %d", amount)
}

func label(s string) string {
	if s == "" {
		return "-"
	}
	return title.String(s)
}

func reviewLabel(s review.Status) string {
	switch s {
	case review.StatusApproved:
		return color.GreenString(label(string(s)))
	case review.StatusRejected:
		return color.RedString(label(string(s)))
	}
	return color.YellowString(label(string(s)))
}

func activityLabel(s activity.Status) string {
	switch s {
	case activity.StatusUpcoming:
		return color.CyanString(label(string(s)))
	case activity.StatusOngoing:
		return color.YellowString(label(string(s)))
	}
	return faint.Sprint(label(string(s)))
}

func typeLabel(t cashflow.Type) string {
	if t == cashflow.TypeIncome {
		return color.GreenString(label(string(t)))
	}
	return color.RedString(label(string(t)))
}

func newTable(headers ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	cols := make([]any, len(headers))
	for i, h := range headers {
		cols[i] = bold.Sprint(h)
	}
	tbl.AddRow(cols...)
	return tbl
}

func printFooter(w io.Writer, p listutil.PageInfo) {
	if p.Total == 0 {
		_, _ = faint.Fprintln(w, " none")
		return
	}
	_, _ = faint.Fprintf(w, "rows %d-%d of %d, page %d/%d\n", p.StartRow(), p.EndRow(), p.Total, p.Page, p.TotalPages)
}

func printActivities(w io.Writer, r projections.ActivityListResult) {
	tbl := newTable("ID", "DATE", "TITLE", "CATEGORY", "STATUS", "PARTICIPANTS", "LOCATION")
	for _, a := range r.Activities {
		tbl.AddRow(a.ID, a.Date, a.Title, label(a.Category), activityLabel(a.Status), a.Participants, a.Location)
	}
	tbl.RightAlign(5)
	_, _ = fmt.Fprintln(w, tbl)
	printFooter(w, r.Page)
}

func printTotals(w io.Writer, t projections.Totals) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Income"), color.GreenString(FormatIDR(t.Income)))
	tbl.AddRow(bold.Sprint("Expense"), color.RedString(FormatIDR(t.Expense)))
	tbl.AddRow(bold.Sprint("Balance"), FormatIDR(t.Balance))
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(w, tbl)
}

func printCashflow(w io.Writer, r projections.CashflowListResult) {
	tbl := newTable("ID", "DATE", "TITLE", "CATEGORY", "TYPE", "AMOUNT")
	for _, it := range r.Items {
		tbl.AddRow(it.ID, it.Date, it.Title, it.Category, typeLabel(it.Type), FormatIDR(it.Amount))
	}
	tbl.RightAlign(5)
	_, _ = fmt.Fprintln(w, tbl)
	printFooter(w, r.Page)
	_, _ = fmt.Fprintln(w)
	printTotals(w, r.Totals)
}

func printSummary(w io.Writer, s projections.CashflowSummary) {
	printTotals(w, s.Totals)

	_, _ = fmt.Fprintln(w)
	cats := newTable("EXPENSE CATEGORY", "AMOUNT", "SHARE")
	for _, c := range s.ExpenseCategories {
		cats.AddRow(c.Category, FormatIDR(c.Amount), idr.Sprintf("%.1f%%", c.Percent))
	}
	cats.RightAlign(1)
	cats.RightAlign(2)
	_, _ = fmt.Fprintln(w, cats)

	_, _ = fmt.Fprintln(w)
	months := newTable("MONTH", "INCOME", "EXPENSE")
	for _, m := range s.Monthly {
		months.AddRow(m.Month, FormatIDR(m.Income), FormatIDR(m.Expense))
	}
	months.RightAlign(1)
	months.RightAlign(2)
	_, _ = fmt.Fprintln(w, months)
}

func printCounts(w io.Writer, c review.Counts) {
	_, _ = faint.Fprintf(w, "pending %d, approved %d, rejected %d\n", c.Pending, c.Approved, c.Rejected)
}

func printDonations(w io.Writer, r projections.DonationListResult) {
	tbl := newTable("ID", "NAME", "EMAIL", "AMOUNT", "STATUS")
	for _, d := range r.Donations {
		tbl.AddRow(d.ID, d.Name, d.Email, FormatIDR(d.Amount), reviewLabel(d.Status))
	}
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(w, tbl)
	printFooter(w, r.Page)
	printCounts(w, r.Counts)
	_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Pledged"), FormatIDR(r.Pledged))
}

func printVolunteers(w io.Writer, r projections.VolunteerListResult) {
	tbl := newTable("ID", "NAME", "EMAIL", "SKILLS", "STATUS")
	for _, v := range r.Volunteers {
		skills := "-"
		if len(v.Skills) > 0 {
			skills = fmt.Sprint(v.Skills)
		}
		tbl.AddRow(v.ID, v.Name, v.Email, skills, reviewLabel(v.Status))
	}
	_, _ = fmt.Fprintln(w, tbl)
	printFooter(w, r.Page)
	printCounts(w, r.Counts)
}

func printSubmissions(w io.Writer, r projections.SubmissionListResult) {
	tbl := newTable("ID", "TYPE", "TITLE", "BY", "AMOUNT")
	for _, s := range r.Submissions {
		amount := "-"
		if s.Type == submission.KindCashflow {
			amount = FormatIDR(s.Amount)
		}
		tbl.AddRow(s.ID, label(string(s.Type)), s.Title, s.SubmittedBy, amount)
	}
	tbl.RightAlign(4)
	_, _ = fmt.Fprintln(w, tbl)
	printFooter(w, r.Page)
}

func printAudit(w io.Writer, r projections.AuditListResult) {
	tbl := newTable("TIME", "COLLECTION", "ACTION", "RESOURCE", "ACTOR", "DESCRIPTION")
	for _, e := range r.Events {
		tbl.AddRow(e.Timestamp.Format("2006-01-02 15:04"), e.Collection, e.Action, e.ResourceID, e.Actor, e.Description)
	}
	_, _ = fmt.Fprintln(w, tbl)
	printFooter(w, r.Page)
}

func printDashboard(w io.Writer, d projections.DashboardResult) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Active activities"), d.ActiveActivities)
	tbl.AddRow(bold.Sprint("Pending donations"), d.PendingDonations)
	tbl.AddRow(bold.Sprint("Pending volunteers"), d.PendingVolunteers)
	tbl.AddRow(bold.Sprint("Pending submissions"), d.PendingSubmissions)
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w)
	printTotals(w, d.Totals)

	_, _ = fmt.Fprintln(w)
	up := newTable("UPCOMING", "DATE", "LOCATION")
	for _, a := range d.Upcoming {
		up.AddRow(a.Title, a.Date, a.Location)
	}
	_, _ = fmt.Fprintln(w, up)

	_, _ = fmt.Fprintln(w)
	recent := newTable("RECENT CASHFLOW", "TYPE", "AMOUNT")
	for _, it := range d.RecentCashflow {
		recent.AddRow(it.Title, typeLabel(it.Type), FormatIDR(it.Amount))
	}
	recent.RightAlign(2)
	_, _ = fmt.Fprintln(w, recent)
}

func printDecision(w io.Writer, kind, id string, status review.Status, changed bool) {
	if !changed {
		_, _ = faint.Fprintf(w, "%s %s already %s\n", kind, id, status)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s %s\n", kind, id, reviewLabel(status))
}

// Package cli implements komunitasctl, the operator command line over the same collections the server uses.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"komunitas/internal/adapters/storage/collection"
	"komunitas/internal/application/listutil"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/application/projections"
)

// App is what every command runs against.
type App struct {
	Stores     *collection.Stores
	Notify     orchestrators.NotifyDeps
	GenerateID func() string
	Now        func() time.Time
	Out        io.Writer
}

// OpenFunc builds an App from the --config flag value. The returned func releases it.
type OpenFunc func(configFile string) (*App, func() error, error)

var errConfirmReset = errors.New("reset clears activities and cashflow; pass --yes to confirm")

// Execute runs the command line with args and releases whatever the command opened.
func Execute(ctx context.Context, open OpenFunc, args []string) error {
	root, release := New(open)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, release())
}

// New builds the komunitasctl command tree. The returned func releases the App opened
// for the command that ran; it is safe to call when nothing was opened.
// PRE: open is non-nil
func New(open OpenFunc) (*cobra.Command, func() error) {
	var (
		configFile string
		actor      string
		app        *App
		release    func() error
	)

	root := &cobra.Command{
		Use:           "komunitasctl",
		Short:         "Operate a komunitas deployment from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Runnable() && cmd.HasSubCommands() {
				return nil
			}
			var err error
			app, release, err = open(configFile)
			if err != nil {
				return err
			}
			if app.Out == nil {
				app.Out = cmd.OutOrStdout()
			}
			if app.Now == nil {
				app.Now = time.Now
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./komunitas.yaml or ~/.komunitas/komunitas.yaml)")
	root.PersistentFlags().StringVar(&actor, "actor", "komunitasctl", "name recorded in the audit log")

	env := func() *App { return app }
	who := func() string { return actor }

	root.AddCommand(
		newActivitiesCmd(env),
		newCashflowCmd(env),
		newDonationsCmd(env),
		newVolunteersCmd(env),
		newSubmissionsCmd(env),
		newAuditCmd(env),
		newDashboardCmd(env),
		newResetCmd(env, who),
		newDecisionCmd(env, who, true),
		newDecisionCmd(env, who, false),
	)
	return root, func() error {
		if release == nil {
			return nil
		}
		return release()
	}
}

// listFlags mirrors the list query parameters of the HTTP API.
type listFlags struct {
	query, status, typ, category, action, collection string
	sort, dir                                        string
	page, perPage                                    int
}

func (f *listFlags) bind(cmd *cobra.Command, filters ...string) {
	fs := cmd.Flags()
	fs.StringVarP(&f.query, "query", "q", "", "free-text search")
	for _, name := range filters {
		switch name {
		case "status":
			fs.StringVar(&f.status, "status", "", "status filter")
		case "type":
			fs.StringVar(&f.typ, "type", "", "type filter")
		case "category":
			fs.StringVar(&f.category, "category", "", "category filter")
		case "action":
			fs.StringVar(&f.action, "action", "", "action filter")
		case "collection":
			fs.StringVar(&f.collection, "collection", "", "collection filter")
		}
	}
	fs.StringVar(&f.sort, "sort", "", "sort key")
	fs.StringVar(&f.dir, "dir", "", "sort direction: asc or desc")
	fs.IntVar(&f.page, "page", 1, "page number")
	fs.IntVar(&f.perPage, "per-page", 0, "rows per page")
}

// params runs the flags through the same parser the HTTP handlers use.
func (f *listFlags) params(defaultPerPage int, sortKeys, filterKeys []string) listutil.ListParams {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("q", f.query)
	set("status", f.status)
	set("type", f.typ)
	set("category", f.category)
	set("action", f.action)
	set("collection", f.collection)
	set("sort", f.sort)
	set("dir", f.dir)
	if f.page > 0 {
		q.Set("page", strconv.Itoa(f.page))
	}
	if f.perPage > 0 {
		q.Set("per_page", strconv.Itoa(f.perPage))
	}
	return listutil.ParseListParams(q, defaultPerPage, sortKeys, filterKeys)
}

func (a *App) auditDeps() orchestrators.AuditDeps {
	return orchestrators.AuditDeps{AuditLog: a.Stores.AuditLog, GenerateID: a.GenerateID, Now: a.Now}
}

func groupCmd(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(children...)
	return cmd
}

func newActivitiesCmd(env func() *App) *cobra.Command {
	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			lp := f.params(listutil.DefaultPerPage, projections.ActivitySortKeys, projections.ActivityFilterKeys)
			r, err := projections.QueryActivityList(cmd.Context(), projections.ActivityListQuery{
				Search:   lp.Search,
				Status:   lp.Filters["status"],
				Category: lp.Filters["category"],
				Sort:     lp.Sort,
				Dir:      lp.Dir,
				Page:     lp.Page,
				PerPage:  lp.PerPage,
			}, projections.ActivityListDeps{Activities: a.Stores.Activities})
			if err != nil {
				return err
			}
			printActivities(a.Out, r)
			return nil
		},
	}
	f.bind(list, "status", "category")
	return groupCmd("activities", "Community activities", list)
}

func newCashflowCmd(env func() *App) *cobra.Command {
	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List the cashflow ledger with whole-ledger totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			lp := f.params(projections.CashflowDefaultPerPage, projections.CashflowSortKeys, projections.CashflowFilterKeys)
			r, err := projections.QueryCashflowList(cmd.Context(), projections.CashflowListQuery{
				Search:   lp.Search,
				Type:     lp.Filters["type"],
				Category: lp.Filters["category"],
				Sort:     lp.Sort,
				Dir:      lp.Dir,
				Page:     lp.Page,
				PerPage:  lp.PerPage,
			}, projections.CashflowListDeps{Cashflow: a.Stores.Cashflow})
			if err != nil {
				return err
			}
			printCashflow(a.Out, r)
			return nil
		},
	}
	f.bind(list, "type", "category")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Totals, expense breakdown and monthly series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			s, err := projections.QueryCashflowSummary(cmd.Context(), projections.CashflowListDeps{Cashflow: a.Stores.Cashflow})
			if err != nil {
				return err
			}
			printSummary(a.Out, s)
			return nil
		},
	}
	return groupCmd("cashflow", "Income and expense ledger", list, summary)
}

func requestQuery(lp listutil.ListParams) projections.RequestListQuery {
	return projections.RequestListQuery{
		Search:  lp.Search,
		Status:  lp.Filters["status"],
		Sort:    lp.Sort,
		Dir:     lp.Dir,
		Page:    lp.Page,
		PerPage: lp.PerPage,
	}
}

func newDonationsCmd(env func() *App) *cobra.Command {
	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List donation pledges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			lp := f.params(listutil.DefaultPerPage, projections.DonationSortKeys, projections.RequestFilterKeys)
			r, err := projections.QueryDonationList(cmd.Context(), requestQuery(lp), projections.DonationListDeps{Donations: a.Stores.Donations})
			if err != nil {
				return err
			}
			printDonations(a.Out, r)
			return nil
		},
	}
	f.bind(list, "status")
	return groupCmd("donations", "Donation pledges", list)
}

func newVolunteersCmd(env func() *App) *cobra.Command {
	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List volunteer sign-ups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			lp := f.params(listutil.DefaultPerPage, projections.VolunteerSortKeys, projections.RequestFilterKeys)
			r, err := projections.QueryVolunteerList(cmd.Context(), requestQuery(lp), projections.VolunteerListDeps{Volunteers: a.Stores.Volunteers})
			if err != nil {
				return err
			}
			printVolunteers(a.Out, r)
			return nil
		},
	}
	f.bind(list, "status")
	return groupCmd("volunteers", "Volunteer sign-ups", list)
}

func newSubmissionsCmd(env func() *App) *cobra.Command {
	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List the pending approval queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			lp := f.params(listutil.DefaultPerPage, nil, projections.SubmissionFilterKeys)
			r, err := projections.QuerySubmissionList(cmd.Context(), projections.SubmissionListQuery{
				Search:  lp.Search,
				Type:    lp.Filters["type"],
				Page:    lp.Page,
				PerPage: lp.PerPage,
			}, projections.SubmissionListDeps{Submissions: a.Stores.Submissions})
			if err != nil {
				return err
			}
			printSubmissions(a.Out, r)
			return nil
		},
	}
	f.bind(list, "type")
	return groupCmd("submissions", "Member proposals awaiting approval", list)
}

func newAuditCmd(env func() *App) *cobra.Command {
	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List the mutation log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			lp := f.params(listutil.DefaultPerPage, nil, projections.AuditFilterKeys)
			r, err := projections.QueryAuditList(cmd.Context(), projections.AuditListQuery{
				Collection: lp.Filters["collection"],
				Action:     lp.Filters["action"],
				Page:       lp.Page,
				PerPage:    lp.PerPage,
			}, projections.AuditListDeps{AuditLog: a.Stores.AuditLog})
			if err != nil {
				return err
			}
			printAudit(a.Out, r)
			return nil
		},
	}
	f.bind(list, "collection", "action")
	return groupCmd("audit", "Mutation log", list)
}

func newDashboardCmd(env func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Overview of activities, finances and pending requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := env()
			d, err := projections.QueryGetDashboard(cmd.Context(), projections.GetDashboardDeps{
				Activities:  a.Stores.Activities,
				Cashflow:    a.Stores.Cashflow,
				Donations:   a.Stores.Donations,
				Volunteers:  a.Stores.Volunteers,
				Submissions: a.Stores.Submissions,
			})
			if err != nil {
				return err
			}
			printDashboard(a.Out, d)
			return nil
		},
	}
}

func newResetCmd(env func() *App, actor func() string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default activities and cashflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errConfirmReset
			}
			a := env()
			cleared, err := orchestrators.ExecuteResetData(cmd.Context(), orchestrators.ResetInput{Actor: actor()}, orchestrators.ResetDeps{
				Collections: []orchestrators.Resettable{a.Stores.Activities, a.Stores.Cashflow},
				AuditDeps:   a.auditDeps(),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.Out, "cleared %v\n", cleared)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

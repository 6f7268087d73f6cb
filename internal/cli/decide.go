package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"komunitas/internal/application/orchestrators"
	"komunitas/internal/domain/review"
)

// newDecisionCmd builds "approve" or "reject" with one subcommand per reviewable record kind.
func newDecisionCmd(env func() *App, actor func() string, approve bool) *cobra.Command {
	verb, status := "reject", review.StatusRejected
	if approve {
		verb, status = "approve", review.StatusApproved
	}

	setStatus := func(args []string) orchestrators.SetStatusInput {
		return orchestrators.SetStatusInput{ID: args[0], Status: status, Actor: actor()}
	}

	donation := &cobra.Command{
		Use:   "donation <id>",
		Short: verb + " a pending donation pledge and notify the donor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := env()
			_, changed, err := orchestrators.ExecuteSetDonationStatus(cmd.Context(), setStatus(args), orchestrators.DonationDeps{
				Donations:  a.Stores.Donations,
				AuditDeps:  a.auditDeps(),
				NotifyDeps: a.Notify,
			})
			if err != nil {
				return err
			}
			printDecision(a.Out, "donation", args[0], status, changed)
			return nil
		},
	}

	volunteer := &cobra.Command{
		Use:   "volunteer <id>",
		Short: verb + " a pending volunteer sign-up and notify the applicant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := env()
			_, changed, err := orchestrators.ExecuteSetVolunteerStatus(cmd.Context(), setStatus(args), orchestrators.VolunteerDeps{
				Volunteers: a.Stores.Volunteers,
				AuditDeps:  a.auditDeps(),
				NotifyDeps: a.Notify,
			})
			if err != nil {
				return err
			}
			printDecision(a.Out, "volunteer", args[0], status, changed)
			return nil
		},
	}

	submission := &cobra.Command{
		Use:   "submission <id>",
		Short: verb + " a queued member proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := env()
			audit := a.auditDeps()
			deps := orchestrators.SubmissionDeps{
				Submissions: a.Stores.Submissions,
				Activity:    orchestrators.ActivityDeps{Activities: a.Stores.Activities, AuditDeps: audit},
				Cashflow:    orchestrators.CashflowDeps{Cashflow: a.Stores.Cashflow, AuditDeps: audit},
				AuditDeps:   audit,
			}
			input := orchestrators.DecideSubmissionInput{ID: args[0], Actor: actor()}
			if !approve {
				if _, err := orchestrators.ExecuteRejectSubmission(cmd.Context(), input, deps); err != nil {
					return err
				}
				printDecision(a.Out, "submission", args[0], status, true)
				return nil
			}
			result, err := orchestrators.ExecuteApproveSubmission(cmd.Context(), input, deps)
			if err != nil {
				return err
			}
			printDecision(a.Out, "submission", args[0], status, true)
			_, _ = fmt.Fprintf(a.Out, "created %s %s\n", result.Kind, result.RecordID)
			return nil
		},
	}

	return groupCmd(verb, verb+" a pending request", donation, volunteer, submission)
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"listwise/internal/logging"
	"listwise/internal/services"
	"listwise/internal/session"
	"listwise/internal/submission"
	"listwise/internal/wizard"
)

func newNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Validate the active step and move to the next one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				state, err := ctx.sequencerFor(sess).Next(sess.State(), sess.Draft)
				if err != nil {
					var verr *wizard.ValidationError
					if errors.As(err, &verr) {
						logging.WarnWithContext(logging.WithContext(sctx, ctx.loggerValue()), "step blocked", "step_blocked",
							logging.String("reason", verr.Reason),
							logging.String(logging.FieldErrorHint, services.Hint(err)),
						)
					}
					return err
				}
				return moveTo(sctx, cmd, store, sess, state.Active)
			})
		},
	}
}

func newBackCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Return to the previous step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				state, err := ctx.sequencerFor(sess).Back(sess.State())
				if err != nil {
					return err
				}
				return moveTo(sctx, cmd, store, sess, state.Active)
			})
		},
	}
}

func moveTo(ctx context.Context, cmd *cobra.Command, store *session.Store, sess *session.Session, step wizard.Step) error {
	sess.Step = step
	if err := store.Update(ctx, sess); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Step %s\n", step)
	fmt.Fprintln(out, renderStepTrail(step, shouldColorize(out)))
	return nil
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Re-validate every step and send the listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				coord := submission.New(ctx.apiClient(), ctx.configValue(), ctx.loggerValue())
				outcome, err := coord.Submit(sctx, submission.Request{
					State:     sess.State(),
					Draft:     sess.Draft,
					ListingID: sess.ListingID,
				})
				if err != nil {
					if !errors.Is(err, wizard.ErrNotAtReview) {
						sess.LastError = err.Error()
						if updateErr := store.Update(sctx, sess); updateErr != nil {
							logging.WarnWithContext(logging.WithContext(sctx, ctx.loggerValue()), "failed to record submit error", "session_update_failed",
								logging.Error(updateErr),
								logging.String(logging.FieldErrorHint, "run 'listwise doctor'"),
								logging.String(logging.FieldImpact, "last error not shown by 'listwise show'"),
							)
						}
					}
					return err
				}

				if err := store.Delete(sctx, sess.ID); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				verb := "Updated"
				if outcome.Created {
					verb = "Created"
				}
				fmt.Fprintf(out, "%s listing %s (status %s)\n", verb, outcome.ListingID, outcome.Status)
				fmt.Fprintf(out, "View it at %s\n", outcome.Path)
				return nil
			})
		},
	}
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"listwise/internal/listing"
	"listwise/internal/logging"
	"listwise/internal/media"
	"listwise/internal/session"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a wizard session for a new listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sess, err := store.Create(cmd.Context(), session.ModeCreate, "", listing.New())
				if err != nil {
					return err
				}
				logger := logging.WithContext(sessionContext(cmd.Context(), sess), ctx.loggerValue())
				logger.Info("session started",
					logging.String(logging.FieldEventType, "session_started"),
					logging.String("mode", string(sess.Mode)),
				)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Started session %s\n", sess.ShortID())
				fmt.Fprintln(out, renderStepTrail(sess.Step, shouldColorize(out)))
				return nil
			})
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <listing-id>",
		Short: "Start a wizard session that edits a published listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listingID := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *session.Store) error {
				out := cmd.OutOrStdout()
				existing, err := store.FindByListingID(cmd.Context(), listingID)
				if err != nil {
					return err
				}
				if existing != nil {
					fmt.Fprintf(out, "Resuming edit session %s for listing %s\n", existing.ShortID(), listingID)
					fmt.Fprintln(out, renderStepTrail(existing.Step, shouldColorize(out)))
					return nil
				}

				draft, err := ctx.apiClient().Get(cmd.Context(), listingID)
				if err != nil {
					return err
				}
				sess, err := store.Create(cmd.Context(), session.ModeEdit, listingID, draft)
				if err != nil {
					return err
				}
				logger := logging.WithContext(sessionContext(cmd.Context(), sess), ctx.loggerValue())
				logger.Info("session started",
					logging.String(logging.FieldEventType, "session_started"),
					logging.String("mode", string(sess.Mode)),
					logging.String("listing_id", listingID),
					logging.Int("images", len(draft.ImageURLs)),
				)
				fmt.Fprintf(out, "Started edit session %s for listing %s\n", sess.ShortID(), listingID)
				fmt.Fprintln(out, renderStepTrail(sess.Step, shouldColorize(out)))
				return nil
			})
		},
	}
}

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List open wizard sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				sessions, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No open sessions")
					return nil
				}
				rows := make([][]string, 0, len(sessions))
				for _, sess := range sessions {
					rows = append(rows, []string{
						sess.ShortID(),
						string(sess.Mode),
						sess.ListingID,
						sess.Draft.Name,
						sess.Step.String(),
						strconv.Itoa(len(sess.Draft.ImageURLs)),
						humanize.Time(sess.UpdatedAt),
					})
				}
				fmt.Fprint(out, renderTable(sessionColumns, rows))
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

type sessionView struct {
	ID           string            `json:"id"`
	Mode         string            `json:"mode"`
	ListingID    string            `json:"listing_id,omitempty"`
	Step         int               `json:"step"`
	StepTitle    string            `json:"step_title"`
	CanAdvance   bool              `json:"can_advance"`
	Blocker      string            `json:"blocker,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
	Images       int               `json:"images"`
	ImageBytes   int64             `json:"estimated_image_bytes"`
	Video        bool              `json:"video"`
	VideoSeconds float64           `json:"video_seconds,omitempty"`
	Geohash      string            `json:"geohash,omitempty"`
	Review       []listing.Section `json:"review"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CreatedAt    time.Time         `json:"created_at"`
	Amenities    []string          `json:"amenities"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the session's current step and a review of the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(_ context.Context, _ *session.Store, sess *session.Session) error {
				canAdvance, blocker := ctx.sequencerFor(sess).CanAdvance(sess.State(), sess.Draft)
				review := listing.Review(sess.Draft, media.EstimateTotal)
				if asJSON {
					return writeJSON(cmd, sessionView{
						ID:           sess.ID,
						Mode:         string(sess.Mode),
						ListingID:    sess.ListingID,
						Step:         int(sess.Step),
						StepTitle:    sess.Step.Title(),
						CanAdvance:   canAdvance,
						Blocker:      blocker,
						LastError:    sess.LastError,
						Images:       len(sess.Draft.ImageURLs),
						ImageBytes:   int64(media.EstimateTotal(sess.Draft.ImageURLs)),
						Video:        sess.Draft.VideoURL != "",
						VideoSeconds: sess.VideoSeconds,
						Geohash:      sess.Draft.Geohash(),
						Review:       review,
						UpdatedAt:    sess.UpdatedAt,
						CreatedAt:    sess.CreatedAt,
						Amenities:    sess.Draft.Amenities.Enabled(),
					})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				title := fmt.Sprintf("Session %s (%s)", sess.ShortID(), sess.Mode)
				if sess.Editing() {
					title = fmt.Sprintf("Session %s (edit of %s)", sess.ShortID(), sess.ListingID)
				}
				for _, line := range renderSectionHeader(title, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStepTrail(sess.Step, colorize))
				fmt.Fprintln(out)
				fmt.Fprint(out, renderTable(reviewColumns, reviewRows(review)))
				fmt.Fprintln(out)
				if canAdvance {
					fmt.Fprintln(out, renderStatusLine(sess.Step.Title(), statusOK, "complete", colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine(sess.Step.Title(), statusWarn, blocker, colorize))
				}
				if sess.LastError != "" {
					fmt.Fprintln(out, renderStatusLine("Last submit", statusError, sess.LastError, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// reviewRows flattens review sections into table rows, naming each section on
// its first row only and separating sections with a rule.
func reviewRows(sections []listing.Section) [][]string {
	var rows [][]string
	for s, section := range sections {
		if s > 0 {
			rows = append(rows, nil)
		}
		for i, row := range section.Rows {
			heading := ""
			if i == 0 {
				heading = section.Title
			}
			rows = append(rows, []string{heading, row.Label, row.Value})
		}
	}
	return rows
}

func newDiscardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Discard the session and its draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				if err := store.Delete(sctx, sess.ID); err != nil {
					return err
				}
				logging.WithContext(sctx, ctx.loggerValue()).Info("session discarded",
					logging.String(logging.FieldEventType, "session_discarded"),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Discarded session %s\n", sess.ShortID())
				return nil
			})
		},
	}
}

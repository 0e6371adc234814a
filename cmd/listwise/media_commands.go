package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"listwise/internal/ingest"
	"listwise/internal/listing"
	"listwise/internal/media"
	"listwise/internal/session"
)

func newImagesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Manage listing images",
	}
	cmd.AddCommand(newImagesAddCommand(ctx))
	cmd.AddCommand(newImagesRemoveCommand(ctx))
	return cmd
}

func newImagesAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Compress images and append them to the draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := media.StatAll(args)
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				ing := ingest.New(ctx.configValue(), sess.Editing(), ctx.loggerValue())
				var encoded []media.EncodedImage
				err := withUploadLock(sctx, ing, store, sess, func(fresh *session.Session) error {
					next, images, err := ing.AddImages(sctx, fresh.Draft, files)
					if err != nil {
						return err
					}
					fresh.Draft = next
					encoded = images
					return nil
				})
				if err != nil {
					return err
				}
				next := sess.Draft

				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(encoded))
				offset := len(next.ImageURLs) - len(encoded)
				for i, img := range encoded {
					rows = append(rows, []string{
						strconv.Itoa(offset + i + 1),
						img.SourceName,
						fmt.Sprintf("%dx%d", img.SourceWidth, img.SourceHeight),
						fmt.Sprintf("%dx%d", img.Width, img.Height),
						humanize.IBytes(uint64(media.EstimateEncodedBytes(img.DataURI))),
					})
				}
				fmt.Fprint(out, renderTable(imageColumns, rows))
				fmt.Fprintln(out)
				printImageBudget(cmd, ing.Limits().MaxImages, ing.Limits().MaxImageBytes, next)
				return nil
			})
		},
	}
}

func newImagesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <position>",
		Aliases: []string{"remove"},
		Short:   "Remove the image at a 1-based position",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("%w: image position %q", listing.ErrInvalidValue, args[0])
			}
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				ing := ingest.New(ctx.configValue(), sess.Editing(), ctx.loggerValue())
				err := withUploadLock(sctx, ing, store, sess, func(fresh *session.Session) error {
					next, err := ing.RemoveImage(fresh.Draft, position-1)
					if err != nil {
						return err
					}
					fresh.Draft = next
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed image %d\n", position)
				printImageBudget(cmd, ing.Limits().MaxImages, ing.Limits().MaxImageBytes, sess.Draft)
				return nil
			})
		},
	}
}

// withUploadLock re-reads the session under its upload lock, lets fn change the
// fresh copy, and persists it before the lock is released. On success sess
// holds the persisted state.
func withUploadLock(ctx context.Context, ing *ingest.Ingester, store *session.Store, sess *session.Session, fn func(fresh *session.Session) error) error {
	return ing.WithSessionLock(ctx, sess.ID, func() error {
		fresh, err := store.Get(ctx, sess.ID)
		if err != nil {
			return err
		}
		if err := fn(fresh); err != nil {
			return err
		}
		if err := store.Update(ctx, fresh); err != nil {
			return err
		}
		*sess = *fresh
		return nil
	})
}

func printImageBudget(cmd *cobra.Command, maxImages int, maxBytes int64, d listing.Draft) {
	fmt.Fprintf(cmd.OutOrStdout(), "Images: %d of %d, about %s of %s\n",
		len(d.ImageURLs), maxImages,
		humanize.IBytes(uint64(media.EstimateTotal(d.ImageURLs))),
		humanize.IBytes(uint64(maxBytes)),
	)
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Manage the listing video",
	}
	cmd.AddCommand(newVideoSetCommand(ctx))
	cmd.AddCommand(newVideoClearCommand(ctx))
	return cmd
}

func newVideoSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file>",
		Short: "Check and attach a video, replacing any previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := media.Stat(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				ing := ingest.New(ctx.configValue(), sess.Editing(), ctx.loggerValue())
				var encoded media.EncodedVideo
				err := withUploadLock(sctx, ing, store, sess, func(fresh *session.Session) error {
					next, video, err := ing.SetVideo(sctx, fresh.Draft, file)
					if err != nil {
						return err
					}
					fresh.Draft = next
					fresh.VideoSeconds = video.DurationSeconds
					encoded = video
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Video attached: %s (%.1fs, %s)\n",
					encoded.SourceName, encoded.DurationSeconds, humanize.IBytes(uint64(encoded.SourceBytes)))
				return nil
			})
		},
	}
}

func newVideoClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the listing video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				ing := ingest.New(ctx.configValue(), sess.Editing(), ctx.loggerValue())
				err := withUploadLock(sctx, ing, store, sess, func(fresh *session.Session) error {
					fresh.Draft = ing.ClearVideo(fresh.Draft)
					fresh.VideoSeconds = 0
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Video removed")
				return nil
			})
		},
	}
}

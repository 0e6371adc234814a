package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"listwise/internal/listing"
	"listwise/internal/logging"
	"listwise/internal/session"
)

// applyEvents applies events to the session draft and persists the result.
// A rejected event leaves the stored draft untouched.
func (c *commandContext) applyEvents(ctx context.Context, store *session.Store, sess *session.Session, events ...listing.Event) error {
	next, err := c.rulesFor(sess).ApplyAll(sess.Draft, events...)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.loggerValue()), "draft edit rejected", "draft_edit_rejected",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the field name and value"),
		)
		return err
	}
	sess.Draft = next
	return store.Update(ctx, sess)
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value> [<field> <value>...]",
		Short: "Set one or more draft fields",
		Long: "Set one or more draft fields from raw text, the way the form would.\n\n" +
			"Fields: name, description, address, propertyType, type, propertyStatus,\n" +
			"bedrooms, bathrooms, totalArea, builtUpArea, floorNumber, totalFloors,\n" +
			"furnished, parking, furnishing, currency, customCurrency, regularPrice,\n" +
			"offer, discountPrice, maintenanceFees, deposit, paymentFrequency.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return errors.New("expected field/value pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			events := make([]listing.Event, 0, len(args)/2)
			keys := make([]string, 0, len(args)/2)
			for i := 0; i < len(args); i += 2 {
				events = append(events, listing.SetField{Key: args[i], Value: args[i+1]})
				keys = append(keys, args[i])
			}
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				if err := ctx.applyEvents(sctx, store, sess, events...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", strings.Join(keys, ", "))
				return nil
			})
		},
	}
}

func newLocationCommand(ctx *commandContext) *cobra.Command {
	var clearLocation bool

	cmd := &cobra.Command{
		Use:   "location <latitude> <longitude>",
		Short: "Pin or clear the listing coordinates",
		Args: func(cmd *cobra.Command, args []string) error {
			if clearLocation {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var event listing.Event = listing.ClearLocation{}
			if !clearLocation {
				lat, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
				if err != nil {
					return fmt.Errorf("%w: latitude %q", listing.ErrInvalidValue, args[0])
				}
				lng, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
				if err != nil {
					return fmt.Errorf("%w: longitude %q", listing.ErrInvalidValue, args[1])
				}
				event = listing.SetLocation{Latitude: lat, Longitude: lng}
			}
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				if err := ctx.applyEvents(sctx, store, sess, event); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if clearLocation {
					fmt.Fprintln(out, "Location cleared")
					return nil
				}
				fmt.Fprintf(out, "Location set to %.6f, %.6f (geohash %s)\n",
					*sess.Draft.Latitude, *sess.Draft.Longitude, sess.Draft.Geohash())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearLocation, "clear", false, "Remove both coordinates")
	return cmd
}

func newAmenityCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "amenity <key> on|off",
		Short: "Toggle an amenity",
		Long:  "Toggle an amenity. Keys: " + strings.Join(listing.AmenityKeys, ", ") + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseSwitch(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(sctx context.Context, store *session.Store, sess *session.Session) error {
				if err := ctx.applyEvents(sctx, store, sess, listing.SetAmenity{Key: args[0], On: on}); err != nil {
					return err
				}
				state := "off"
				if on {
					state = "on"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", listing.Label(args[0]), state)
				return nil
			})
		},
	}
}

func parseSwitch(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected on or off, got %q", listing.ErrInvalidValue, raw)
	}
}

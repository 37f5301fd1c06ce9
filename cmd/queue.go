package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/cobra"
)

func newQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage recurring weekly posting slots",
	}

	var profileID string
	requireProfile := func(c *cobra.Command) {
		c.Flags().StringVar(&profileID, "profile", "", "Profile ID")
		_ = c.MarkFlagRequired("profile")
	}

	slotsCmd := &cobra.Command{
		Use:   "slots",
		Short: "Show the queue schedule of a profile",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Queue.GetSlots(cmd.Context(), profileID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	requireProfile(slotsCmd)

	var (
		timezone string
		rawSlots []string
		inactive bool
	)
	setCmd := &cobra.Command{
		Use:     "set",
		Short:   "Replace the queue schedule of a profile",
		Example: `  xsched queue set --profile prof_1 --timezone America/New_York --slot 1@09:00 --slot 5@16:30`,
		Args:    cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			slots, err := parseSlots(rawSlots)
			if err != nil {
				return err
			}
			if _, err := time.LoadLocation(timezone); err != nil {
				return fmt.Errorf("invalid --timezone %q: %w", timezone, err)
			}
			active := !inactive
			res, err := client.Queue.SetSlots(cmd.Context(), xsched.SetSlotsInput{
				ProfileID: profileID,
				Timezone:  timezone,
				Slots:     slots,
				Active:    &active,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	requireProfile(setCmd)
	setCmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone of the slots")
	setCmd.Flags().StringSliceVar(&rawSlots, "slot", nil, "Slot as <day>@<HH:MM>, day 0 (Sunday) to 6 (repeatable)")
	setCmd.Flags().BoolVar(&inactive, "paused", false, "Store the schedule as inactive")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the queue schedule of a profile",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Queue.DeleteSlots(cmd.Context(), profileID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	requireProfile(clearCmd)

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next free slot",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Queue.GetNextSlot(cmd.Context(), profileID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	requireProfile(nextCmd)

	var count int
	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "List upcoming slot times",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Queue.Preview(cmd.Context(), profileID, count)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	requireProfile(previewCmd)
	previewCmd.Flags().IntVar(&count, "count", 0, "Number of slots to preview")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Show the queue schedules of every profile",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Queue.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	cmd.AddCommand(slotsCmd, setCmd, clearCmd, nextCmd, previewCmd, allCmd)
	return cmd
}

// parseSlots parses "<day>@<HH:MM>" values and returns them in weekly order.
func parseSlots(values []string) ([]xsched.QueueSlot, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one --slot is required")
	}

	slots := make([]xsched.QueueSlot, 0, len(values))
	seen := map[xsched.QueueSlot]struct{}{}
	for _, raw := range values {
		day, clock, ok := strings.Cut(strings.TrimSpace(raw), "@")
		if !ok {
			return nil, fmt.Errorf("slot %q: expected <day>@<HH:MM>", raw)
		}
		d, err := strconv.Atoi(day)
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("slot %q: day must be 0-6", raw)
		}
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return nil, fmt.Errorf("slot %q: time must be HH:MM", raw)
		}
		slot := xsched.QueueSlot{DayOfWeek: d, Time: t.Format("15:04")}
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].Time < slots[j].Time
	})
	return slots, nil
}

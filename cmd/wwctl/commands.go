package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"waste-wrangler-service/internal/adapters/qualfeed"
)

// timeLayouts are accepted for --at, most specific first.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", time.DateTime}

func parseAt(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, want YYYY-MM-DD HH:MM", s)
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env, _ []string) error {
			if err := e.store.InitSchema(cmd.Context()); err != nil {
				return err
			}
			e.log.Info().Msg("schema ready")
			return nil
		}),
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Initialize the schema and load a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.store.InitSchema(cmd.Context()); err != nil {
				return err
			}
			if err := e.store.SeedFromYAML(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.log.Info().Str("path", args[0]).Msg("seeding complete")
			return nil
		}),
	}
}

func scheduleTripCmd() *cobra.Command {
	var (
		route int
		at    string
	)
	cmd := &cobra.Command{
		Use:   "schedule-trip",
		Short: "Schedule one route at a given start time",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env, _ []string) error {
			start, err := parseAt(at)
			if err != nil {
				return err
			}
			ok := e.sched.ScheduleTrip(cmd.Context(), route, start)
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		}),
	}
	cmd.Flags().IntVar(&route, "route", 0, "route id")
	cmd.Flags().StringVar(&at, "at", "", "start time, YYYY-MM-DD HH:MM")
	_ = cmd.MarkFlagRequired("route")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func scheduleTripsCmd() *cobra.Command {
	var (
		truck int
		date  string
	)
	cmd := &cobra.Command{
		Use:   "schedule-trips",
		Short: "Fill one truck's day with back-to-back trips",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env, _ []string) error {
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.sched.ScheduleTrips(cmd.Context(), truck, d))
			return nil
		}),
	}
	cmd.Flags().IntVar(&truck, "truck", 0, "truck id")
	cmd.Flags().StringVar(&date, "date", "", "day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("truck")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func scheduleMaintenanceCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "schedule-maintenance",
		Short: "Book technicians for every truck overdue for maintenance",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env, _ []string) error {
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.sched.ScheduleMaintenance(cmd.Context(), d))
			return nil
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "reference day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func workmateSphereCmd() *cobra.Command {
	var employee int
	cmd := &cobra.Command{
		Use:   "workmate-sphere",
		Short: "List everyone connected to an employee through shared trips",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env, _ []string) error {
			ids := e.sched.WorkmateSphere(cmd.Context(), employee)
			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = fmt.Sprint(id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return nil
		}),
	}
	cmd.Flags().IntVar(&employee, "employee", 0, "employee id")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}

func rerouteWasteCmd() *cobra.Command {
	var (
		facility int
		date     string
	)
	cmd := &cobra.Command{
		Use:   "reroute-waste",
		Short: "Move a facility's trips for one day to its alternate",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env, _ []string) error {
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.sched.RerouteWaste(cmd.Context(), facility, d))
			return nil
		}),
	}
	cmd.Flags().IntVar(&facility, "facility", 0, "facility id")
	cmd.Flags().StringVar(&date, "date", "", "day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("facility")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func updateTechniciansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-technicians <feed.txt>",
		Short: "Record technician qualifications from a feed file",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open feed: %w", err)
			}
			defer f.Close()

			records, err := qualfeed.Parse(f)
			if err != nil {
				var mErr *multierror.Error
				if !errors.As(err, &mErr) {
					return err
				}
				e.log.Warn().Err(err).Int("malformed", len(mErr.Errors)).Msg("skipping malformed records")
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.sched.UpdateTechnicians(cmd.Context(), records))
			return nil
		}),
	}
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Jigar634859/skyportal/internal/domain"
)

func flightsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flights",
		Aliases: []string{"flight"},
		Short:   "Browse and manage the flight catalog",
	}
	cmd.AddCommand(
		flightsListCmd(a),
		flightsGetCmd(a),
		flightsSearchCmd(a),
		flightsCreateCmd(a),
		flightsUpdateCmd(a),
		flightsDeleteCmd(a),
	)
	return cmd
}

func flightsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.Flights.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(list, func(w io.Writer) { writeFlights(w, list) })
		},
	}
}

func flightsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := a.svc.Flights.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(f, func(w io.Writer) { writeFlights(w, []domain.Flight{*f}) })
		},
	}
}

func flightsSearchCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "search FROM TO",
		Short: "Find flights on a route, optionally on one date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.Flights.Search(cmd.Context(), domain.SearchQuery{From: args[0], To: args[1], Date: date})
			if err != nil {
				return err
			}
			return a.print(list, func(w io.Writer) {
				if len(list) == 0 {
					fmt.Fprintf(w, "No flights from %s to %s\n", args[0], args[1])
					return
				}
				writeFlights(w, list)
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Departure date (YYYY-MM-DD)")
	return cmd
}

// flightFlags collects the editable flight fields as raw strings so that
// update can tell which ones were set.
type flightFlags struct {
	code, airline, from, to string
	depart, arrive          string
	price                   float64
	status                  string
}

func (f *flightFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "code", "", "Flight code, e.g. AI-202")
	cmd.Flags().StringVar(&f.airline, "airline", "", "Operating airline")
	cmd.Flags().StringVar(&f.from, "from", "", "Origin city")
	cmd.Flags().StringVar(&f.to, "to", "", "Destination city")
	cmd.Flags().StringVar(&f.depart, "depart", "", "Departure time (2006-01-02T15:04)")
	cmd.Flags().StringVar(&f.arrive, "arrive", "", "Arrival time (2006-01-02T15:04)")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Fare per passenger in INR")
	cmd.Flags().StringVar(&f.status, "status", "", "Scheduled, On Time, Delayed or Cancelled")
}

func (f *flightFlags) input() (domain.FlightInput, error) {
	in := domain.FlightInput{
		Code:    f.code,
		Airline: f.airline,
		From:    f.from,
		To:      f.to,
		Price:   f.price,
		Status:  domain.FlightStatus(f.status),
	}
	var err error
	if f.depart != "" {
		if in.DepartAt, err = domain.ParseDateTime(f.depart); err != nil {
			return in, err
		}
	}
	if f.arrive != "" {
		if in.ArriveAt, err = domain.ParseDateTime(f.arrive); err != nil {
			return in, err
		}
	}
	return in, nil
}

// patch keeps only the flags given on the command line.
func (f *flightFlags) patch(cmd *cobra.Command) (domain.FlightPatch, error) {
	var p domain.FlightPatch
	changed := cmd.Flags().Changed
	if changed("code") {
		p.Code = &f.code
	}
	if changed("airline") {
		p.Airline = &f.airline
	}
	if changed("from") {
		p.From = &f.from
	}
	if changed("to") {
		p.To = &f.to
	}
	if changed("depart") {
		d, err := domain.ParseDateTime(f.depart)
		if err != nil {
			return p, err
		}
		p.DepartAt = &d
	}
	if changed("arrive") {
		d, err := domain.ParseDateTime(f.arrive)
		if err != nil {
			return p, err
		}
		p.ArriveAt = &d
	}
	if changed("price") {
		p.Price = &f.price
	}
	if changed("status") {
		s := domain.FlightStatus(f.status)
		p.Status = &s
	}
	return p, nil
}

func flightsCreateCmd(a *app) *cobra.Command {
	var f flightFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a flight (administrator)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			created, err := a.svc.Flights.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(created, func(w io.Writer) {
				fmt.Fprintf(w, "Created flight %s (id %d)\n", created.Code, created.ID)
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func flightsUpdateCmd(a *app) *cobra.Command {
	var f flightFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a flight (administrator)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			updated, err := a.svc.Flights.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			return a.print(updated, func(w io.Writer) { writeFlights(w, []domain.Flight{*updated}) })
		},
	}
	f.bind(cmd)
	return cmd
}

func flightsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a flight (administrator)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Flights.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted flight %d\n", id)
			return nil
		},
	}
}

func writeFlights(w io.Writer, list []domain.Flight) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tAIRLINE\tFROM\tTO\tDEPARTS\tARRIVES\tFARE\tSTATUS")
	for _, f := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Code, f.Airline, f.From, f.To,
			formatDateTime(f.DepartAt), formatDateTime(f.ArriveAt),
			formatINR(f.Price), f.Status)
	}
	_ = tw.Flush()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("invalid id %q", s)
	}
	return id, nil
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/payment"
)

func bookCmd(a *app) *cobra.Command {
	var in domain.BookingInput
	var seat string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Pay for and book seats on a flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in.SeatPreference = domain.SeatClass(seat)
			if err := in.Validate(); err != nil {
				return err
			}
			flight, err := a.svc.Flights.GetByID(ctx, in.FlightID)
			if err != nil {
				return err
			}
			conf, err := a.gateway.Charge(ctx, payment.ChargeRequest{
				Amount:      flight.Price * float64(in.NumberOfPassengers),
				Currency:    "INR",
				Description: fmt.Sprintf("%s %s to %s", flight.Code, flight.From, flight.To),
				PayerEmail:  in.PassengerEmail,
			})
			if err != nil {
				return fmt.Errorf("payment: %w", err)
			}
			b, err := a.svc.Bookings.Create(ctx, in, conf)
			if err != nil {
				return err
			}
			return a.print(b, func(w io.Writer) {
				fmt.Fprintf(w, "Booking #%d confirmed on %s for %s (ref %s)\n",
					b.ID, flight.Code, formatINR(b.TotalPrice), b.PaymentReference)
			})
		},
	}
	cmd.Flags().Int64VarP(&in.FlightID, "flight", "f", 0, "Flight id")
	cmd.Flags().StringVar(&in.PassengerName, "name", "", "Lead passenger name")
	cmd.Flags().StringVar(&in.PassengerEmail, "email", "", "Contact email")
	cmd.Flags().StringVar(&in.PassengerPhone, "phone", "", "Contact phone")
	cmd.Flags().IntVarP(&in.NumberOfPassengers, "passengers", "n", 1, "Number of passengers")
	cmd.Flags().StringVar(&seat, "seat", string(domain.SeatClassEconomy), "Economy, Business or First")
	_ = cmd.MarkFlagRequired("flight")
	return cmd
}

func bookingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking"},
		Short:   "Review and amend your bookings",
	}
	cmd.AddCommand(bookingsListCmd(a), bookingsGetCmd(a), bookingsUpdateCmd(a))
	return cmd
}

func bookingsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.Bookings.ListMine(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(list, func(w io.Writer) {
				if len(list) == 0 {
					fmt.Fprintln(w, "No bookings yet")
					return
				}
				writeBookings(w, list)
			})
		},
	}
}

func bookingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.svc.Bookings.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(b, func(w io.Writer) { writeBookings(w, []domain.Booking{*b}) })
		},
	}
}

func bookingsUpdateCmd(a *app) *cobra.Command {
	var name, email, phone, seat string
	var passengers int
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change passenger details or seat class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p domain.BookingPatch
			changed := cmd.Flags().Changed
			if changed("name") {
				p.PassengerName = &name
			}
			if changed("email") {
				p.PassengerEmail = &email
			}
			if changed("phone") {
				p.PassengerPhone = &phone
			}
			if changed("passengers") {
				p.NumberOfPassengers = &passengers
			}
			if changed("seat") {
				s := domain.SeatClass(seat)
				p.SeatPreference = &s
			}
			b, err := a.svc.Bookings.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			return a.print(b, func(w io.Writer) { writeBookings(w, []domain.Booking{*b}) })
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Lead passenger name")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().IntVarP(&passengers, "passengers", "n", 0, "Number of passengers")
	cmd.Flags().StringVar(&seat, "seat", "", "Economy, Business or First")
	return cmd
}

func writeBookings(w io.Writer, list []domain.Booking) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFLIGHT\tPASSENGER\tPAX\tSEAT\tTOTAL\tPAYMENT\tBOOKED\tSTATUS")
	for _, b := range list {
		flight := fmt.Sprintf("#%d", b.FlightID)
		if b.Flight != nil {
			flight = b.Flight.Code
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, flight, b.PassengerName, b.NumberOfPassengers, b.SeatPreference,
			formatINR(b.TotalPrice), b.PaymentStatus, formatDateTime(b.BookingDate), b.Status)
	}
	_ = tw.Flush()
}

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/telemedhq/telemed/internal/api"
)

func (a *App) appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Book and manage appointments",
	}
	cmd.AddCommand(
		a.appointmentsBookCmd(),
		a.appointmentsListCmd(),
		a.appointmentsCancelCmd(),
		a.appointmentsCompleteCmd(),
	)
	return cmd
}

func (a *App) appointmentsBookCmd() *cobra.Command {
	var req api.AppointmentRequest
	var start string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment with a doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guardRoute("/book-appointment"); err != nil {
				return err
			}
			if start != "" {
				// Accepted in the caller's local zone; sent as a UTC instant.
				t, err := time.ParseInLocation("2006-01-02 15:04", start, time.Local)
				if err != nil {
					return fmt.Errorf("invalid start time %q, want YYYY-MM-DD HH:MM", start)
				}
				req.StartTime = t
			}
			env, err := a.Client.BookAppointment(cmdContext(cmd), req)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			var booked struct {
				ID          int64  `json:"id"`
				MeetingLink string `json:"meetingLink"`
			}
			if err := env.DecodeData(&booked); err != nil {
				return err
			}
			a.printf("appointment #%d booked, meeting link: %s\n", booked.ID, booked.MeetingLink)
			return nil
		},
	}
	cmd.Flags().Int64Var(&req.DoctorID, "doctor", 0, "doctor id (see 'telemed doctors list')")
	cmd.Flags().StringVar(&req.PurposeOfConsultation, "purpose", "", "purpose of the consultation")
	cmd.Flags().StringVar(&req.InitialSymptoms, "symptoms", "", "initial symptoms")
	cmd.Flags().StringVar(&start, "start", "", "start time, 'YYYY-MM-DD HH:MM' local time")
	return cmd
}

func (a *App) appointmentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := "/my-appointments"
			if a.Session.IsDoctor() {
				page = "/doctor/appointments"
			}
			if err := a.guardRoute(page); err != nil {
				return err
			}
			env, err := a.Client.ListMyAppointments(cmdContext(cmd))
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			var list []struct {
				ID                    int64     `json:"id"`
				StartTime             time.Time `json:"startTime"`
				Status                string    `json:"status"`
				PurposeOfConsultation string    `json:"purposeOfConsultation"`
			}
			if err := env.DecodeData(&list); err != nil {
				return err
			}
			t := a.table([]string{"ID", "Start", "Status", "Purpose"})
			for _, item := range list {
				t.Append([]string{
					strconv.FormatInt(item.ID, 10),
					item.StartTime.Local().Format("2006-01-02 15:04"),
					item.Status,
					item.PurposeOfConsultation,
				})
			}
			t.Render()
			return nil
		},
	}
}

func (a *App) appointmentsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "appointment")
			if err != nil {
				return err
			}
			// Either party may cancel, from their own appointments page.
			page := "/my-appointments"
			if a.Session.IsDoctor() {
				page = "/doctor/appointments"
			}
			if err := a.guardRoute(page); err != nil {
				return err
			}
			env, err := a.Client.CancelAppointment(cmdContext(cmd), id)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("appointment #%d cancelled\n", id)
			return nil
		},
	}
}

func (a *App) appointmentsCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an appointment completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "appointment")
			if err != nil {
				return err
			}
			if err := a.guardRoute("/doctor/appointments"); err != nil {
				return err
			}
			env, err := a.Client.CompleteAppointment(cmdContext(cmd), id)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("appointment #%d completed\n", id)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

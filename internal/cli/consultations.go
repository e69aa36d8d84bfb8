package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/telemedhq/telemed/internal/api"
)

func (a *App) consultationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consultations",
		Short: "File and review consultation notes",
	}
	cmd.AddCommand(
		a.consultationsCreateCmd(),
		a.consultationsShowCmd(),
		a.consultationsHistoryCmd(),
	)
	return cmd
}

func (a *App) consultationsCreateCmd() *cobra.Command {
	var note api.ConsultationNote
	cmd := &cobra.Command{
		Use:   "create",
		Short: "File a consultation note for a completed appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guardRoute("/doctor/create-consultation"); err != nil {
				return err
			}
			env, err := a.Client.CreateConsultation(cmdContext(cmd), note)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("consultation filed for appointment #%d\n", note.AppointmentID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&note.AppointmentID, "appointment", 0, "appointment id")
	cmd.Flags().StringVar(&note.SubjectiveNotes, "subjective", "", "subjective notes")
	cmd.Flags().StringVar(&note.ObjectiveFindings, "objective", "", "objective findings")
	cmd.Flags().StringVar(&note.Assessment, "assessment", "", "assessment")
	cmd.Flags().StringVar(&note.Plan, "plan", "", "treatment plan")
	_ = cmd.MarkFlagRequired("appointment")
	return cmd
}

func (a *App) consultationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <appointment-id>",
		Short: "Show the note attached to an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "appointment")
			if err != nil {
				return err
			}
			page := "/consultation-history"
			if a.Session.IsDoctor() {
				page = "/doctor/patient-consultation-history"
			}
			if err := a.guardRoute(page); err != nil {
				return err
			}
			env, err := a.Client.GetConsultationByAppointmentID(cmdContext(cmd), id)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			return a.printJSON(env.Data)
		},
	}
}

func (a *App) consultationsHistoryCmd() *cobra.Command {
	var patientID int64
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List consultation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Patients read their own record; doctors name a patient.
			var pid *int64
			page := "/consultation-history"
			if a.Session.IsDoctor() {
				page = "/doctor/patient-consultation-history"
				if patientID > 0 {
					pid = &patientID
				}
			}
			if err := a.guardRoute(page); err != nil {
				return err
			}
			env, err := a.Client.GetConsultationHistory(cmdContext(cmd), pid)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			var history []struct {
				AppointmentID int64  `json:"appointmentId"`
				Assessment    string `json:"assessment"`
				Plan          string `json:"plan"`
				CreatedAt     string `json:"createdAt"`
			}
			if err := env.DecodeData(&history); err != nil {
				return err
			}
			t := a.table([]string{"Appointment", "Assessment", "Plan", "Created"})
			for _, h := range history {
				t.Append([]string{
					strconv.FormatInt(h.AppointmentID, 10),
					h.Assessment,
					h.Plan,
					h.CreatedAt,
				})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().Int64Var(&patientID, "patient", 0, "patient id (doctors only)")
	return cmd
}

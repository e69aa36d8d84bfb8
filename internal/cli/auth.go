package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/telemedhq/telemed/internal/api"
)

func (a *App) loginCmd() *cobra.Command {
	var creds api.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.Login(cmdContext(cmd), creds)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}

			var res api.AuthResult
			if err := env.DecodeData(&res); err != nil {
				return err
			}
			// Token and roles are persisted together, atomically.
			if err := a.Session.Save(res.Token, res.Roles); err != nil {
				return err
			}
			a.printf("logged in with roles %v\n", res.Roles)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Session.Clear(); err != nil {
				return err
			}
			a.printf("logged out\n")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guardRoute("/update-password"); err != nil {
				return err
			}
			env, err := a.Client.GetCurrentUser(cmdContext(cmd))
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			var u struct {
				ID    int64    `json:"id"`
				Name  string   `json:"name"`
				Email string   `json:"email"`
				Roles []string `json:"roles"`
			}
			if err := env.DecodeData(&u); err != nil {
				return err
			}
			a.printf("#%d %s <%s> roles=%v\n", u.ID, u.Name, u.Email, u.Roles)
			return nil
		},
	}
}

func (a *App) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a patient or doctor account",
	}

	var patient api.PatientRegistration
	patientCmd := &cobra.Command{
		Use:   "patient",
		Short: "Create a patient account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.RegisterPatient(cmdContext(cmd), patient)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("account created, you can log in now\n")
			return nil
		},
	}
	patientCmd.Flags().StringVar(&patient.Name, "name", "", "full name")
	patientCmd.Flags().StringVar(&patient.Email, "email", "", "account email")
	patientCmd.Flags().StringVar(&patient.Password, "password", "", "password (min 4 characters)")
	patientCmd.Flags().StringVar(&patient.ConfirmPassword, "confirm-password", "", "password confirmation")

	var doctor api.DoctorRegistration
	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Create a doctor account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.RegisterDoctor(cmdContext(cmd), doctor)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("doctor account created, you can log in now\n")
			return nil
		},
	}
	doctorCmd.Flags().StringVar(&doctor.Name, "name", "", "full name")
	doctorCmd.Flags().StringVar(&doctor.Email, "email", "", "account email")
	doctorCmd.Flags().StringVar(&doctor.Password, "password", "", "password (min 4 characters)")
	doctorCmd.Flags().StringVar(&doctor.LicenseNumber, "license", "", "medical license number")
	doctorCmd.Flags().StringVar(&doctor.Specialization, "specialization", "", "specialization (see 'telemed enums specializations')")

	cmd.AddCommand(patientCmd, doctorCmd)
	return cmd
}

func (a *App) forgotPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.ForgotPassword(cmdContext(cmd), email)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("%s\n", env.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *App) resetPasswordCmd() *cobra.Command {
	var reset api.PasswordReset
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using an emailed reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.ResetPassword(cmdContext(cmd), reset)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("password reset, you can log in now\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&reset.Code, "code", "", "reset code from the email")
	cmd.Flags().StringVar(&reset.NewPassword, "new-password", "", "new password (min 4 characters)")
	cmd.Flags().StringVar(&reset.ConfirmPassword, "confirm-password", "", "password confirmation")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func (a *App) passwdCmd() *cobra.Command {
	var upd api.PasswordUpdate
	var confirm string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the current account's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guardRoute("/update-password"); err != nil {
				return err
			}
			if upd.NewPassword != confirm {
				return errors.New("passwords do not match")
			}
			env, err := a.Client.UpdatePassword(cmdContext(cmd), upd)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			// A successful change forces re-authentication.
			if err := a.Session.Clear(); err != nil {
				return err
			}
			a.printf("password updated, please log in again\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&upd.OldPassword, "old-password", "", "current password")
	cmd.Flags().StringVar(&upd.NewPassword, "new-password", "", "new password (min 4 characters)")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "password confirmation")
	return cmd
}

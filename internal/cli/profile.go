package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/telemedhq/telemed/internal/api"
)

// profileCmd serves both roles: the session decides whether the patient or
// doctor profile surface is used.
func (a *App) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}
	cmd.AddCommand(a.profileShowCmd(), a.profileUpdateCmd())
	return cmd
}

func (a *App) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var env *api.Envelope
			var err error
			if a.Session.IsDoctor() {
				if err := a.guardRoute("/doctor/profile"); err != nil {
					return err
				}
				env, err = a.Client.GetMyDoctorProfile(cmdContext(cmd))
			} else {
				if err := a.guardRoute("/profile"); err != nil {
					return err
				}
				env, err = a.Client.GetMyPatientProfile(cmdContext(cmd))
			}
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

func (a *App) profileUpdateCmd() *cobra.Command {
	var patient api.PatientProfileUpdate
	var doctor api.DoctorProfileUpdate
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var env *api.Envelope
			var err error
			if a.Session.IsDoctor() {
				if err := a.guardRoute("/doctor/update-profile"); err != nil {
					return err
				}
				env, err = a.Client.UpdateMyDoctorProfile(cmdContext(cmd), doctor)
			} else {
				if err := a.guardRoute("/update-profile"); err != nil {
					return err
				}
				env, err = a.Client.UpdateMyPatientProfile(cmdContext(cmd), patient)
			}
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("profile updated\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&patient.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&patient.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&patient.Phone, "phone", "", "phone number (patients)")
	cmd.Flags().StringVar(&patient.DateOfBirth, "date-of-birth", "", "date of birth, YYYY-MM-DD (patients)")
	cmd.Flags().StringVar(&patient.KnownAllergies, "allergies", "", "known allergies (patients)")
	cmd.Flags().StringVar(&patient.BloodGroup, "blood-group", "", "blood group (patients, see 'telemed enums bloodgroups')")
	cmd.Flags().StringVar(&patient.Genotype, "genotype", "", "genotype (patients, see 'telemed enums genotypes')")
	cmd.Flags().StringVar(&doctor.Specialization, "specialization", "", "specialization (doctors)")

	// Doctors share the name flags.
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		doctor.FirstName = patient.FirstName
		doctor.LastName = patient.LastName
	}
	return cmd
}

func (a *App) uploadPictureCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "upload-picture",
		Short: "Upload a profile picture",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			pic := api.ProfilePicture{
				Filename:    filepath.Base(path),
				ContentType: mime.TypeByExtension(filepath.Ext(path)),
				Size:        info.Size(),
				Reader:      f,
			}

			var env *api.Envelope
			if a.Session.IsDoctor() {
				if err := a.guardRoute("/doctor/update-profile"); err != nil {
					return err
				}
				env, err = a.Client.UploadDoctorProfilePicture(cmdContext(cmd), pic)
			} else {
				if err := a.guardRoute("/update-profile"); err != nil {
					return err
				}
				env, err = a.Client.UploadPatientProfilePicture(cmdContext(cmd), pic)
			}
			if err != nil {
				if api.IsValidation(err) {
					return err
				}
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			a.printf("profile picture uploaded\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "image file to upload (JPEG, PNG or GIF)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// printJSON indents a raw envelope payload for terminal display.
func (a *App) printJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		return errors.New(genericFailure)
	}
	var buf map[string]any
	if err := json.Unmarshal(raw, &buf); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", out)
	return nil
}

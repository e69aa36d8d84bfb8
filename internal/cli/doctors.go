package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/telemedhq/telemed/internal/api"
)

func (a *App) doctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Browse registered doctors",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.ListDoctors(cmdContext(cmd))
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			var doctors []struct {
				ID             int64  `json:"id"`
				FirstName      string `json:"firstName"`
				LastName       string `json:"lastName"`
				Specialization string `json:"specialization"`
			}
			if err := env.DecodeData(&doctors); err != nil {
				return err
			}
			t := a.table([]string{"ID", "Name", "Specialization"})
			for _, d := range doctors {
				t.Append([]string{
					strconv.FormatInt(d.ID, 10),
					fmt.Sprintf("%s %s", d.FirstName, d.LastName),
					d.Specialization,
				})
			}
			t.Render()
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid doctor id %q", args[0])
			}
			env, err := a.Client.GetDoctorByID(cmdContext(cmd), id)
			if err != nil {
				return renderError(err)
			}
			if !env.OK() {
				return fail(env)
			}
			return a.printJSON(env.Data)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

// enumsCmd exposes the reference lists the registration and profile forms
// use. All three are public and cached client-side.
func (a *App) enumsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enums",
		Short: "List reference values",
	}

	genotypes := &cobra.Command{
		Use:   "genotypes",
		Short: "List genotype values",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.ListGenotypes(cmdContext(cmd))
			if err != nil {
				return renderError(err)
			}
			return a.printValues(env)
		},
	}
	bloodgroups := &cobra.Command{
		Use:   "bloodgroups",
		Short: "List blood group values",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.ListBloodGroups(cmdContext(cmd))
			if err != nil {
				return renderError(err)
			}
			return a.printValues(env)
		},
	}
	specializations := &cobra.Command{
		Use:   "specializations",
		Short: "List doctor specializations",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.Client.ListSpecializations(cmdContext(cmd))
			if err != nil {
				return renderError(err)
			}
			return a.printValues(env)
		},
	}

	cmd.AddCommand(genotypes, bloodgroups, specializations)
	return cmd
}

// printValues renders a flat enum payload, one value per line.
func (a *App) printValues(env *api.Envelope) error {
	if !env.OK() {
		return fail(env)
	}
	var values []string
	if err := env.DecodeData(&values); err != nil {
		return err
	}
	for _, v := range values {
		a.printf("%s\n", v)
	}
	return nil
}

// Package cli implements the telemed command tree. Commands are thin
// callers of the API access layer: they validate input, consult the route
// guard, dispatch one operation and render the envelope. Deciding what
// counts as success stays here, at the call site.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telemedhq/telemed/internal/api"
	"github.com/telemedhq/telemed/internal/config"
	"github.com/telemedhq/telemed/internal/guard"
	"github.com/telemedhq/telemed/internal/logger"
	"github.com/telemedhq/telemed/internal/session"
)

// genericFailure is shown when the server supplies no message of its own.
const genericFailure = "the request could not be completed, please try again"

// App wires the session store, API client and logger for every command.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Session *session.Store
	Client  *api.Client
	Out     io.Writer
}

// NewRootCmd builds the full command tree. Dependencies are initialized in
// the persistent pre-run so flags and config are resolved first.
func NewRootCmd() *cobra.Command {
	app := &App{Out: os.Stdout}

	root := &cobra.Command{
		Use:           "telemed",
		Short:         "Client for the telemedicine scheduling platform",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	root.AddCommand(
		app.loginCmd(),
		app.logoutCmd(),
		app.whoamiCmd(),
		app.registerCmd(),
		app.forgotPasswordCmd(),
		app.resetPasswordCmd(),
		app.passwdCmd(),
		app.profileCmd(),
		app.uploadPictureCmd(),
		app.doctorsCmd(),
		app.enumsCmd(),
		app.appointmentsCmd(),
		app.consultationsCmd(),
	)
	return root
}

func (a *App) init() error {
	// A .env in the working directory is a developer convenience; a
	// missing one is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.Config = cfg

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.Log = log

	a.Session = session.NewStore(cfg.Session.Path)
	if err := a.Session.Load(); err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	origin := cfg.API.BaseURL
	if origin == "" {
		origin = api.ResolveBaseURL(cfg.API.Scheme, cfg.API.Host, cfg.API.Port)
	}
	a.Client = api.New(origin, a.Session, log)
	return nil
}

// guardRoute re-evaluates the route guard for the page a command mirrors.
// Guard state is never cached: a login or logout between two commands
// changes the outcome.
func (a *App) guardRoute(path string) error {
	class := guard.Resolve(path)
	if d := guard.Evaluate(class, a.Session); !d.Allow {
		return fmt.Errorf("%s requires a %s session; run 'telemed login' first", path, class)
	}
	return nil
}

// fail turns a non-success envelope into a user-facing error, preferring
// the server's message.
func fail(env *api.Envelope) error {
	if env.Message != "" {
		return errors.New(env.Message)
	}
	return errors.New(genericFailure)
}

// renderError maps transport failures to user-facing text, falling back to
// the generic message when the server said nothing.
func renderError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Kind == api.KindTimeout:
			return errors.New("the server took too long to respond, please try again")
		case apiErr.Message != "":
			return errors.New(apiErr.Message)
		case apiErr.Kind == api.KindNetwork:
			return errors.New("could not reach the server, check your connection")
		default:
			return errors.New(genericFailure)
		}
	}
	return err
}

// table returns a writer configured like the rest of the CLI's listings.
func (a *App) table(headers []string) *tablewriter.Table {
	t := tablewriter.NewWriter(a.Out)
	t.SetHeader(headers)
	t.SetBorder(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

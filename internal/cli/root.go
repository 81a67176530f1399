// Package cli implements the chaos command, a terminal front-end that drives
// the same page controllers as the web portal.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hargabyte/chaos-web/internal/config"
	"github.com/hargabyte/chaos-web/internal/session"
	"github.com/hargabyte/chaos-web/internal/view"
	"github.com/hargabyte/chaos-web/pkg/sdk"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ErrNotOK is returned when a command ran but the API did not answer Ok.
// The reason has already been printed.
var ErrNotOK = errors.New("command failed")

type app struct {
	out, errOut io.Writer
	jsonOut     bool

	cfg    *config.Config
	client *sdk.Client
	jar    *session.File
}

// NewRootCommand builds the chaos command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "chaos",
		Short:         "Command-line access to your CHAOS memories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.profileCmd(),
		a.memoriesCmd(),
		a.adminCmd(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, ErrNotOK) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, err := sdk.NewClient(cfg.APIBaseURL, sdk.WithTimeout(cfg.APITimeout))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.client = client
	a.jar = session.New(cfg.SessionFile, passphrase(cfg))
	return nil
}

// passphrase seals the session file. Without CHAOS_SESSION_KEY the file is
// bound to this machine and home directory.
func passphrase(cfg *config.Config) string {
	if cfg.SessionKey != "" {
		return cfg.SessionKey
	}
	host, _ := os.Hostname()
	return host + ":" + filepath.Dir(cfg.SessionFile)
}

// controller returns a controller using the saved session, if any.
func (a *app) controller() (*view.Controller, error) {
	cookies, err := a.jar.Load()
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return nil, err
	}
	return view.NewController(a.client.Session(cookies), nil), nil
}

// settle reports a non-Ok outcome and turns it into ErrNotOK.
func (a *app) settle(st view.State, eff view.Effect) error {
	switch eff.Kind {
	case view.Redirect:
		if eff.Location == view.LoginPath {
			fmt.Fprintln(a.errOut, "Not logged in. Run `chaos login` first.")
			return ErrNotOK
		}
	case view.Deny:
		fmt.Fprintln(a.errOut, eff.Message)
		return ErrNotOK
	case view.Confirm:
		fmt.Fprintln(a.errOut, eff.Message, "Re-run with --yes to confirm.")
		return ErrNotOK
	}
	for _, msg := range []string{st.Denied, st.Error, st.Alert} {
		if msg != "" {
			fmt.Fprintln(a.errOut, msg)
			return ErrNotOK
		}
	}
	return nil
}

func (a *app) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}

package cli

import (
	"time"

	"github.com/dmitrijs2005/heartlink/internal/client/config"
	"github.com/spf13/cobra"
)

// rootFlags are the persistent flags; each one overrides the config
// layers only when given.
type rootFlags struct {
	configPath  string
	addr        string
	sessionFile string
	timeout     time.Duration
	baseURL     string
}

// NewRootCommand builds the heartctl command tree.
func NewRootCommand() *cobra.Command {
	var (
		flags rootFlags
		app   *App
	)

	cmd := &cobra.Command{
		Use:   "heartctl",
		Short: "Command-line client for HeartLink proposals",
		Long: `heartctl creates and manages HeartLink proposals from the terminal.

Sign in with "heartctl login" (or create an account with "heartctl signup"),
then create a proposal and share the link it prints.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, flags)
			app = NewApp(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (JSON or YAML)")
	pf.StringVarP(&flags.addr, "addr", "a", "", "address and port of the HeartLink gRPC endpoint")
	pf.StringVarP(&flags.sessionFile, "session", "s", "", "session file path")
	pf.DurationVarP(&flags.timeout, "timeout", "t", 0, "timeout for server calls")
	pf.StringVar(&flags.baseURL, "base-url", "", "public site URL used for personal links")

	appFn := func() *App { return app }
	cmd.AddCommand(
		newPingCommand(appFn),
		newSignupCommand(appFn),
		newLoginCommand(appFn),
		newLogoutCommand(appFn),
		newCreateCommand(appFn),
		newListCommand(appFn),
		newShowCommand(appFn),
		newDeleteCommand(appFn),
		newLetterCommand(appFn),
		newLinkCommand(appFn),
		newRingCommand(appFn),
	)

	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, f rootFlags) {
	changed := cmd.Flags().Changed
	if changed("addr") {
		cfg.ServerEndpointAddr = f.addr
	}
	if changed("session") {
		cfg.SessionFile = f.sessionFile
	}
	if changed("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if changed("base-url") {
		cfg.PublicBaseURL = f.baseURL
	}
}

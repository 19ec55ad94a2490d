package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/heartlink/internal/links"
	"github.com/spf13/cobra"
)

func newLinkCommand(app func() *App) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print a personal proposal link without creating an account record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Link(from, to)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "your name")
	cmd.Flags().StringVar(&to, "to", "", "their name")
	return cmd
}

func (a *App) Link(from, to string) error {
	from, err := valueOrPrompt(from, a.in, "Your name", a.out)
	if err != nil {
		return err
	}
	to, err = valueOrPrompt(to, a.in, "Their name", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return fmt.Errorf("both names are required")
	}
	fmt.Fprintln(a.out, links.PersonalURL(a.config.PublicBaseURL, from, to))
	return nil
}

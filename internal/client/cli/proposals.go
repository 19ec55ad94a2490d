package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/rpcapi"
	"github.com/spf13/cobra"
)

func newCreateCommand(app func() *App) *cobra.Command {
	var letter, letterFile, keywords string
	cmd := &cobra.Command{
		Use:   "create <recipient name>",
		Short: "Create a proposal and print its share link",
		Long: `Create a proposal for the named person.

The letter comes from --letter or --letter-file. Without either, the server
writes one from --keywords, or uses its default letter when no keywords are
given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if letterFile != "" {
				b, err := os.ReadFile(letterFile)
				if err != nil {
					return fmt.Errorf("read letter: %w", err)
				}
				letter = string(b)
			}
			return app().Create(cmd.Context(), strings.Join(args, " "), letter, keywords)
		},
	}
	cmd.Flags().StringVarP(&letter, "letter", "l", "", "letter text")
	cmd.Flags().StringVarP(&letterFile, "letter-file", "f", "", "read the letter from a file")
	cmd.Flags().StringVarP(&keywords, "keywords", "k", "", "themes for a generated letter")
	cmd.MarkFlagsMutuallyExclusive("letter", "letter-file")
	return cmd
}

func (a *App) Create(ctx context.Context, recipient, letter, keywords string) error {
	return a.authed(ctx, func(ctx context.Context, c apiClient) error {
		p, err := c.CreateProposal(ctx, recipient, letter, keywords)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Proposal for %s created (id %s).\nShare this link: %s\n", p.RecipientName, p.ID, p.ShareURL)
		return nil
	})
}

func newListCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the proposals you have sent",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().List(cmd.Context())
		},
	}
}

func (a *App) List(ctx context.Context) error {
	return a.authed(ctx, func(ctx context.Context, c apiClient) error {
		list, err := c.ListProposals(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(a.out, "No proposals yet.")
			return nil
		}

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tRECIPIENT\tCREATED\tLINK")
		for _, p := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.RecipientName, p.CreatedAt.Local().Format(time.DateTime), p.ShareURL)
		}
		return tw.Flush()
	})
}

func newShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal and whether it has been answered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Show(cmd.Context(), args[0])
		},
	}
}

func (a *App) Show(ctx context.Context, id string) error {
	return a.authed(ctx, func(ctx context.Context, c apiClient) error {
		p, err := c.GetProposal(ctx, id)
		if err != nil {
			return err
		}
		printProposal(a, p)
		return nil
	})
}

func printProposal(a *App, p *rpcapi.Proposal) {
	fmt.Fprintf(a.out, "To:      %s\n", p.RecipientName)
	fmt.Fprintf(a.out, "From:    %s\n", p.SenderName)
	fmt.Fprintf(a.out, "Status:  %s\n", p.Status)
	fmt.Fprintf(a.out, "Created: %s\n", p.CreatedAt.Local().Format(time.DateTime))
	if p.RespondedAt != nil {
		fmt.Fprintf(a.out, "Answered: %s\n", p.RespondedAt.Local().Format(time.DateTime))
	}
	if p.ShareURL != "" {
		fmt.Fprintf(a.out, "Link:    %s\n", p.ShareURL)
	}
	fmt.Fprintf(a.out, "\n%s\n", p.Letter)
}

func newDeleteCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one of your proposals",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Delete(cmd.Context(), args[0])
		},
	}
}

func (a *App) Delete(ctx context.Context, id string) error {
	return a.authed(ctx, func(ctx context.Context, c apiClient) error {
		if err := c.DeleteProposal(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Proposal %s deleted.\n", id)
		return nil
	})
}

func newLetterCommand(app func() *App) *cobra.Command {
	var to, keywords string
	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Write a proposal letter with AI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Letter(cmd.Context(), to, keywords)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient name")
	cmd.Flags().StringVarP(&keywords, "keywords", "k", "", "themes and memories to weave in")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("keywords")
	return cmd
}

func (a *App) Letter(ctx context.Context, to, keywords string) error {
	return a.authed(ctx, func(ctx context.Context, c apiClient) error {
		letter, err := c.GenerateLetter(ctx, to, keywords)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, letter)
		return nil
	})
}

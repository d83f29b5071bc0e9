package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/listenupapp/readinglog-server/internal/domain"
	"github.com/listenupapp/readinglog-server/internal/library"
)

func newShowCmd(opts *options) *cobra.Command {
	var booksOnly bool

	cmd := &cobra.Command{
		Use:   "show <tenant>",
		Short: "Print a tenant's document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			doc, err := e.store.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			if booksOnly {
				return writeJSON(cmd.OutOrStdout(), doc.Books)
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().BoolVar(&booksOnly, "books", false, "Print only the book collection")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <tenant>",
		Short: "Print a tenant's reading statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.resolve(args[0])
			if err != nil {
				return err
			}

			var stats domain.Stats
			err = e.store.View(cmd.Context(), id, func(doc *domain.TenantDocument) error {
				stats = library.ComputeStats(doc.Books, e.store.Now())
				return nil
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func newResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <tenant>",
		Short: "Delete every book and zero the operation counter, keeping the user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			result, err := e.store.Reset(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %s: deleted %d books, previous operations %d\n",
				id, result.DeletedBooks, result.PreviousOperations)
			return nil
		},
	}
}

func newPurgeCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge <tenant>",
		Short: "Remove a tenant's stored document entirely, user included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("purge deletes the user record too; pass --yes to confirm")
			}

			e, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			if err := e.store.Purge(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the purge")
	return cmd
}

func newTenantsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tenants",
		Short: "List registered tenants and whether they have a stored document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			stored, err := e.store.Tenants(cmd.Context())
			if err != nil {
				return err
			}
			has := make(map[string]bool, len(stored))
			for _, id := range stored {
				has[id] = true
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTORED")
			for _, p := range e.registry.List() {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", p.ID, p.Name, has[p.ID])
			}
			return tw.Flush()
		},
	}
}

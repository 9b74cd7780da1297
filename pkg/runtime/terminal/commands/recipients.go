package commands

import (
	"context"
	"fmt"

	duckdbrecipients "github.com/de-tools/sales-atlas/pkg/store/duckdb/recipients"
	"github.com/de-tools/sales-atlas/pkg/store/recipients"
	"github.com/spf13/cobra"
)

func NewRecipientsCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipients",
		Short: "Manage auto-report recipients stored in DuckDB",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add ID...",
		Short: "Add recipients",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.App == nil {
				return errNoApp
			}
			var added int
			err := deps.App.InTransaction(cmd.Context(), func(ctx context.Context, store duckdbrecipients.Store) error {
				var err error
				added, err = store.Add(ctx, args...)
				return err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.Output, "%d recipient(s) added\n", added)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove ID",
		Short: "Remove a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.App == nil {
				return errNoApp
			}
			store, err := deps.App.RecipientStore()
			if err != nil {
				return err
			}
			removed, err := store.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("recipient %s not found", args[0])
			}
			_, err = fmt.Fprintf(deps.Output, "recipient %s removed\n", args[0])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recipients in the order they were added",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.App == nil {
				return errNoApp
			}
			store, err := deps.App.RecipientStore()
			if err != nil {
				return err
			}
			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range list {
				if _, err := fmt.Fprintf(deps.Output, "%s\t%s\n", r.ID, r.AddedAt.Format("2006-01-02 15:04:05")); err != nil {
					return err
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Import recipients from a JSON array file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.App == nil {
				return errNoApp
			}
			ids, err := recipients.NewFileSource(args[0]).ListRecipients(cmd.Context())
			if err != nil {
				return err
			}

			var added int
			err = deps.App.InTransaction(cmd.Context(), func(ctx context.Context, store duckdbrecipients.Store) error {
				var err error
				added, err = store.Add(ctx, ids...)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to import recipients: %w", err)
			}
			_, err = fmt.Fprintf(deps.Output, "%d of %d recipient(s) imported\n", added, len(ids))
			return err
		},
	})

	return cmd
}

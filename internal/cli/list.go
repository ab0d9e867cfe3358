package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List sealed documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := c.services.LibraryService.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			if len(docs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), uiInfo.Sprint("→")+" The vault is empty. Seal a first document with "+uiHighlight.Sprint("docvault seal NAME FILE"))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tSEALED\tUPDATED")
			for _, doc := range docs {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
					doc.Name,
					doc.Size,
					doc.CreatedAt.Local().Format("2006-01-02 15:04"),
					doc.UpdatedAt.Local().Format("2006-01-02 15:04"),
				)
			}
			return w.Flush()
		},
	}
}

func (c *CLI) newRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a sealed document from the vault",
		Long: `Deletes a document's container file and its catalog entry. The sealed
content is unrecoverable afterwards, with or without the password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !force && !confirm(fmt.Sprintf("Permanently remove %q?", name)) {
				fmt.Fprintln(cmd.ErrOrStderr(), uiWarning.Sprint("⚠")+" Removal cancelled.")
				return nil
			}

			if err := c.services.LibraryService.RemoveDocument(cmd.Context(), name); err != nil {
				return fmt.Errorf("remove %q: %w", name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), uiSuccess.Sprint("✓")+fmt.Sprintf(" Removed %s", uiHighlight.Sprint(name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

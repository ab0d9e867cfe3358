package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkurmanov/docvault/internal/crypto"
)

func (c *CLI) newRotateCmd() *cobra.Command {
	var viaRecovery bool

	cmd := &cobra.Command{
		Use:   "rotate NAME",
		Short: "Change a document's password",
		Long: `Re-keys a document under a new password. The document content and its
recovery secret are untouched: the secret issued at seal time keeps
working after any number of rotations.

With --recovery the current password is not needed; the recovery
secret authorizes the change instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var credential []byte
			var err error
			if viaRecovery {
				credential, err = promptRecoverySecret("Recovery secret: ")
			} else {
				credential, err = promptPassword("Current password: ")
			}
			if err != nil {
				return err
			}
			defer crypto.Zero(credential)

			newPassword, err := promptPasswordConfirm("New password: ", "Confirm new password: ")
			if err != nil {
				return err
			}
			defer crypto.Zero(newPassword)

			s, cleanup := startSpinner(cmd.ErrOrStderr(), "Rotating password...", c.flags.verbose)
			defer cleanup()

			if viaRecovery {
				err = c.services.LibraryService.RotateDocumentWithRecovery(cmd.Context(), name, string(credential), string(newPassword))
			} else {
				err = c.services.LibraryService.RotateDocument(cmd.Context(), name, string(credential), string(newPassword))
			}
			if err != nil {
				return fmt.Errorf("rotate %q: %w", name, err)
			}

			s.FinalMSG = uiSuccess.Sprint("✓") + fmt.Sprintf(" Password rotated for %s", uiHighlight.Sprint(name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&viaRecovery, "recovery", false, "authorize the rotation with the recovery secret")
	return cmd
}

func (c *CLI) newReissueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reissue NAME",
		Short: "Issue a fresh recovery secret for a document",
		Long: `Replaces a document's recovery secret with a newly generated one.
The old secret stops working immediately; the password is unchanged.
Use this when a recovery secret may have been exposed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			defer crypto.Zero(password)

			s, cleanup := startSpinner(cmd.ErrOrStderr(), "Reissuing recovery secret...", c.flags.verbose)
			defer cleanup()

			secret, err := c.services.LibraryService.ReissueDocumentRecovery(cmd.Context(), name, string(password))
			if err != nil {
				return fmt.Errorf("reissue recovery secret for %q: %w", name, err)
			}

			s.FinalMSG = uiSuccess.Sprint("✓") + fmt.Sprintf(" Recovery secret reissued for %s; the old one no longer works", uiHighlight.Sprint(name))
			cleanup()
			c.announceRecoverySecret(cmd, name, secret)
			return nil
		},
	}
}

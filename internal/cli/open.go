package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkurmanov/docvault/internal/crypto"
)

func (c *CLI) newOpenCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "open NAME",
		Short: "Open a sealed document with its password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			defer crypto.Zero(password)

			plaintext, err := c.services.LibraryService.OpenDocument(cmd.Context(), args[0], string(password))
			if err != nil {
				return fmt.Errorf("open %q: %w", args[0], err)
			}
			defer crypto.Zero(plaintext)

			return writeOpened(cmd, args[0], plaintext, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write plaintext to this file instead of stdout")
	return cmd
}

func (c *CLI) newRecoverCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "recover NAME",
		Short: "Open a sealed document with its recovery secret",
		Long: `Opens a document using the recovery secret issued when it was sealed
(or last reissued), for when the password is lost. Consider following
up with "docvault rotate --recovery" to set a fresh password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := promptRecoverySecret("Recovery secret: ")
			if err != nil {
				return err
			}
			defer crypto.Zero(secret)

			plaintext, err := c.services.LibraryService.OpenDocumentWithRecovery(cmd.Context(), args[0], string(secret))
			if err != nil {
				return fmt.Errorf("recover %q: %w", args[0], err)
			}
			defer crypto.Zero(plaintext)

			return writeOpened(cmd, args[0], plaintext, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write plaintext to this file instead of stdout")
	return cmd
}

// writeOpened delivers opened plaintext either to stdout or to a file
// readable by the owner only.
func writeOpened(cmd *cobra.Command, name string, plaintext []byte, outPath string) error {
	if outPath == "" {
		_, err := cmd.OutOrStdout().Write(plaintext)
		return err
	}

	if err := os.WriteFile(outPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), uiSuccess.Sprint("✓")+fmt.Sprintf(" Opened %s into %s", uiHighlight.Sprint(name), outPath))
	return nil
}

// readSourceFile loads the plaintext to seal.
func readSourceFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}
	return data, nil
}

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/dkurmanov/docvault/internal/crypto"
	"github.com/dkurmanov/docvault/internal/workers"
)

func (c *CLI) newSealCmd() *cobra.Command {
	var batch bool

	cmd := &cobra.Command{
		Use:   "seal NAME FILE",
		Short: "Seal a document into the vault",
		Long: `Encrypts FILE under a password and stores it as a new vault document
called NAME. A recovery secret is generated and shown exactly once;
store it safely, it is the only way back in if the password is lost.

With --batch every argument is a file and each document is named after
its file (extension stripped); one password protects the whole batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if batch {
				return c.runSealBatch(cmd, args)
			}
			if len(args) != 2 {
				return fmt.Errorf("expected NAME and FILE arguments")
			}
			return c.runSeal(cmd, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "seal every argument as its own document")
	return cmd
}

func (c *CLI) runSeal(cmd *cobra.Command, name, source string) error {
	password, err := promptPasswordConfirm("Password: ", "Confirm password: ")
	if err != nil {
		return err
	}
	defer crypto.Zero(password)

	plaintext, err := readSourceFile(source)
	if err != nil {
		return err
	}
	defer crypto.Zero(plaintext)

	s, cleanup := startSpinner(cmd.ErrOrStderr(), "Sealing document...", c.flags.verbose)
	defer cleanup()

	doc, secret, err := c.services.LibraryService.SealDocument(cmd.Context(), name, plaintext, string(password))
	if err != nil {
		return fmt.Errorf("seal %q: %w", name, err)
	}

	s.FinalMSG = uiSuccess.Sprint("✓") + fmt.Sprintf(" Sealed %s (%d bytes)", uiHighlight.Sprint(doc.Name), doc.Size)
	cleanup()
	c.announceRecoverySecret(cmd, doc.Name, secret)
	return nil
}

func (c *CLI) runSealBatch(cmd *cobra.Command, sources []string) error {
	password, err := promptPasswordConfirm("Password: ", "Confirm password: ")
	if err != nil {
		return err
	}
	defer crypto.Zero(password)

	pool := workers.NewSealPool(cmd.Context(), c.services.LibraryService, c.cfg.Workers.Count, c.logger)
	pool.Run()

	go func() {
		for _, source := range sources {
			pool.Submit(workers.SealJob{
				Name:     documentNameFor(source),
				Source:   source,
				Password: string(password),
			})
		}
		pool.Close()
	}()

	s, cleanup := startSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Sealing %d documents...", len(sources)), c.flags.verbose)
	defer cleanup()

	var failed int
	for res := range pool.Results() {
		if res.Err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), uiError.Sprint("✗")+fmt.Sprintf(" %s: %v", res.Name, res.Err))
			continue
		}
		c.announceRecoverySecret(cmd, res.Name, res.RecoverySecret)
	}

	if failed > 0 {
		s.FinalMSG = uiWarning.Sprint("⚠") + fmt.Sprintf(" Sealed %d of %d documents", len(sources)-failed, len(sources))
		cleanup()
		return fmt.Errorf("%d of %d documents failed to seal", failed, len(sources))
	}
	s.FinalMSG = uiSuccess.Sprint("✓") + fmt.Sprintf(" Sealed %d documents", len(sources))
	return nil
}

// announceRecoverySecret prints a freshly issued secret exactly once
// and, when enabled, copies it to the clipboard. The secret is never
// written anywhere else.
func (c *CLI) announceRecoverySecret(cmd *cobra.Command, name, secret string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRecovery secret for %s:\n\n    %s\n\n", uiHighlight.Sprint(name), uiHighlight.Sprint(secret))
	fmt.Fprintln(out, uiWarning.Sprint("⚠")+" Shown only once. Store it somewhere safe.")

	if c.cfg.App.ClipboardEnabled {
		if err := clipboard.WriteAll(secret); err != nil {
			c.logger.Err(err).Msg("failed to copy recovery secret to clipboard")
			return
		}
		fmt.Fprintln(out, uiInfo.Sprint("→")+" Copied to clipboard.")
	}
}

// documentNameFor derives a document name from a source path.
func documentNameFor(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

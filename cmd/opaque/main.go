package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"opaque/internal/audit"
	"opaque/internal/config"
	"opaque/internal/sanitizer"
	"opaque/internal/validator"
	"opaque/internal/vault"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "opaque",
		Short:        "Data masking toolkit: sanitize text, reveal vault tokens, audit source trees",
		SilenceUsage: true,
	}
	root.AddCommand(newSanitizeCmd(), newRevealCmd(), newScanCmd())
	return root
}

func newSanitizeCmd() *cobra.Command {
	var (
		rules  []string
		method string
	)
	cmd := &cobra.Command{
		Use:   "sanitize [text]",
		Short: "Redact sensitive data from text (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load().Scanner
			if len(rules) > 0 {
				cfg.Rules = rules
			}
			if method != "" {
				cfg.Method = method
			}

			vlt, err := vault.New(cfg.MasterKey)
			if err != nil {
				return err
			}
			obf, err := sanitizer.NewObfuscator(cfg.Method, cfg.Salt, cfg.SecretKey, vlt)
			if err != nil {
				return err
			}
			rls, err := validator.FromKinds(cfg.Rules)
			if err != nil {
				return err
			}
			sc := sanitizer.New(sanitizer.Config{
				Rules:       rls,
				Obfuscator:  obf,
				Honeytokens: cfg.Honeytokens,
			})

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			}

			res := sc.Sanitize(cmd.Context(), text)
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&rules, "rules", nil, "validator kinds to apply (default from OPAQUE_RULES)")
	cmd.Flags().StringVar(&method, "method", "", "obfuscation method: HASH, MASK, VAULT, ANON or PSEUDO")
	return cmd
}

func newRevealCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "reveal <token>",
		Short: "Decrypt a [VAULT:...] token back into its original value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = config.Load().Scanner.MasterKey
			}
			vlt, err := vault.New(key)
			if err != nil {
				return err
			}
			if !vlt.Configured() {
				return errors.New("master key is required (--key or OPAQUE_MASTER_KEY)")
			}
			data, err := vlt.Decrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "vault master key (default from OPAQUE_MASTER_KEY)")
	return cmd
}

func newScanCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Audit a Go source tree for risky logging and compute a compliance score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := audit.NewScanner().ScanDir(os.DirFS(args[0]), ".")
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, []byte(audit.RenderHTML(sum)), 0o644); err != nil {
					return err
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the HTML report to this file")
	return cmd
}

// ABOUTME: CLI command for persisting service credentials.
// ABOUTME: Imports an oauth token file into the token store and verifies it.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/harperreed/trainer/internal/garmin"
)

var loginTokenFile string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Persist service credentials",
	Long: `Persist service credentials into the oauth token store.

The interactive credential exchange is handled by the companion auth tool;
this command imports its oauth token JSON and verifies the store is usable.

EXAMPLES:

  trainer login --token-file token.json   # Import a fresh token
  trainer login                           # Verify the existing store`,
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := oauthFolder()

		if loginTokenFile != "" {
			data, err := os.ReadFile(loginTokenFile)
			if err != nil {
				return fmt.Errorf("read token file: %w", err)
			}
			var tok oauth2.Token
			if err := json.Unmarshal(data, &tok); err != nil {
				return usagef("token file %s is not an oauth token JSON: %v", loginTokenFile, err)
			}
			if flagDryRun {
				fmt.Printf("%s write token store under %s\n", dryRunLabel("[dry-run]"), folder)
				return nil
			}
			if err := garmin.SaveToken(folder, &tok); err != nil {
				return fmt.Errorf("persist token: %w", err)
			}
		}

		if _, err := garmin.LoadTokenStore(folder); err != nil {
			return err
		}
		color.Green("✓ Token store at %s is valid", folder)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginTokenFile, "token-file", "", "oauth token JSON to import")
	rootCmd.AddCommand(loginCmd)
}

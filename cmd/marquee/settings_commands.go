package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change display settings",
	}

	settingsCmd.AddCommand(newSettingsGetCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	settingsCmd.AddCommand(newSettingsBackupCommand(ctx))

	return settingsCmd
}

func newSettingsGetCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Show effective settings, or one key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			doc, err := api.Settings(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				key := strings.TrimSpace(args[0])
				value, ok := doc[key]
				if !ok {
					return fmt.Errorf("unknown settings key %q", key)
				}
				if jsonOutput {
					return writeJSON(cmd, map[string]any{key: value})
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatSettingValue(value))
				return nil
			}

			if jsonOutput {
				return writeJSON(cmd, doc)
			}
			out := cmd.OutOrStdout()
			for _, key := range sortedKeys(doc) {
				fmt.Fprintf(out, "%-28s %s\n", labelFor(key)+":", formatSettingValue(doc[key]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit settings as JSON")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one settings key",
		Long: "Change one settings key. The value is parsed as JSON when possible,\n" +
			"so booleans and numbers keep their type; anything else is stored as a\n" +
			"string.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			key := strings.TrimSpace(args[0])
			if key == "" {
				return fmt.Errorf("settings key is required")
			}

			merged, err := api.UpdateSettings(cmd.Context(), settings.Document{
				key: parseSettingValue(args[1]),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, formatSettingValue(merged[key]))
			return nil
		},
	}
}

func newSettingsBackupCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Download the persisted settings file",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			raw, err := api.SettingsBackup(cmd.Context())
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				_, writeErr := cmd.OutOrStdout().Write(raw)
				return writeErr
			}
			if err := os.WriteFile(target, raw, 0o644); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote settings backup to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the backup to a file instead of stdout")
	return cmd
}

// parseSettingValue keeps JSON scalar types intact (true, 42, null) while
// treating everything unparsable as a plain string.
func parseSettingValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}

func formatSettingValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

func sortedKeys(doc settings.Document) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

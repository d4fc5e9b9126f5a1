package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vodhub/vodhub/color"
	"github.com/vodhub/vodhub/provider"
	"github.com/vodhub/vodhub/style"
)

func completionProviderKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	configs, err := registry().Enabled()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(configs, func(c provider.Config, _ int) string {
		return c.Key
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

// providersCmd groups provider registry commands.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect the provider registry",
}

func init() {
	providersCmd.AddCommand(providersListCmd)

	providersListCmd.Flags().BoolP("raw", "r", false, "Print only provider keys")
	providersListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	providersListCmd.Flags().BoolP("all", "a", false, "Include disabled providers")
	providersListCmd.MarkFlagsMutuallyExclusive("raw", "json")

	providersListCmd.SetOut(os.Stdout)
}

// providersListCmd prints the providers a query would be dispatched to.
var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured providers",
	Run: func(cmd *cobra.Command, args []string) {
		r := registry()

		var (
			configs []provider.Config
			err     error
		)
		if lo.Must(cmd.Flags().GetBool("all")) {
			configs, err = r.All()
		} else {
			configs, err = r.Enabled()
		}
		handleErr(err)

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(configs))
		case lo.Must(cmd.Flags().GetBool("raw")):
			for _, c := range configs {
				cmd.Println(c.Key)
			}
		default:
			if len(configs) == 0 {
				cmd.Println(style.Faint("No providers configured in " + r.Path))
				return
			}

			for _, c := range configs {
				line := style.Bold(c.Label()) + " " + style.Fg(color.Purple)(c.Key) + " " + style.Fg(color.Cyan)(string(c.Kind))
				if c.Disabled {
					line += " " + style.Fg(color.Red)("disabled")
				}
				cmd.Println(line)
				cmd.Println(style.Faint("  " + c.BaseURL))
			}
		}
	},
}

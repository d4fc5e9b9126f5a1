package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/aggregate"
	"github.com/vodhub/vodhub/inline"
	"github.com/vodhub/vodhub/key"
	"github.com/vodhub/vodhub/query"
	"github.com/vodhub/vodhub/util"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("provider", "p", "", "Only show results of this provider key or label")
	searchCmd.Flags().StringP("title", "t", "", "Only show results whose title fuzzy matches")
	searchCmd.Flags().StringP("year", "y", "", "Only show results released in this year")
	searchCmd.Flags().StringP("order", "o", "", "Sort by year: asc or desc. Arrival order when unset")
	searchCmd.Flags().BoolP("grouped", "g", false, "Merge results of the same title and year")
	searchCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	searchCmd.Flags().String("schema", "", "Print the JSON schema of the output, event or detail document and exit")
	searchCmd.Flags().Lookup("schema").NoOptDefVal = string(inline.SchemaOutput)

	searchCmd.Flags().Bool("stream", true, "Merge provider results as they arrive")
	lo.Must0(viper.BindPFlag(key.SearchStreaming, searchCmd.Flags().Lookup("stream")))

	searchCmd.Flags().IntP("pages", "P", 0, "Maximum result pages per provider")
	lo.Must0(viper.BindPFlag(key.SearchMaxPages, searchCmd.Flags().Lookup("pages")))

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("order", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(aggregate.Ascending), string(aggregate.Descending)}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(searchCmd.RegisterFlagCompletionFunc("schema", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(inline.SchemaOutput), string(inline.SchemaEvent), string(inline.SchemaDetail)}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// searchCmd dispatches a query to every enabled provider.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search every enabled provider and print the merged results",
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("schema") {
			schema := inline.SchemaKind(lo.Must(cmd.Flags().GetString("schema")))
			handleErr(json.NewEncoder(os.Stdout).Encode(inline.Schema(schema)))
			return
		}

		q := strings.TrimSpace(strings.Join(args, " "))
		if q == "" {
			handleErr(errors.New("query is required"))
		}

		order, err := aggregate.ParseOrder(lo.Must(cmd.Flags().GetString("order")))
		handleErr(err)

		asJson := lo.Must(cmd.Flags().GetBool("json"))

		var progress io.Writer
		if !asJson {
			progress = os.Stderr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		options := &inline.Options{
			Out:      os.Stdout,
			Progress: progress,
			Query:    q,
			Filter: aggregate.Filter{
				Provider: lo.Must(cmd.Flags().GetString("provider")),
				Title:    lo.Must(cmd.Flags().GetString("title")),
				Year:     lo.Must(cmd.Flags().GetString("year")),
				Order:    order,
			},
			Grouped:    lo.Must(cmd.Flags().GetBool("grouped")),
			Json:       asJson,
			Streaming:  viper.GetBool(key.SearchStreaming),
			FlushDelay: viper.GetDuration(key.SearchFlushDelay),
			Width:      util.TerminalWidth(80),
		}

		handleErr(inline.Run(ctx, newDispatcher(registry()), options))
	},
}

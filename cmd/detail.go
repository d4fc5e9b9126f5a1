package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vodhub/vodhub/inline"
	"github.com/vodhub/vodhub/open"
	"github.com/vodhub/vodhub/provider"
)

func init() {
	rootCmd.AddCommand(detailCmd)

	detailCmd.Flags().StringP("provider", "p", "", "Key of the provider the title belongs to")
	detailCmd.Flags().StringP("id", "i", "", "Provider-local id of the title")
	detailCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	detailCmd.Flags().BoolP("open", "o", false, "Open the title page, or the first episode, in the default browser")
	lo.Must0(detailCmd.MarkFlagRequired("provider"))
	lo.Must0(detailCmd.MarkFlagRequired("id"))

	lo.Must0(detailCmd.RegisterFlagCompletionFunc("provider", completionProviderKeys))
}

// detailCmd resolves the playable episodes of a single title.
var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "Resolve the playable episode list of a title",
	Run: func(cmd *cobra.Command, args []string) {
		src, err := provider.Find(registry(), provider.DefaultTuning(), lo.Must(cmd.Flags().GetString("provider")))
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		detail, err := provider.Detail(ctx, src, nil, lo.Must(cmd.Flags().GetString("id")))
		handleErr(err)

		handleErr(inline.RenderDetail(os.Stdout, detail, lo.Must(cmd.Flags().GetBool("json"))))

		if lo.Must(cmd.Flags().GetBool("open")) {
			target := detail.PageURL
			if target == "" {
				target = detail.Episodes[0]
			}
			handleErr(open.Start(target))
		}
	},
}

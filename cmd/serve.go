package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/internal/cache"
	"github.com/vodhub/vodhub/key"
	"github.com/vodhub/vodhub/provider"
	"github.com/vodhub/vodhub/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Listen address")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("address")))
}

// serveCmd exposes searches over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve searches, result streams and details over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		r := registry()

		s := server.New(server.Config{
			Dispatcher: newDispatcher(r),
			Registry:   r,
			Tuning:     provider.DefaultTuning,
			Details:    cache.NewDetails(viper.GetDuration(key.CacheDetailTTL)),
			Streaming: func() bool {
				return viper.GetBool(key.SearchStreaming)
			},
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		address := viper.GetString(key.ServerAddress)
		cmd.Printf("listening on %s\n", address)
		handleErr(s.ListenAndServe(ctx, address))
	},
}

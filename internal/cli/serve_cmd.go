package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/taskhelper/internal/bot"
	"github.com/alexanderramin/taskhelper/internal/health"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

type serveOptions struct {
	port int
}

func bindServeFlags(fs *pflag.FlagSet, opts *serveOptions) {
	fs.IntVar(&opts.port, "port", 0, "liveness server port (overrides PORT)")
}

func newServeCmd(app *App) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and serve the liveness endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.port > 0 {
				app.Config.Port = opts.port
			}
			if err := app.Config.RequireDiscord(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}
	bindServeFlags(cmd.Flags(), &opts)

	return cmd
}

// serve runs the chat adapter and the liveness server until ctx ends or
// either of them fails.
func (a *App) serve(ctx context.Context) error {
	newBot := a.NewBot
	if newBot == nil {
		newBot = discordBot
	}
	b, err := newBot(bot.Options{
		Token:    a.Config.DiscordToken,
		GuildID:  a.Config.GuildID,
		Identity: bot.DefaultIdentity(a.Version),
	}, a.Resolver, a.logger())
	if err != nil {
		return err
	}

	var metrics http.Handler
	if a.Metrics != nil {
		metrics = a.Metrics.Handler()
	}
	srv := health.NewServer(b, metrics, a.logger())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx, a.Config.Addr()) })

	a.logger().Info("serving", "addr", a.Config.Addr(), "version", a.Version)
	return g.Wait()
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizwise/internal/auth"
	"github.com/abhisek/quizwise/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Server.Addr = addr
		}
		if err := e.cfg.ValidateServe(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := e.provider(ctx)
		if err != nil {
			return err
		}
		sh := e.shell(provider)
		defer sh.Close()

		authSvc, err := auth.NewService(e.store.UserRepo(), e.cfg.Auth.JWTSecret, auth.WithTTL(e.cfg.Auth.TokenTTL))
		if err != nil {
			return err
		}

		srv := server.New(server.Deps{
			Shell:        sh,
			Auth:         authSvc,
			Config:       e.cfg.Server,
			CookieSecret: e.cfg.CookieSecret(),
			Log:          e.log,
		})

		e.log.Info("starting server", "addr", e.cfg.Server.Addr, "provider", e.cfg.LLM.Provider)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUIZWISE_ADDR)")
}

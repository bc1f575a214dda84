package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-storefront/internal/app"
	"quiz-storefront/internal/config"
	"quiz-storefront/internal/infra/payment"
	transport "quiz-storefront/internal/transport/http"

	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the storefront server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	quizRepo := b.quizRepository(cfg)
	gateway := payment.New(payment.Credentials{KeyID: cfg.Payment.KeyID, KeySecret: cfg.Payment.KeySecret})
	quizzes := app.NewQuizService(b.stores, quizRepo, cfg.Payment.Currency)
	checkout := app.NewCheckoutService(b.stores, quizRepo, app.NewCouponManager(b.stores), gateway)

	if cfg.Admin.Password == config.DefaultAdminPassword {
		log.Printf("ADMIN_PASS not set, using the default admin password")
	}
	auth, err := transport.NewAdminAuth(cfg.Admin.Password, cfg.Admin.SessionSecret, config.TTLDuration(cfg.Admin.SessionTTL, 12*time.Hour))
	if err != nil {
		return err
	}
	handler := transport.NewRouter(transport.NewHandler(quizzes, checkout, auth), cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz storefront on :%s (payments: %s)", finalPort, gateway.Mode())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

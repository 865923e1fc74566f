package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/httpapi"
	"github.com/abhisek/quizcard/internal/quiz"
)

const defaultHTTPAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve answer cards and quiz sessions over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			if env := os.Getenv("QUIZCARD_HTTP_ADDR"); env != "" {
				addr = env
			}
		}
		origins, _ := cmd.Flags().GetStringSlice("cors-origin")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		bankPath, _ := cmd.Flags().GetString("bank")

		bank, err := quiz.Resolve(bankPath)
		if err != nil {
			return fmt.Errorf("load bank: %w", err)
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := httpapi.DefaultOptions()
		opts.AllowedOrigins = origins
		opts.RequestTimeout = timeout
		opts.Logger = log.New(os.Stderr, "[serve] ", log.LstdFlags)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return httpapi.New(bank, st.EventRepo(), opts).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", defaultHTTPAddr, "Listen address (overrides QUIZCARD_HTTP_ADDR env var)")
	serveCmd.Flags().StringP("bank", "b", "", "Question bank file, YAML or JSON (overrides QUIZCARD_BANK env var)")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origin (repeatable; default allows any origin)")
	serveCmd.Flags().Duration("timeout", 15*time.Second, "Per-request timeout")
}

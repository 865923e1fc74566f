package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long:  "Run the Telegram bot. The token is read from QUIZCARD_TELEGRAM_TOKEN.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := os.Getenv("QUIZCARD_TELEGRAM_TOKEN")
		if token == "" {
			return errors.New("QUIZCARD_TELEGRAM_TOKEN is not set")
		}
		bankPath, _ := cmd.Flags().GetString("bank")
		shuffle, _ := cmd.Flags().GetBool("shuffle")

		bank, err := quiz.Resolve(bankPath)
		if err != nil {
			return fmt.Errorf("load bank: %w", err)
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		api, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			return fmt.Errorf("failed to create bot API: %w", err)
		}
		api.Debug = os.Getenv("DEBUG") == "true"

		logger := log.New(os.Stderr, "[bot] ", log.LstdFlags)
		logger.Printf("authorized as @%s", api.Self.UserName)
		if _, err := api.Request(telegram.Commands()); err != nil {
			logger.Printf("warning: register commands: %v", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := api.GetUpdatesChan(u)
		go func() {
			<-ctx.Done()
			api.StopReceivingUpdates()
		}()

		bot := telegram.New(api, bank, st.EventRepo(), telegram.Options{Shuffle: shuffle, Logger: logger})
		bot.Run(ctx, updates)
		return nil
	},
}

func init() {
	addBankFlags(botCmd)
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	chatSession string
	chatDebug   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Reads one message per line. "/reset" starts over, "/search <q>" searches without
touching the conversation, "exit" quits.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session id (random when empty)")
	chatCmd.Flags().BoolVar(&chatDebug, "debug", false, "print decision, strategy and context after each turn")
}

func runChat(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if chatSession == "" {
		chatSession = uuid.NewString()
	}

	color.New(color.FgCyan, color.Bold).Println("Phone store assistant")
	color.New(color.Faint).Printf("session %s, type \"exit\" to quit\n\n", chatSession)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		color.New(color.FgGreen, color.Bold).Print("Bạn: ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		res, err := engine.Router.Resolve(ctx, chatSession, message)
		cancel()
		if err != nil {
			fmt.Println(color.RedString("Lỗi: %v", err))
			continue
		}
		printTurn(os.Stdout, res, chatDebug)
	}
	return scanner.Err()
}

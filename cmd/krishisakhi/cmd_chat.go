package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/krishisakhi/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := shared.profiles.Get()
		if err != nil {
			return err
		}
		a := shared.newAssistant()
		reply, err := a.Answer(context.Background(), strings.Join(args, " "), profile, session.New())
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat; history lasts for the session only",
	Long: "Interactive chat with the assistant. The conversation history is kept\n" +
		"in memory as context for follow-up questions and is discarded when the\n" +
		"session ends. Type /reset to clear it, /quit or Ctrl-D to leave.",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := shared.profiles.Get()
		if err != nil {
			return err
		}
		a := shared.newAssistant()
		sess := session.New()
		shared.log.Debug().Str("session", sess.ID()).Msg("chat session started")

		fmt.Println("Krishi Sakhi chat. Ask your question; /reset clears history, /quit leaves.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/reset":
				sess.Reset()
				fmt.Println("History cleared.")
				continue
			}

			reply, err := a.Answer(cmd.Context(), line, profile, sess)
			if err != nil {
				// Validation problems are worth telling the farmer about;
				// the session stays usable.
				fmt.Println("!", err)
				continue
			}
			fmt.Println(reply)
			sess.AppendTurn(line, reply)
		}
		return scanner.Err()
	},
}

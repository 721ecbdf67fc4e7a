package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"echobot/internal/format"
	"echobot/internal/logging"
	"echobot/internal/session"
	"echobot/internal/store"
)

var chatFlags struct {
	markdown bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with the assistant",
	Long: "Starts a read-eval loop. Type /help for the command list;\n" +
		"type exit or quit to leave. Conversations persist across runs.",
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")
}

func runChat(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open chat store: %w", err)
	}
	defer st.Close()

	mode := format.ASCII
	if chatFlags.markdown {
		mode = format.Markdown
	}
	sessions := session.NewManager(st, session.WithLogger(logging.New("session")))
	bot, err := buildAssistant(cfg, mode, sessions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	active, err := sessions.Active()
	if err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	fmt.Fprintf(out, "Session: %s\n", active.Name)
	fmt.Fprintln(out, "Type /help for commands, exit to leave.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply, err := bot.Respond(cmd.Context(), input)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\n%s\n\n", reply)
	}
	return scanner.Err()
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/egor/engadvisor/advisor"
	"github.com/egor/engadvisor/models"
	"github.com/egor/engadvisor/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the advisor in the terminal",
	Long: `Starts a local conversation with one session.

Commands:
  /history  print the conversation
  /save     write the conversation to the history file
  /quit     leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, vocab, err := buildAdvisor(nil)
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), o, session.NewProfile("local", vocab), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runChat(ctx context.Context, o *advisor.Orchestrator, p *session.Profile, in io.Reader, out io.Writer) error {
	var history []models.Exchange
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintln(out, "🎓 UMD Engineering Program Advisor. Tell me about your interests (/quit to leave).")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		switch strings.TrimSpace(line) {
		case "/quit", "/exit":
			return nil
		case "/history":
			fmt.Fprintln(out, o.ViewHistory(history))
			continue
		case "/save":
			status, err := o.SaveHistory(history)
			if err != nil {
				fmt.Fprintln(out, "❌ "+err.Error())
				continue
			}
			fmt.Fprintln(out, status)
			continue
		}

		res := o.Submit(ctx, p, line, history)
		history = res.History
		fmt.Fprintf(out, "\n%s\n\n🔎 Tracked Interests: %s\n\n", res.Response, res.Interests)
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

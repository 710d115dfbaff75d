package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"playmate/internal/chat"
	"playmate/internal/recommend"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	var (
		profile profileFlags
		model   string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with the game advisor (reads lines from stdin; /reset, /quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := profile.profile()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			generator, err := ctx.textGenerator(model)
			if err != nil {
				return err
			}
			session := chat.NewSession(generator, recommend.CompileProfile(prof), logger)

			out := cmd.OutOrStdout()
			interactive := isTerminal(cmd.InOrStdin())
			conv := chat.NewConversation()
			fmt.Fprintln(out, conv[0].Content)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
			for {
				if interactive {
					fmt.Fprint(out, "> ")
				}
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
					conv = chat.NewConversation()
					fmt.Fprintln(out, conv[0].Content)
					continue
				}

				next, err := session.Reply(cmd.Context(), conv, line)
				if err != nil {
					if ctxErr := cmd.Context().Err(); ctxErr != nil {
						return ctxErr
					}
					fmt.Fprintln(cmd.ErrOrStderr(), recommend.UserMessage(err))
					continue
				}
				conv = next
				fmt.Fprintln(out, conv[len(conv)-1].Content)
			}
			return scanner.Err()
		},
	}

	profile.register(cmd)
	cmd.Flags().StringVar(&model, "model", "", "Override llm.model for this session")
	return cmd
}

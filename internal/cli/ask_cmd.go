package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"humanagent/internal/agent"
	"humanagent/internal/domain"
	"humanagent/internal/service"
	"humanagent/internal/utils"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
	keywordColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

func newAskCmd(app *App) *cobra.Command {
	var explain bool
	var limit int

	cmd := &cobra.Command{
		Use:   "ask <frage>",
		Short: "Beantwortet eine einzelne Frage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return service.ErrEmptyQuestion
			}

			base, err := loadBase(cmd.Context(), app.Config)
			if err != nil {
				return err
			}
			engine := agent.New(base)

			out := cmd.OutOrStdout()
			printResponse(out, engine.Answer(question))
			if explain {
				printRanking(out, engine.Rank(question, limit))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Mostra o ranking das entradas candidatas")
	cmd.Flags().IntVar(&limit, "limit", 5, "Quantidade maxima de candidatas no ranking")
	return cmd
}

func printResponse(w io.Writer, resp domain.AgentResponse) {
	if !resp.IsAnswer() {
		warnColor.Fprintln(w, resp.Answer)
		if len(resp.Suggestions) > 0 {
			fmt.Fprintln(w)
			mutedColor.Fprintln(w, "Vorschläge:")
			for _, s := range resp.Suggestions {
				fmt.Fprintf(w, "  • %s\n", s)
			}
		}
		return
	}

	titleColor.Fprintln(w, resp.Entry.Title)
	mutedColor.Fprintf(w, "%s · Sicherheit: %s\n\n", resp.Entry.Category, utils.ConfidenceLabel(resp.Confidence))
	fmt.Fprintln(w, resp.Answer)

	if len(resp.Entry.Details) > 0 {
		fmt.Fprintln(w)
		mutedColor.Fprintln(w, "Extra-Details aus der Wissensbasis:")
		for _, d := range resp.Entry.Details {
			fmt.Fprintf(w, "  • %s\n", d)
		}
	}
	fmt.Fprintln(w)
	mutedColor.Fprint(w, "Verstandene Stichworte: ")
	keywordColor.Fprintln(w, strings.Join(resp.MatchedKeywords, ", "))

	if len(resp.FollowUp) > 0 {
		fmt.Fprintln(w)
		mutedColor.Fprintln(w, "Weiterführende Fragen:")
		for _, f := range resp.FollowUp {
			fmt.Fprintf(w, "  → %s\n", f)
		}
	}
}

func printRanking(w io.Writer, matches []agent.Match) {
	fmt.Fprintln(w)
	titleColor.Fprintln(w, "Ranking")
	if len(matches) == 0 {
		mutedColor.Fprintln(w, "  (keine Treffer)")
		return
	}
	for i, m := range matches {
		fmt.Fprintf(w, "  %d. %-32s score=%d zeichen=%d ", i+1, m.Entry.Title, m.Score(), m.Chars)
		keywordColor.Fprintln(w, strings.Join(m.Keywords, ", "))
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/ui"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printClarificationSession(s *model.ClarificationSession) error {
	if jsonOutput {
		return printJSON(s)
	}
	fmt.Printf("%s  %s\n", ui.RenderAccent(s.IdeaID), ui.RenderStatus(string(s.Status)))
	fmt.Printf("confidence %.2f, %d/%d answered\n\n", s.Confidence, s.AnsweredCount(), len(s.Questions))
	for _, q := range s.Questions {
		marker := "[ ]"
		if q.Answered {
			marker = "[x]"
		}
		fmt.Printf("  %s %s  %s\n", marker, ui.RenderMuted(q.ID), q.Text)
		if answer, ok := s.Answers[q.ID]; ok {
			fmt.Printf("        %s\n", answer)
		}
	}
	if s.Status == model.StatusComplete {
		fmt.Printf("\nready for breakdown: forge breakdown %s\n", s.IdeaID)
	}
	return nil
}

func printBreakdownSession(b *model.BreakdownSession) error {
	if jsonOutput {
		return printJSON(b)
	}
	fmt.Printf("%s  %s\n", ui.RenderAccent(b.IdeaID), ui.RenderStatus(string(b.Status)))
	if b.Analysis != nil {
		fmt.Printf("complexity %d (%s), scope %s, team of %d\n",
			b.Analysis.Complexity.Score, b.Analysis.Complexity.Level,
			b.Analysis.Scope.Size, b.Analysis.Scope.TeamSize)
	}
	if b.Decomposition != nil {
		fmt.Printf("%d tasks, %.0f hours total, confidence %.2f\n",
			len(b.Decomposition.Tasks), b.Decomposition.TotalEstimatedHours, b.Decomposition.Confidence)
	}
	if b.Timeline == nil {
		return nil
	}
	tl := b.Timeline
	fmt.Printf("%d weeks: %s to %s\n\n",
		tl.TotalWeeks, tl.StartDate.Format("2006-01-02"), tl.EndDate.Format("2006-01-02"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tSTART\tEND\tTASKS\tDELIVERABLES")
	for _, p := range tl.Phases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			p.Name, p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"),
			len(p.Tasks), len(p.Deliverables))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(tl.Milestones) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MILESTONE\tDATE")
		for _, m := range tl.Milestones {
			fmt.Fprintf(w, "%s\t%s\n", m.Title, m.Date.Format("2006-01-02"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(tl.CriticalPath) > 0 && b.Decomposition != nil {
		fmt.Printf("\ncritical path (%d tasks):\n", len(tl.CriticalPath))
		for _, id := range tl.CriticalPath {
			title := id
			if t := b.Decomposition.TaskByID(id); t != nil {
				title = t.Title
			}
			fmt.Printf("  %s %s\n", ui.RenderMuted(id), title)
		}
	}
	return nil
}

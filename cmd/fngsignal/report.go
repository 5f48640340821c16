package main

import (
	"fmt"
	"io"

	"SentiPull/internal/domain/models"
)

const insufficient = "insufficient data"

func writeReport(w io.Writer, provider string, a *models.Analysis) {
	s := a.Signal
	fmt.Fprintf(w, "Fear & Greed (%s) %s\n", provider, s.Date.Format("2006-01-02"))
	fmt.Fprintf(w, "  Score:   %.1f (%s)\n", s.Score, s.Rating)
	fmt.Fprintf(w, "  Action:  %s  %s\n", s.Action, s.Description)

	if c := a.Change; c != nil {
		fmt.Fprintf(w, "  Daily:   %+.2f\n", c.DailyChange)
		fmt.Fprintf(w, "  Weekly:  %+.2f (vs %d obs back)\n", c.WeeklyChange, c.WeeklyLookback)
	} else {
		fmt.Fprintf(w, "  Daily:   %s\n", insufficient)
		fmt.Fprintf(w, "  Weekly:  %s\n", insufficient)
	}

	if ws := a.Window; ws != nil {
		fmt.Fprintf(w, "  Window:  %d days, avg %.2f, extreme fear %d, extreme greed %d\n",
			ws.WindowSize, ws.Average, ws.ExtremeFearDays, ws.ExtremeGreedDays)
	} else {
		fmt.Fprintf(w, "  Window:  %s\n", insufficient)
	}

	if t := a.Trend; t != nil {
		fmt.Fprintf(w, "  Trend:   %s (recent %.2f, older %.2f, delta %+.2f)\n",
			t.Classification, t.RecentAverage, t.OlderAverage, t.Delta)
	} else {
		fmt.Fprintf(w, "  Trend:   %s\n", insufficient)
	}
}

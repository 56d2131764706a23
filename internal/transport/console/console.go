// Package console renders lead search results for the command line.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	leadscout "github.com/kailas-cloud/leadscout/pkg/sdk"
)

// Printer writes human-readable lead cards.
type Printer struct {
	out     io.Writer
	title   *color.Color
	handle  *color.Color
	muted   *color.Color
	link    *color.Color
	failure *color.Color
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:     out,
		title:   color.New(color.FgCyan, color.Bold),
		handle:  color.New(color.FgGreen, color.Bold),
		muted:   color.New(color.FgHiBlack),
		link:    color.New(color.FgBlue),
		failure: color.New(color.FgRed),
	}
}

// Results prints the header and one card per profile.
func (p *Printer) Results(res *leadscout.Result) {
	p.title.Fprintf(p.out, "%d resultados para %q\n\n", len(res.Profiles), res.Keyword)
	for i := range res.Profiles {
		p.card(&res.Profiles[i])
	}
	p.muted.Fprintf(p.out, "%d variações, %d com falha, %s\n",
		res.Stats.Variations, res.Stats.FailedBatches, res.Stats.Duration.Round(time.Millisecond))
}

func (p *Printer) card(pr *leadscout.Profile) {
	p.handle.Fprintf(p.out, "@%s", pr.Username)
	fmt.Fprintf(p.out, "  %s", pr.Name)
	if pr.Followers != "" {
		p.muted.Fprintf(p.out, "  %s seguidores", pr.Followers)
	}
	fmt.Fprintln(p.out)

	if bio := strings.TrimSpace(pr.Bio); bio != "" {
		fmt.Fprintf(p.out, "  %s\n", bio)
	}
	fmt.Fprint(p.out, "  Instagram: ")
	p.link.Fprintln(p.out, pr.InstagramURL)
	if pr.ContactURL != "" {
		fmt.Fprint(p.out, "  WhatsApp:  ")
		p.link.Fprint(p.out, pr.ContactURL)
		if !pr.HasContact {
			p.muted.Fprint(p.out, " (padrão)")
		}
		fmt.Fprintln(p.out)
	}
	fmt.Fprintln(p.out)
}

// Error prints the user-facing message for err.
func (p *Printer) Error(err error) {
	p.failure.Fprintln(p.out, leadscout.UserMessage(err))
}

// Suggestions prints numbered sample keywords.
func (p *Printer) Suggestions(items []string) {
	for i, s := range items {
		p.muted.Fprintf(p.out, "%d. ", i+1)
		fmt.Fprintln(p.out, s)
	}
}

// JSON writes res as indented JSON.
func (p *Printer) JSON(res *leadscout.Result) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// Spinner animates an indeterminate progress bar on out until stop is called.
func Spinner(out io.Writer, description string) (stop func()) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			_ = bar.Finish()
			fmt.Fprintln(out)
		})
	}
}

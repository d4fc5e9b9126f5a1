// Package inline runs searches without an interactive interface and renders the aggregated views.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/vodhub/vodhub/aggregate"
	"github.com/vodhub/vodhub/color"
	"github.com/vodhub/vodhub/dispatch"
	"github.com/vodhub/vodhub/icon"
	"github.com/vodhub/vodhub/source"
	"github.com/vodhub/vodhub/style"
	"github.com/vodhub/vodhub/util"
)

const descriptionLines = 3

// Run dispatches a query, waits for every provider and writes the selected view.
func Run(ctx context.Context, d *dispatch.Dispatcher, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	snapshot, err := search(ctx, d, options)
	if err != nil {
		return err
	}

	filter := options.Filter
	filter.Query = options.Query

	output := &Output{
		Query:    snapshot.Query,
		Dispatch: snapshot.Dispatch,
		Progress: snapshot.Progress,
		Failures: snapshot.Failures,
	}
	if options.Grouped {
		output.Groups = aggregate.Grouped(snapshot.Results, filter)
	} else {
		output.Results = aggregate.Flat(snapshot.Results, filter)
	}

	if options.Json {
		return writeJson(options.Out, output)
	}

	return render(options.Out, output, options.Width)
}

func search(ctx context.Context, d *dispatch.Dispatcher, options *Options) (aggregate.Snapshot, error) {
	if !options.Streaming {
		c, err := d.Collect(ctx, options.Query)
		if err != nil {
			return aggregate.Snapshot{}, err
		}

		return aggregate.Snapshot{
			Dispatch: c.Dispatch,
			Query:    c.Query,
			Results:  c.Results,
			Progress: aggregate.Progress{
				Total:     c.Total,
				Completed: c.Total,
				Failed:    len(c.Failures),
				Done:      true,
			},
			Failures: lo.Map(c.Failures, func(ev dispatch.Event, _ int) aggregate.Failure {
				return aggregate.Failure{
					Provider:      ev.Provider,
					ProviderLabel: ev.ProviderLabel,
					Reason:        ev.Reason,
					Message:       ev.Message,
				}
			}),
		}, nil
	}

	events, err := d.Dispatch(ctx, options.Query)
	if err != nil {
		return aggregate.Snapshot{}, err
	}

	engineOptions := []aggregate.Option{aggregate.WithFlushDelay(options.FlushDelay)}
	if options.Progress != nil && !options.Json {
		engineOptions = append(engineOptions, aggregate.WithOnFlush(func(s aggregate.Snapshot) {
			_, _ = fmt.Fprintf(options.Progress, "\r%s %s", icon.Get(icon.Progress), progressLine(s))
			if s.Progress.Done {
				_, _ = fmt.Fprintln(options.Progress)
			}
		}))
	}

	return aggregate.New(engineOptions...).Drain(events), nil
}

func progressLine(s aggregate.Snapshot) string {
	return fmt.Sprintf(
		"%d/%d providers, %s",
		s.Progress.Completed,
		s.Progress.Total,
		util.Quantify(len(s.Results), "result", "results"),
	)
}

func render(out io.Writer, o *Output, width int) error {
	var b strings.Builder

	for _, g := range o.Groups {
		renderGroup(&b, g, width)
	}
	for _, r := range o.Results {
		renderResult(&b, r, width)
	}

	if len(o.Groups) == 0 && len(o.Results) == 0 {
		b.WriteString(style.Faint("Nothing found for "+o.Query) + "\n")
	}

	for _, f := range o.Failures {
		fmt.Fprintf(&b, "%s %s %s\n", icon.Get(icon.Fail), style.Fg(color.Red)(f.ProviderLabel), style.Faint(f.Reason))
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func renderResult(b *strings.Builder, r *source.Result, width int) {
	fmt.Fprintf(
		b,
		"%s %s %s %s\n",
		style.Bold(r.Title),
		style.Fg(color.Yellow)(r.Year),
		style.Fg(color.Cyan)("["+r.ProviderLabel+"]"),
		style.Faint(util.Quantify(r.EpisodeCount(), "episode", "episodes")),
	)
	b.WriteString(indent.String(style.Faint("id "+r.ID), 2) + "\n")
	renderDescription(b, r.Description, width)
}

func renderGroup(b *strings.Builder, g *aggregate.Group, width int) {
	fmt.Fprintf(
		b,
		"%s %s %s %s\n",
		icon.Get(icon.Group),
		style.Bold(g.Title),
		style.Fg(color.Yellow)(g.Year),
		style.Faint(util.Quantify(g.EpisodeCount, "episode", "episodes")),
	)
	if len(g.SourceNames) > 0 {
		b.WriteString(indent.String(style.Fg(color.Green)(strings.Join(g.SourceNames, ", ")), 2) + "\n")
	}

	for _, m := range g.Members {
		mark := lo.Ternary(m.Playable(), icon.Get(icon.Success), icon.Get(icon.Pending))
		b.WriteString(indent.String(fmt.Sprintf("%s %s %s", mark, m.ProviderKey, style.Faint(m.ID)), 2) + "\n")
	}
	renderDescription(b, g.First().Description, width)
}

func renderDescription(b *strings.Builder, description string, width int) {
	description = strings.TrimSpace(description)
	if description == "" || width <= 4 {
		return
	}

	lines := strings.Split(wordwrap.String(description, width-4), "\n")
	if len(lines) > descriptionLines {
		lines = lines[:descriptionLines]
		lines[descriptionLines-1] = truncate.StringWithTail(lines[descriptionLines-1], uint(width-4), "…")
	}

	b.WriteString(indent.String(style.Italic(strings.Join(lines, "\n")), 2) + "\n")
}

// RenderDetail writes a resolved title.
func RenderDetail(out io.Writer, d *source.Detail, asJson bool) error {
	if asJson {
		return writeJson(out, d)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", style.Bold(d.Title), style.Fg(color.Yellow)(d.Year), style.Fg(color.Cyan)("["+d.ProviderLabel+"]"))
	for i, u := range d.Episodes {
		title := fmt.Sprint(i + 1)
		if i < len(d.EpisodeTitles) && strings.TrimSpace(d.EpisodeTitles[i]) != "" {
			title = strings.TrimSpace(d.EpisodeTitles[i])
		}
		fmt.Fprintf(&b, "%s\t%s\n", title, u)
	}

	_, err := io.WriteString(out, b.String())
	return err
}

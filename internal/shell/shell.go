package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
	"github.com/MikeSquared-Agency/Packrank/internal/chart"
	"github.com/MikeSquared-Agency/Packrank/internal/events"
	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
)

// Source tags WeightsChanged messages produced by the terminal shell.
const Source = "shell"

// Engine is the scoring entry point the shell drives.
type Engine interface {
	Handle(msg scoring.WeightsChanged) scoring.Ranking
	Options() []catalog.Option
}

// Shell is the interactive terminal front end. It owns the weight sliders;
// the active chart kind is held by the caller and passed to every redraw.
type Shell struct {
	engine    Engine
	builder   *chart.Builder
	renderer  *chart.TextRenderer
	publisher *events.Publisher
	sliders   []*Slider
	out       io.Writer
	logger    *slog.Logger
}

type Config struct {
	Initial scoring.WeightVector
	Step    float64
}

func New(e Engine, b *chart.Builder, r *chart.TextRenderer, p *events.Publisher, cfg Config, out io.Writer, logger *slog.Logger) *Shell {
	s := &Shell{
		engine:    e,
		builder:   b,
		renderer:  r,
		publisher: p,
		out:       out,
		logger:    logger,
	}
	for _, c := range scoring.Criteria() {
		s.sliders = append(s.sliders, NewSlider(c, cfg.Step, cfg.Initial.Get(c)))
	}
	return s
}

// Weights reads every slider into a vector.
func (s *Shell) Weights() scoring.WeightVector {
	var w scoring.WeightVector
	for _, sl := range s.sliders {
		w = w.With(sl.Criterion, sl.Value())
	}
	return w
}

func (s *Shell) slider(c scoring.Criterion) *Slider {
	for _, sl := range s.sliders {
		if sl.Criterion == c {
			return sl
		}
	}
	return nil
}

// SetWeight moves one slider and returns the resulting WeightsChanged
// message carrying the full vector.
func (s *Shell) SetWeight(c scoring.Criterion, v float64) scoring.WeightsChanged {
	s.slider(c).Set(v)
	return scoring.WeightsChanged{Weights: s.Weights(), Source: Source}
}

// Reset moves every slider back to its initial value.
func (s *Shell) Reset() scoring.WeightsChanged {
	for _, sl := range s.sliders {
		sl.Reset()
	}
	return scoring.WeightsChanged{Weights: s.Weights(), Source: Source}
}

// Apply hands msg to the engine and redraws kind from the fresh ranking.
func (s *Shell) Apply(msg scoring.WeightsChanged, kind chart.Kind) (scoring.Ranking, error) {
	s.publisher.WeightsChanged(msg)
	r := s.engine.Handle(msg)
	s.publisher.RankingComputed(r)
	return r, s.Redraw(kind, r)
}

// Redraw builds and renders kind for r.
func (s *Shell) Redraw(kind chart.Kind, r scoring.Ranking) error {
	fig, err := s.builder.Build(kind, r)
	if err != nil {
		return err
	}
	s.warnDegenerate(r)
	return s.renderer.Render(s.out, fig)
}

// ShowTable recomputes with the current weights and renders every option.
func (s *Shell) ShowTable() scoring.Ranking {
	r := s.engine.Handle(scoring.WeightsChanged{Weights: s.Weights(), Source: Source})
	s.warnDegenerate(r)
	s.renderer.RenderTable(s.out, chart.BuildTable(r, s.engine.Options()))
	return r
}

func (s *Shell) warnDegenerate(r scoring.Ranking) {
	if len(r.Degenerate) == 0 {
		return
	}
	labels := make([]string, len(r.Degenerate))
	for i, c := range r.Degenerate {
		labels[i] = c.Label()
	}
	fmt.Fprintf(s.out, "note: every option has the same %s; scored %.1f for all\n",
		strings.Join(labels, ", "), scoring.DegenerateValue)
}

// Explain prints the score breakdown of the named option under the current
// weights.
func (s *Shell) Explain(name string) error {
	r := s.engine.Handle(scoring.WeightsChanged{Weights: s.Weights(), Source: Source})
	so, ok := r.Find(name)
	if !ok {
		return fmt.Errorf("no option named %q", name)
	}
	fmt.Fprintf(s.out, "#%d %s  score %.3f\n", so.Rank, so.Name, so.Score)
	for _, f := range scoring.Contributions(so, r.Weights, r.Degenerate) {
		fmt.Fprintf(s.out, "  %-22s %.3f x %.2f = %.3f\n", f.Name.Label(), f.Normalized, f.Weight, f.Weighted)
	}
	return nil
}

func (s *Shell) dialog(title, body string) {
	fmt.Fprintf(s.out, "== %s ==\n%s\n", title, body)
}

func (s *Shell) printWeights() {
	for _, sl := range s.sliders {
		fmt.Fprintf(s.out, "  %-22s %.1f\n", sl.Criterion.Label(), sl.Value())
	}
}

var errQuit = errors.New("quit")

// Run draws the initial chart and processes commands from in until EOF,
// quit, or ctx is cancelled. Every weight change recomputes and redraws
// before the next command is read. Cancellation is honoured while waiting
// for input.
func (s *Shell) Run(ctx context.Context, in io.Reader, initial chart.Kind) error {
	kind := initial
	if _, err := s.Apply(scoring.WeightsChanged{Weights: s.Weights(), Source: Source}, kind); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	lines, scanErr := readLines(in, done)

	for {
		fmt.Fprint(s.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return <-scanErr
			}
			line = l
		}
		next, err := s.exec(line, kind)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		kind = next
	}
}

// readLines scans in on its own goroutine. lines is closed at EOF, after the
// scanner error (possibly nil) has been sent on the returned error channel.
// Closing done stops delivery; a Read already blocked on in is left behind.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// exec runs one command line and returns the chart kind to keep showing.
func (s *Shell) exec(line string, kind chart.Kind) (chart.Kind, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return kind, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	s.logger.Debug("shell command", "command", cmd, "args", args)

	switch cmd {
	case "set":
		if len(args) != 2 {
			return kind, fmt.Errorf("usage: set <criterion> <value>")
		}
		c, err := scoring.ParseCriterion(args[0])
		if err != nil {
			return kind, err
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return kind, fmt.Errorf("invalid weight %q", args[1])
		}
		_, err = s.Apply(s.SetWeight(c, v), kind)
		return kind, err
	case "chart":
		if len(args) != 1 {
			return kind, fmt.Errorf("usage: chart <bar|stacked|bubble|line>")
		}
		next, err := chart.ParseKind(args[0])
		if err != nil {
			return kind, err
		}
		s.publisher.ChartSelected(string(next))
		_, err = s.Apply(scoring.WeightsChanged{Weights: s.Weights(), Source: Source}, next)
		return next, err
	case "reset":
		_, err := s.Apply(s.Reset(), kind)
		return kind, err
	case "table":
		s.ShowTable()
	case "explain":
		if len(args) == 0 {
			return kind, fmt.Errorf("usage: explain <option name>")
		}
		return kind, s.Explain(strings.Join(args, " "))
	case "weights":
		s.printWeights()
	case "info":
		s.dialog(InfoTitle, InfoText)
	case "formula":
		s.dialog(FormulaTitle, FormulaText)
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit", "q":
		return kind, errQuit
	default:
		return kind, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return kind, nil
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/CaBe71/Card-Matching-Game/engine"
	"github.com/CaBe71/Card-Matching-Game/internal/config"
	"github.com/CaBe71/Card-Matching-Game/internal/level"
	"github.com/CaBe71/Card-Matching-Game/internal/session"
)

// options are the command-line overrides on top of the environment.
type options struct {
	Level      int
	File       string
	Seed       uint64
	Difficulty int
}

func parseFlags(fs *flag.FlagSet, args []string, cfg config.Config) (options, error) {
	var opts options
	fs.IntVar(&opts.Level, "level", cfg.Level, "level number to load from the levels directory")
	fs.StringVar(&opts.File, "file", "", "level file to load instead of a numbered level")
	fs.Uint64Var(&opts.Seed, "seed", cfg.Seed, "random seed, 0 picks one from the clock")
	fs.IntVar(&opts.Difficulty, "difficulty", cfg.Difficulty, "generate a random level (1-3) instead of loading one")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.Difficulty < 0 || opts.Difficulty > level.DifficultyHard {
		return options{}, fmt.Errorf("difficulty must be 0..%d, got %d", level.DifficultyHard, opts.Difficulty)
	}
	return opts, nil
}

// command is one parsed input line.
type command struct {
	Name string
	Arg  uint32
	Set  bool // Arg was given
}

var errQuit = errors.New("quit")

// commands lists the accepted verbs and their integer argument, if any.
var commands = map[string]struct{ takesArg, needsArg bool }{
	"click":  {takesArg: true, needsArg: true},
	"draw":   {},
	"undo":   {},
	"new":    {takesArg: true},
	"random": {takesArg: true},
	"state":  {},
	"hint":   {},
	"quit":   {},
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errors.New("empty command")
	}
	name := strings.ToLower(fields[0])
	spec, ok := commands[name]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	cmd := command{Name: name}
	switch {
	case len(fields) > 2, len(fields) == 2 && !spec.takesArg:
		return command{}, fmt.Errorf("%s: too many arguments", name)
	case len(fields) == 2:
		n, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return command{}, fmt.Errorf("%s: invalid number %q", name, fields[1])
		}
		cmd.Arg, cmd.Set = uint32(n), true
	case spec.needsArg:
		return command{}, fmt.Errorf("%s: missing argument", name)
	}
	return cmd, nil
}

// reply is a line written for commands that have no session event.
type reply struct {
	Type  string          `json:"type"`
	Cards []engine.CardID `json:"cards,omitempty"`
	Error string          `json:"error,omitempty"`
}

// run processes commands from in until quit, end of input or cancellation.
// Events are encoded to out by a second goroutine in the same group.
func run(ctx context.Context, cfg config.Config, opts options, in io.Reader, out io.Writer, log *logrus.Logger) error {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan any, 64)
	emit := func(v any) {
		select {
		case events <- v:
		case <-gctx.Done():
		}
	}

	s := session.New(cfg.Rules(), seed, log, func(ev session.Event) { emit(ev) })
	loader := level.Loader{Dir: cfg.LevelsDir}
	log.WithFields(logrus.Fields{
		"session":    s.ID.String(),
		"seed":       seed,
		"relocation": cfg.Rules().Relocation.String(),
	}).Info("Session created.")

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-gctx.Done():
				return
			}
		}
	}()

	g.Go(func() error {
		enc := json.NewEncoder(out)
		for v := range events {
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
		}
		return nil
	})

	g.Go(func() error {
		defer close(events)

		// start deals level id when explicit is set, otherwise the game
		// picked on the command line.
		start := func(id int, explicit bool) error {
			var (
				lvl *level.Config
				err error
			)
			switch {
			case explicit:
				lvl, err = loader.Load(id)
			case opts.File != "":
				lvl, err = level.LoadFile(opts.File)
			case opts.Difficulty > 0:
				return s.NewRandomGame(opts.Difficulty)
			default:
				lvl, err = loader.Load(opts.Level)
			}
			if err != nil {
				return err
			}
			return s.NewGame(lvl.Layout())
		}
		if err := start(0, false); err != nil {
			return fmt.Errorf("start game: %w", err)
		}

		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				err := handle(s, line, start, emit)
				if errors.Is(err, errQuit) {
					log.Info("Quit requested.")
					return nil
				}
				if err != nil {
					log.WithError(err).Debug("Command failed.")
					emit(reply{Type: "error", Error: err.Error()})
				}
			}
		}
	})

	return g.Wait()
}

// handle executes one input line against the session.
func handle(s *session.Session, line string, start func(int, bool) error, emit func(any)) error {
	cmd, err := parseCommand(line)
	if err != nil {
		return err
	}
	switch cmd.Name {
	case "click":
		s.Click(engine.CardID(cmd.Arg))
	case "draw":
		s.Draw()
	case "undo":
		s.Undo()
	case "new":
		return start(int(cmd.Arg), cmd.Set)
	case "random":
		d := level.DifficultyEasy
		if cmd.Set {
			d = int(cmd.Arg)
		}
		return s.NewRandomGame(d)
	case "state":
		s.Publish()
	case "hint":
		ids := s.Hint()
		emit(reply{Type: "hint", Cards: ids})
	case "quit":
		return errQuit
	}
	return nil
}

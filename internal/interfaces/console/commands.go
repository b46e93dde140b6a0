package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"xprem/internal/domain"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

const help = "commands: pin|mute|expand <TICKER>, reset, freeze, unfreeze, pause, resume, pair <ex:QUOTE> <ex:QUOTE>, quit"

// Controller is the engine surface the command line drives.
type Controller interface {
	TogglePin(ctx context.Context, ticker string)
	ToggleMute(ctx context.Context, ticker string)
	ToggleExpand(ctx context.Context, ticker string)
	ResetPrefs(ctx context.Context)
	SetFrozen(frozen bool)
	Pause()
	Resume()
	SwitchPair(ctx context.Context, exA, quoteA, exB, quoteB string) error
}

type Commands struct {
	ctl  Controller
	quit func()
}

func NewCommands(ctl Controller, quit func()) *Commands {
	return &Commands{ctl: ctl, quit: quit}
}

// Exec runs one command line.
func (c *Commands) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "pin", "mute", "expand":
		if len(args) != 1 {
			return fmt.Errorf("%w: %s <TICKER>", ErrUsage, cmd)
		}
		switch cmd {
		case "pin":
			c.ctl.TogglePin(ctx, args[0])
		case "mute":
			c.ctl.ToggleMute(ctx, args[0])
		default:
			c.ctl.ToggleExpand(ctx, args[0])
		}
	case "reset":
		c.ctl.ResetPrefs(ctx)
	case "freeze":
		c.ctl.SetFrozen(true)
	case "unfreeze":
		c.ctl.SetFrozen(false)
	case "pause":
		c.ctl.Pause()
	case "resume":
		c.ctl.Resume()
	case "pair":
		if len(args) != 2 {
			return fmt.Errorf("%w: pair <ex:QUOTE> <ex:QUOTE>", ErrUsage)
		}
		a, b := parseSide(args[0]), parseSide(args[1])
		return c.ctl.SwitchPair(ctx, a.Exchange, a.Quote, b.Exchange, b.Quote)
	case "quit", "exit", "q":
		if c.quit != nil {
			c.quit()
		}
	case "help", "?":
		return fmt.Errorf("%w: %s", ErrUsage, help)
	default:
		return fmt.Errorf("%w: %q (%s)", ErrUnknownCommand, cmd, help)
	}
	return nil
}

// parseSide accepts "upbit:KRW" or a bare exchange id (default quote).
func parseSide(s string) domain.MarketID {
	if m, ok := domain.ParseMarketID(s); ok {
		return m
	}
	return domain.MarketID{Exchange: strings.ToLower(strings.TrimSpace(s))}
}

// Run reads commands line by line until EOF or ctx is done. Errors are
// logged and reading continues.
func (c *Commands) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case line := <-lines:
			if err := c.Exec(ctx, line); err != nil {
				log.Warn().Err(err).Str("input", line).Msg("command failed")
			}
		}
	}
}

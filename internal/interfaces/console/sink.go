package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"xprem/internal/application/port"
)

type Sink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewSink(out io.Writer) port.Sink {
	if out == nil {
		out = os.Stdout
	}
	return &Sink{out: out}
}

// WriteLive redraws the table in place; the frame carries its own cursor codes.
func (s *Sink) WriteLive(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprint(s.out, frame)
	return err
}

// WriteSnapshot 追加一行带时间戳的摘要，下一次 live 刷新会重绘整屏
func (s *Sink) WriteSnapshot(ts time.Time, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out, "\n%s %s\n", ts.Format("2006-01-02 15:04:05"), line)
	return err
}

func (s *Sink) NewLine() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprint(s.out, "\n")
	return err
}

// Package console adapts the host terminal for the emulator: single
// keypresses without echo, a non-blocking poll for the memory-mapped
// keyboard registers, and restoration of the terminal on exit.
package console

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"
)

// Console feeds host keystrokes to the machine. On a real terminal it
// uses raw-mode key events; with stdin redirected (piped test input)
// it reads plain bytes. Both paths drain into the same channel, read
// one key ahead of the machine.
type Console struct {
	keys      chan byte
	interrupt chan struct{}
	tty       bool
	restore   sync.Once
}

// Open puts the terminal into non-canonical, no-echo mode when stdin
// is a terminal. The caller must call Restore on every exit path.
func Open() (*Console, error) {
	c := &Console{
		keys:      make(chan byte),
		interrupt: make(chan struct{}, 1),
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		events, err := keyboard.GetKeys(8)
		if err != nil {
			return nil, err
		}
		c.tty = true
		go c.pumpKeyboard(events)
	} else {
		go c.pumpReader(os.Stdin)
	}

	return c, nil
}

// pumpKeyboard forwards raw-mode key events. Ctrl+C never reaches the
// machine: in raw mode no SIGINT is generated, so it is surfaced on
// the interrupt channel instead.
func (c *Console) pumpKeyboard(events <-chan keyboard.KeyEvent) {
	defer close(c.keys)
	for ev := range events {
		if ev.Err != nil {
			return
		}
		if ev.Key == keyboard.KeyCtrlC {
			select {
			case c.interrupt <- struct{}{}:
			default:
			}
			return
		}
		ch := ev.Rune
		if ch == 0 {
			ch = rune(ev.Key) // Enter, Space, Tab... carry no rune
		}
		c.keys <- byte(ch)
	}
}

func (c *Console) pumpReader(r io.Reader) {
	defer close(c.keys)
	rd := bufio.NewReader(r)
	for {
		b, err := rd.ReadByte()
		if err != nil {
			return
		}
		c.keys <- b
	}
}

// Poll reports whether a key is available right now and consumes it if
// so. It never blocks; this backs the KBSR status read.
func (c *Console) Poll() (byte, bool) {
	select {
	case b, ok := <-c.keys:
		if !ok {
			return 0, false
		}
		return b, true
	default:
		return 0, false
	}
}

// ReadKey blocks until a key arrives. io.EOF once input is exhausted
// (redirected stdin drained, or the key event stream shut down).
func (c *Console) ReadKey() (byte, error) {
	b, ok := <-c.keys
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

// Interrupt delivers at most one Ctrl+C received while in raw mode.
func (c *Console) Interrupt() <-chan struct{} {
	return c.interrupt
}

// Restore puts the terminal attributes back. Safe to call more than
// once and on the non-terminal path.
func (c *Console) Restore() {
	c.restore.Do(func() {
		if c.tty {
			_ = keyboard.Close()
		}
	})
}

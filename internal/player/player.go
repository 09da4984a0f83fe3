// Package player runs mpv as a subprocess and talks to it over its JSON IPC
// socket. One client type serves both engine roles: the audio clock (no video
// output) and the optional windowed video surface.
package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventKind tags the property updates surfaced to the event loop.
type EventKind int

const (
	EventPosition EventKind = iota
	EventDuration
	EventState
	EventEnd
)

// Event is one observed change of the mpv playback state.
type Event struct {
	Kind    EventKind
	Seconds float64
	Playing bool
}

// Options configure the spawned mpv process.
type Options struct {
	// Video opens a real window instead of running as a headless audio clock.
	Video bool
	Title string
}

// Player controls a single mpv process. Synchronous reads return the last
// observed property values, so they are cheap enough for a 100ms poll.
type Player struct {
	cmd    *exec.Cmd
	conn   net.Conn
	socket string

	mu       sync.Mutex
	position float64
	duration float64
	playing  bool

	writeMu sync.Mutex

	events chan Event
	done   chan struct{}
}

// Start spawns mpv idle and paused, connects to its IPC socket, and begins
// observing time-pos, duration, pause, and eof-reached.
func Start(opts Options) (*Player, error) {
	socket := filepath.Join(os.TempDir(), "cardsplice-"+uuid.NewString()[:8]+".sock")
	args := []string{
		"--idle=yes",
		"--input-ipc-server=" + socket,
		"--no-terminal",
		"--really-quiet",
		"--pause",
		"--keep-open=always",
	}
	if opts.Video {
		args = append(args, "--force-window=yes")
		if opts.Title != "" {
			args = append(args, "--title="+opts.Title)
		}
	} else {
		args = append(args, "--no-video")
	}

	cmd := exec.Command("mpv", args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	p := &Player{
		cmd:    cmd,
		socket: socket,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}

	conn, err := dialWithRetry(socket, 5*time.Second)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}
	p.conn = conn

	for i, name := range []string{"time-pos", "duration", "pause", "eof-reached"} {
		p.command("observe_property", i+1, name)
	}

	go p.readLoop()
	go func() {
		cmd.Wait()
		close(p.done)
	}()

	log.Debug().Str("socket", socket).Bool("video", opts.Video).Msg("mpv started")
	return p, nil
}

func dialWithRetry(socket string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("failed to reach mpv ipc socket: %w", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (p *Player) readLoop() {
	defer close(p.events)
	sc := bufio.NewScanner(p.conn)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
			continue
		}
		if ev, ok := p.apply(&msg); ok {
			select {
			case p.events <- ev:
			default:
				// Drop when the UI lags; the next update supersedes it anyway.
			}
		}
	}
}

type ipcMessage struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
	Error     string          `json:"error"`
}

// apply folds one IPC message into the cached state and reports the event to
// surface, if any. time-pos and duration arrive as null while mpv is idle;
// those updates are ignored.
func (p *Player) apply(msg *ipcMessage) (Event, bool) {
	if msg.Event != "property-change" {
		if msg.Error != "" && msg.Error != "success" {
			log.Debug().Str("error", msg.Error).Msg("mpv rejected a command")
		}
		return Event{}, false
	}
	switch msg.Name {
	case "time-pos":
		v, ok := asFloat(msg.Data)
		if !ok {
			return Event{}, false
		}
		p.mu.Lock()
		p.position = v
		p.mu.Unlock()
		return Event{Kind: EventPosition, Seconds: v}, true
	case "duration":
		v, ok := asFloat(msg.Data)
		if !ok {
			return Event{}, false
		}
		p.mu.Lock()
		p.duration = v
		p.mu.Unlock()
		return Event{Kind: EventDuration, Seconds: v}, true
	case "pause":
		v, ok := asBool(msg.Data)
		if !ok {
			return Event{}, false
		}
		p.mu.Lock()
		p.playing = !v
		p.mu.Unlock()
		return Event{Kind: EventState, Playing: !v}, true
	case "eof-reached":
		if v, ok := asBool(msg.Data); ok && v {
			return Event{Kind: EventEnd}, true
		}
	}
	return Event{}, false
}

func asFloat(raw json.RawMessage) (float64, bool) {
	var v float64
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return 0, false
	}
	return v, true
}

func asBool(raw json.RawMessage) (bool, bool) {
	var v bool
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false, false
	}
	return v, true
}

func commandPayload(args ...any) ([]byte, error) {
	return json.Marshal(map[string]any{"command": args})
}

func (p *Player) command(args ...any) {
	b, err := commandPayload(args...)
	if err != nil {
		return
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if p.conn == nil {
		return
	}
	if _, err := p.conn.Write(append(b, '\n')); err != nil {
		log.Debug().Err(err).Msg("mpv ipc write failed")
	}
}

// Load replaces the current file and resets the cached clock.
func (p *Player) Load(path string) {
	p.mu.Lock()
	p.position = 0
	p.duration = 0
	p.mu.Unlock()
	p.command("loadfile", path)
}

// Play resumes playback. The cache flips immediately so a caller reading
// Playing right after sees the state it just requested; mpv echoes the same
// value through the pause observer shortly after.
func (p *Player) Play() {
	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()
	p.command("set_property", "pause", false)
}

// Pause suspends playback, with the same immediate cache flip as Play.
func (p *Player) Pause() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	p.command("set_property", "pause", true)
}

// SetPositionMS seeks to an absolute position. The cached position moves
// immediately so deadline arithmetic done right after a seek uses the target,
// not the pre-seek clock.
func (p *Player) SetPositionMS(ms int) {
	s := float64(ms) / 1000
	p.mu.Lock()
	p.position = s
	p.mu.Unlock()
	p.command("seek", s, "absolute+exact")
}

// PositionMS returns the last observed playback position.
func (p *Player) PositionMS() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(math.Round(p.position * 1000))
}

// DurationMS returns the last observed track duration, 0 while unknown.
func (p *Player) DurationMS() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(math.Round(p.duration * 1000))
}

// Playing reports the last observed pause state.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Seek positions the clock at an absolute time in seconds.
func (p *Player) Seek(seconds float64) {
	p.SetPositionMS(int(math.Round(seconds * 1000)))
}

// SetPlaying maps a play intent onto Play or Pause.
func (p *Player) SetPlaying(playing bool) {
	if playing {
		p.Play()
	} else {
		p.Pause()
	}
}

// Events carries observed property changes; closed when the IPC connection
// drops.
func (p *Player) Events() <-chan Event {
	return p.events
}

// Done is closed when the mpv process exits.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Close asks mpv to quit and kills it if it does not comply in time.
func (p *Player) Close() {
	p.command("quit")
	if p.conn != nil {
		p.conn.Close()
	}
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		if p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
	}
	os.Remove(p.socket)
}

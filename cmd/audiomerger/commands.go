// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sajadjafari/audio-merger/audio"
	"github.com/sajadjafari/audio-merger/media"
	"github.com/sajadjafari/audio-merger/mixer"
	"github.com/sirupsen/logrus"
)

var errQuit = errors.New("quit")

type env struct {
	mixer    *mixer.Manager
	registry *audio.Registry
	rate     int
	log      logrus.FieldLogger
}

type command struct {
	name     string
	usage    string
	run      func(*env, []string) (string, error)
	min, max int // argument count bounds
}

var commands []command

func init() {
	commands = []command{
		{"add", "add <file> [name]: mix a file, paused", addCommand, 1, 2},
		{"tone", "tone <hz> [name]: mix a live sine tone", toneCommand, 1, 2},
		{"play", "play <id>: start a file", playCommand, 1, 1},
		{"pause", "pause <id>: pause a file", pauseCommand, 1, 1},
		{"rm", "rm <id>: remove a source", rmCommand, 1, 1},
		{"vol", "vol <id> <0-100>: set a source volume", volCommand, 2, 2},
		{"level", "level [id...]: show loudness in dB", levelCommand, 0, -1},
		{"ls", "ls: list sources", lsCommand, 0, 0},
		{"help", "help: show this list", helpCommand, 0, 0},
		{"quit", "quit: stop and exit", quitCommand, 0, 0},
	}
}

func (e *env) eval(input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", nil
	}
	name, args := fields[0], fields[1:]

	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(args) < cmd.min || (cmd.max >= 0 && len(args) > cmd.max) {
			return "", fmt.Errorf("%s: wrong number of arguments: usage: %s", cmd.name, cmd.usage)
		}
		result, err := cmd.run(e, args)
		if err != nil && !errors.Is(err, errQuit) {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, err
	}

	return "", fmt.Errorf("unknown command: %s", name)
}

func (e *env) chain(id string) (*mixer.SourceChain, error) {
	c, ok := e.mixer.Source(id)
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", id)
	}
	return c, nil
}

func (e *env) element(id string) (media.Element, error) {
	c, err := e.chain(id)
	if err != nil {
		return nil, err
	}
	el, ok := c.Input().(media.Element)
	if !ok {
		return nil, fmt.Errorf("source is not a file: %s", id)
	}
	return el, nil
}

func addCommand(env *env, args []string) (string, error) {
	el, err := media.OpenFile(args[0], env.registry)
	if err != nil {
		return "", err
	}
	name := args[0]
	if len(args) > 1 {
		name = args[1]
	}

	c, err := env.mixer.AddSource(name, el)
	if err != nil {
		_ = el.Detach()
		return "", err
	}

	return c.ID(), nil
}

func toneCommand(env *env, args []string) (string, error) {
	hz, err := strconv.ParseFloat(args[0], 64)
	if err != nil || hz <= 0 {
		return "", fmt.Errorf("invalid frequency: %s", args[0])
	}
	name := args[0] + "Hz"
	if len(args) > 1 {
		name = args[1]
	}

	track := media.NewLiveTrack(env.rate, 1, 0)
	c, err := env.mixer.AddSource(name, media.NewCaptureStream(track))
	if err != nil {
		return "", err
	}
	go generate(track, hz, env.rate)

	env.log.WithFields(logrus.Fields{
		"function":  "toneCommand",
		"source_id": c.ID(),
		"hz":        hz,
	}).Debug("Tone generator started")

	return c.ID(), nil
}

// generate feeds a sine to track in real time until the track is stopped.
func generate(track *media.LiveTrack, hz float64, rate int) {
	const (
		amplitude = 0.25
		period    = 10 * time.Millisecond
	)

	buf := make([]float32, rate/int(time.Second/period))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var phase float64
	step := 2 * math.Pi * hz / float64(rate)
	for range ticker.C {
		for i := range buf {
			buf[i] = float32(amplitude * math.Sin(phase))
			phase = math.Mod(phase+step, 2*math.Pi)
		}
		if _, err := track.Write(buf); err != nil {
			return
		}
	}
}

func playCommand(env *env, args []string) (string, error) {
	el, err := env.element(args[0])
	if err != nil {
		return "", err
	}
	return "", el.Play()
}

func pauseCommand(env *env, args []string) (string, error) {
	el, err := env.element(args[0])
	if err != nil {
		return "", err
	}
	el.Pause()
	return "", nil
}

func rmCommand(env *env, args []string) (string, error) {
	if _, err := env.chain(args[0]); err != nil {
		return "", err
	}
	env.mixer.RemoveSource(args[0])
	return "", nil
}

func volCommand(env *env, args []string) (string, error) {
	if _, err := env.chain(args[0]); err != nil {
		return "", err
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil || v < 0 || v > 100 {
		return "", fmt.Errorf("volume must be a number from 0 to 100: %s", args[1])
	}
	env.mixer.UpdateVolume(args[0], v)
	return "", nil
}

func levelCommand(env *env, args []string) (string, error) {
	ids := args
	if len(ids) == 0 {
		ids = env.sortedIDs()
	}

	var b strings.Builder
	for _, id := range ids {
		l, ok := env.mixer.Loudness(id)
		if !ok {
			return "", fmt.Errorf("unknown source: %s", id)
		}
		if l.Silent {
			fmt.Fprintf(&b, "%s\tsilent\n", id)
			continue
		}
		fmt.Fprintf(&b, "%s\t%d dB\n", id, l.Decibels)
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func lsCommand(env *env, _ []string) (string, error) {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tVOLUME")
	for _, id := range env.sortedIDs() {
		c, ok := env.mixer.Source(id)
		if !ok {
			continue
		}
		kind := "stream"
		if el, ok := c.Input().(media.Element); ok {
			kind = "file"
			if el.Paused() {
				kind += " (paused)"
			}
		}
		v, _ := env.mixer.Volume(id)
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n", id, c.Name(), kind, v)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (e *env) sortedIDs() []string {
	return slices.Sorted(maps.Keys(e.mixer.Sources()))
}

func helpCommand(_ *env, _ []string) (string, error) {
	lines := make([]string, len(commands))
	for i, cmd := range commands {
		lines[i] = cmd.usage
	}
	return strings.Join(lines, "\n"), nil
}

func quitCommand(_ *env, _ []string) (string, error) {
	return "", errQuit
}

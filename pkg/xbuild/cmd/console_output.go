package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// ConsoleWriter turns zerolog's JSON events into colored, human readable lines
type ConsoleWriter struct {
	out    io.Writer
	buffer strings.Builder
	lock   sync.Mutex
	debug  bool
}

// NewConsoleWriter returns a ConsoleWriter printing to out. If debug is set, every event field is printed.
func NewConsoleWriter(out io.Writer, debug bool) *ConsoleWriter {
	return &ConsoleWriter{
		out:   out,
		debug: debug,
	}
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		return n, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	var color string
	switch evt["level"] {
	case "fatal":
		fallthrough
	case "error":
		color = "[red]"
	case "warn":
		color = "[yellow]"
	case "debug":
		fallthrough
	case "trace":
		color = "[blue]"
	default:
		color = "[green]"
	}

	// only the color codes go through colorstring; compiler output may contain brackets
	w.buffer.Reset()
	w.buffer.WriteString(colorstring.Color(color))

	target, ok := evt["target"].(string)
	if ok {
		w.buffer.WriteString(target + ": ")
	}

	msg, _ := evt["message"].(string)

	path, ok := evt["path"].(string)
	if ok {
		// simplify the path
		relPath, err := filepath.Rel(".", path)
		if err == nil {
			msg = strings.ReplaceAll(msg, path, relPath)
		}
	}

	w.buffer.WriteString(msg)

	output, ok := evt["output"].(string)
	if ok && strings.TrimSpace(output) != "" {
		w.buffer.WriteString(": ")
		w.buffer.WriteString(strings.TrimRight(output, "\n"))
	}

	errorDetails, ok := evt["error"].(string)
	if ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(errorDetails)
	}

	if w.debug {
		w.buffer.WriteString("\n")
		names := make([]string, 0, len(evt))
		for name := range evt {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			w.buffer.WriteString(fmt.Sprintf("  %s: %+v\n", name, evt[name]))
		}
	}

	w.buffer.WriteString(colorstring.Color("[reset]"))
	w.buffer.WriteString("\n")
	_, err = io.WriteString(w.out, w.buffer.String())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}

func setErrorMarshaler(debug bool) {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, debug)
	}
}

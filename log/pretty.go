package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to render each part of a record.
// Styles are bound to the renderer of the output writer, so output that is
// not a terminal is written without escape sequences.
type palette struct {
	key      lipgloss.Style
	text     lipgloss.Style
	number   lipgloss.Style
	yes      lipgloss.Style
	no       lipgloss.Style
	duration lipgloss.Style
	time     lipgloss.Style
	null     lipgloss.Style
	trace    lipgloss.Style
	debug    lipgloss.Style
	info     lipgloss.Style
	warn     lipgloss.Style
	error    lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:      fg("8"),
		text:     fg("6"),
		number:   fg("3"),
		yes:      fg("2"),
		no:       fg("1"),
		duration: fg("5"),
		time:     fg("4"),
		null:     fg("8"),
		trace:    fg("8"),
		debug:    fg("4"),
		info:     fg("2"),
		warn:     fg("3").Bold(true),
		error:    fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler renders records for people rather than machines: colored
// key=value lines in text mode, indented objects in JSON mode.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	attrs  []slog.Attr
	groups []string
	json   bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	json bool,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: makePalette(w),
		json:  json,
	}
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return newPrettyHandler(w, opts, false)
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return newPrettyHandler(w, opts, true)
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Concat(h.attrs, h.qualify(attrs))

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = slices.Concat(h.groups, []string{name})

	return &c
}

// qualify prefixes attribute keys with the open group names.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}

	prefix := strings.Join(h.groups, ".") + "."
	out := make([]slog.Attr, len(attrs))

	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}

	return out
}

// header returns the built-in attributes of r after ReplaceAttr.
func (h *prettyHandler) header(r slog.Record) []slog.Attr {
	header := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		header = append(header, slog.Time(slog.TimeKey, r.Time))
	}

	header = append(header, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			header = append(header,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	header = append(header, slog.String(slog.MessageKey, r.Message))

	if h.opts.ReplaceAttr == nil {
		return header
	}

	out := header[:0]

	for _, a := range header {
		// Levels keep their type so they can be colored by severity.
		if a.Key == slog.LevelKey {
			out = append(out, a)

			continue
		}

		if a = h.opts.ReplaceAttr(nil, a); a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := slices.Concat(h.header(r), h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify([]slog.Attr{a})...)

		return true
	})

	buf := new(bytes.Buffer)

	if h.json {
		h.writeObject(buf, attrs, 1)
	} else {
		for _, a := range attrs {
			h.writeText(buf, "", a)
		}
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// writeText writes a as space-separated key=value pairs, flattening groups
// into dotted keys.
func (h *prettyHandler) writeText(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}

	key := prefix + a.Key

	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			key += "."
		}

		for _, g := range v.Group() {
			h.writeText(buf, key, g)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(key))
	buf.WriteByte('=')
	buf.WriteString(h.value(v))
}

// writeObject writes attrs as an indented object.
func (h *prettyHandler) writeObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString("{\n")

	first := true

	for _, a := range attrs {
		v := a.Value.Resolve()
		if a.Key == "" {
			continue
		}

		if !first {
			buf.WriteString(",\n")
		}

		first = false

		buf.WriteString(indent)
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")

		if v.Kind() == slog.KindGroup {
			h.writeObject(buf, v.Group(), depth+1)
		} else {
			buf.WriteString(h.value(v))
		}
	}

	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("  ", depth-1))
	buf.WriteString("}")
}

// value renders a resolved scalar value.
func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.style.text.Render(v.String())

	case slog.KindInt64:
		return h.style.number.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return h.style.number.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return h.style.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.duration.Render(v.Duration().String())

	case slog.KindTime:
		return h.style.time.Render(v.Time().Format(time.RFC3339))

	default:
		switch a := v.Any().(type) {
		case nil:
			return h.style.null.Render("null")
		case slog.Level:
			return h.style.level(a).Render(strings.ToUpper(Level(a).String()))
		case error:
			return h.style.no.Render(a.Error())
		default:
			return h.style.text.Render(fmt.Sprint(a))
		}
	}
}

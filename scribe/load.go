package scribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/annals/log"
)

// cognateDoc is the document form of a [Cognate].
type cognateDoc struct {
	Name   string     `json:"name"   yaml:"name"`
	Groups []groupDoc `json:"groups" yaml:"groups"`
}

// groupDoc is the document form of a [Group].
type groupDoc struct {
	Tags  map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Note  string            `json:"note,omitempty" yaml:"note,omitempty"`
	Rules []string          `json:"rules"          yaml:"rules"`
}

// Load decodes a grammar document from r.
//
// A document is a sequence of cognates, each with a name and a sequence of
// groups holding optional tags, an optional note, and rule literals. JSON is
// accepted as well as YAML. Every rule is parsed; the first that fails aborts
// the load with [ErrInvalidRule].
//
// Decoded documents are cached by content. The returned cognates may be
// shared with other callers and must not be modified.
func Load(ctx context.Context, r io.Reader) ([]*Cognate, error) {
	return load(ctx, r, log.Logger{})
}

func load(ctx context.Context, r io.Reader, logger log.Logger) ([]*Cognate, error) {
	// Prefetch the next chunk while the previous one is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	logger.TraceContext(ctx, "read grammar", slog.Int("bytes", len(data)))

	return decodeCached(ctx, data, logger)
}

// decode builds cognates from document bytes.
func decode(ctx context.Context, data []byte) ([]*Cognate, error) {
	var docs []cognateDoc

	if err := yaml.UnmarshalContext(ctx, data, &docs); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	cognates := make([]*Cognate, 0, len(docs))

	for i, doc := range docs {
		cog, err := NewCognate(doc.Name)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("index", i))
		}

		for j, gd := range doc.Groups {
			g, err := NewGroup(gd.Tags, gd.Rules...)
			if err != nil {
				return nil, WrapError(err).With(
					slog.String("cognate", doc.Name),
					slog.Int("group", j),
				)
			}

			cog.AddGroup(g.WithNote(gd.Note))
		}

		cognates = append(cognates, cog)
	}

	return cognates, nil
}

// LoadReader decodes a grammar document from r and inserts its cognates.
func (s *Scribe) LoadReader(ctx context.Context, r io.Reader) error {
	cognates, err := load(ctx, r, s.logger)
	if err != nil {
		return err
	}

	s.Insert(cognates...)

	s.logger.DebugContext(ctx, "loaded grammar",
		slog.Int("cognates", len(cognates)),
		slog.Int("total", s.Len()),
	)

	return nil
}

// LoadString decodes a grammar document held in a string and inserts its
// cognates.
func (s *Scribe) LoadString(ctx context.Context, doc string) error {
	return s.LoadReader(ctx, strings.NewReader(doc))
}

// LoadFile decodes the grammar document at path and inserts its cognates.
func (s *Scribe) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	if err := s.LoadReader(ctx, f); err != nil {
		return WrapError(err).With(slog.String("path", path))
	}

	return nil
}

// documents returns the document form of every cognate in name order.
func (s *Scribe) documents() []cognateDoc {
	var docs []cognateDoc

	for cog := range s.Cognates() {
		doc := cognateDoc{Name: cog.name, Groups: make([]groupDoc, 0, len(cog.groups))}

		for _, g := range cog.groups {
			gd := groupDoc{Tags: g.Tags(), Note: g.note, Rules: make([]string, len(g.rules))}
			if len(gd.Tags) == 0 {
				gd.Tags = nil
			}

			for k, r := range g.rules {
				gd.Rules[k] = r.literal
			}

			doc.Groups = append(doc.Groups, gd)
		}

		docs = append(docs, doc)
	}

	return docs
}

// Save writes the grammar to w as a YAML document that [Load] accepts.
// Cognates are written in name order; rules are written as their literals.
func (s *Scribe) Save(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, s.documents(), yaml.Indent(2))
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}

// SaveJSON writes the grammar to w as a JSON document that [Load] accepts.
// An indent of zero writes compact JSON.
func (s *Scribe) SaveJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(s.documents(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(s.documents())
	}

	if err != nil {
		return ErrEncode.Wrap(err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}

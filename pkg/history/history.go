// Package history records evaluated expressions and resolves answer
// references against them.
//
// Each session writes one archive file, history-<uuid>.cbor.lz4, into the
// session data directory: a CBOR document compressed with an LZ4 frame.
// On startup the Manager loads every archive already present, so answer
// references reach across session boundaries; corrupt archives are skipped
// with a warning, never fatally.
//
// Manager implements types.AnswerResolver. It is not safe for concurrent
// use; hosts keep one Manager per logical session.
package history

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ratcrunch/ratcrunch/pkg/session"
	"github.com/ratcrunch/ratcrunch/pkg/types"
)

// FormatVersion is bumped whenever the archive data format changes.
const FormatVersion = "1"

var archiveFileRE = regexp.MustCompile(`^history-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.cbor\.lz4$`)

// Entry is one recorded answer: the evaluated tree (normally an equality of
// input and result) plus the rendition shown to the user when it was made.
type Entry struct {
	ID         uuid.UUID
	Expression *types.Node
	Rendition  string
}

// NewEntry records an expression, rendering it at the given precision.
func NewEntry(expr *types.Node, prec int) Entry {
	return Entry{
		ID:         uuid.New(),
		Expression: expr.Clone(),
		Rendition:  expr.Render(prec),
	}
}

// String returns the rendition captured when the entry was made.
func (e Entry) String() string {
	return e.Rendition
}

// Archive is the on-disk unit: one session's entries plus enough metadata
// to read them back later.
type Archive struct {
	Version       string
	SessionStart  int64
	SessionID     uuid.UUID
	DecimalPlaces int
	Entries       []Entry
}

// Manager accumulates the current session's entries and exposes them,
// together with entries loaded from previous sessions, for answer
// resolution.
type Manager struct {
	filePath string
	previous []Entry
	archive  Archive
	log      *zap.Logger
}

// NewManager loads all previous archives from the session data dir and
// prepares a fresh archive for the current session.
func NewManager(sess *session.Session, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var previous []Entry
	dir, err := os.ReadDir(sess.DataDir)
	if err != nil {
		return nil, errors.Wrap(err, "reading history dir")
	}
	for _, de := range dir {
		if de.IsDir() || !archiveFileRE.MatchString(de.Name()) {
			continue
		}
		path := filepath.Join(sess.DataDir, de.Name())
		arch, err := ReadArchive(path)
		if err != nil {
			log.Warn("skipping unreadable history archive",
				zap.String("path", path), zap.Error(err))
			continue
		}
		previous = append(previous, arch.Entries...)
	}

	id := uuid.New()
	filePath := filepath.Join(sess.DataDir, fmt.Sprintf("history-%s.cbor.lz4", id))
	return &Manager{
		filePath: filePath,
		previous: previous,
		archive: Archive{
			Version:       FormatVersion,
			SessionStart:  time.Now().Unix(),
			SessionID:     id,
			DecimalPlaces: sess.DecimalPlaces,
		},
		log: log,
	}, nil
}

// FilePath returns where the current session's archive is written.
func (m *Manager) FilePath() string {
	return m.filePath
}

// AddEntry appends an entry to the current session.
func (m *Manager) AddEntry(e Entry) {
	m.archive.Entries = append(m.archive.Entries, e)
}

// Entries returns previous-session entries followed by the current
// session's, oldest first.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, 0, len(m.previous)+len(m.archive.Entries))
	out = append(out, m.previous...)
	out = append(out, m.archive.Entries...)
	return out
}

// Flush writes the current session's archive to disk, replacing any
// previous flush of the same session.
func (m *Manager) Flush() error {
	return WriteArchive(m.filePath, &m.archive)
}

// ResolveByIndex maps a "lines back" index to an answer id: back=1 is the
// most recent entry across previous and current sessions.
func (m *Manager) ResolveByIndex(back uint) (types.AnswerID, bool) {
	all := m.Entries()
	if back == 0 || int(back) > len(all) {
		return types.AnswerID{}, false
	}
	return all[len(all)-int(back)].ID, true
}

// ResolveExpression returns the recorded tree for id, stripping an outer
// equality wrapper to its reduced side so "$n" stands for the prior
// answer's value, not its textual input.
func (m *Manager) ResolveExpression(id types.AnswerID) (*types.Node, bool) {
	all := m.Entries()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].ID != id {
			continue
		}
		expr := all[i].Expression
		if expr.Kind == types.KindEquality {
			return expr.Right.Clone(), true
		}
		return expr.Clone(), true
	}
	return nil, false
}

// wire shapes: trees travel through the types codec, ids as 16-byte uuids.

type wireEntry struct {
	ID        []byte `cbor:"id"`
	Expr      []byte `cbor:"e"`
	Rendition string `cbor:"r"`
}

type wireArchive struct {
	Version       string      `cbor:"v"`
	SessionStart  int64       `cbor:"t"`
	SessionID     []byte      `cbor:"s"`
	DecimalPlaces int         `cbor:"p"`
	Entries       []wireEntry `cbor:"e"`
}

// WriteArchive serializes an archive to path as LZ4-compressed CBOR.
func WriteArchive(path string, a *Archive) error {
	w := wireArchive{
		Version:       a.Version,
		SessionStart:  a.SessionStart,
		SessionID:     a.SessionID[:],
		DecimalPlaces: a.DecimalPlaces,
	}
	for _, e := range a.Entries {
		expr, err := types.EncodeNode(e.Expression)
		if err != nil {
			return errors.Wrap(err, "encoding history entry")
		}
		w.Entries = append(w.Entries, wireEntry{ID: e.ID[:], Expr: expr, Rendition: e.Rendition})
	}
	data, err := cbor.Marshal(w)
	if err != nil {
		return errors.Wrap(err, "encoding history archive")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating history archive")
	}
	zw := lz4.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		f.Close()
		return errors.Wrap(err, "compressing history archive")
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return errors.Wrap(err, "finishing history archive")
	}
	return f.Close()
}

// ReadArchive loads an archive written by WriteArchive.
func ReadArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening history archive")
	}
	defer f.Close()
	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, "decompressing history archive")
	}
	var w wireArchive
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decoding history archive")
	}

	a := &Archive{
		Version:       w.Version,
		SessionStart:  w.SessionStart,
		DecimalPlaces: w.DecimalPlaces,
	}
	if a.SessionID, err = uuid.FromBytes(w.SessionID); err != nil {
		return nil, errors.Wrap(err, "decoding session id")
	}
	for _, we := range w.Entries {
		id, err := uuid.FromBytes(we.ID)
		if err != nil {
			return nil, errors.Wrap(err, "decoding entry id")
		}
		expr, err := types.DecodeNode(we.Expr)
		if err != nil {
			return nil, errors.Wrap(err, "decoding entry expression")
		}
		a.Entries = append(a.Entries, Entry{ID: id, Expression: expr, Rendition: we.Rendition})
	}
	return a, nil
}

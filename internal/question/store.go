package question

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidDifficulty rejects appends to a non-canonical bucket.
	ErrInvalidDifficulty = errors.New("difficulty must be one of Easy, Medium, Hard")
	// ErrMissingField marks a request lacking topic, difficulty or question.
	ErrMissingField = errors.New("missing required field")
	// ErrUnexpectedDocument marks a store file that is valid JSON but not a
	// topic to difficulty to questions mapping. Such a file is never rewritten.
	ErrUnexpectedDocument = errors.New("store file does not hold a question document")
	// ErrSaveFailed wraps any failure to persist a verified question.
	ErrSaveFailed = errors.New("failed to save question")
)

// Store owns the JSON question document on disk. Every mutation reloads
// the whole document and rewrites it under the Locker.
type Store struct {
	path   string
	locker Locker
	logger zerolog.Logger
}

// NewStore opens the document at path, creating it as {} when absent.
// A nil locker selects an in-process lock.
func NewStore(path string, locker Locker, logger zerolog.Logger) (*Store, error) {
	if locker == nil {
		locker = NewLocalLocker()
	}
	s := &Store{
		path:   path,
		locker: locker,
		logger: logger.With().Str("component", "question_store").Str("path", path).Logger(),
	}
	if err := s.EnsureExists(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// EnsureExists creates the backing file with an empty document if it does
// not exist. An existing file is never touched.
func (s *Store) EnsureExists() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("{}\n")); err != nil {
		return fmt.Errorf("write empty store: %w", err)
	}
	s.logger.Info().Msg("created empty question store")
	return nil
}

// Load reads the whole document. A missing or malformed file yields an
// empty document; Load never fails. A well-formed document that does not
// have the topic/difficulty shape is also reported as empty, but writes to
// it are refused.
func (s *Store) Load() Document {
	doc, err := s.read()
	if err != nil {
		s.logger.Error().Err(err).Msg("unreadable store; treating as empty")
		return Document{}
	}
	return doc
}

func (s *Store) read() (Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	if !json.Valid(data) {
		s.logger.Warn().Msg("malformed store; treating as empty")
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedDocument, err)
	}
	if doc == nil {
		return Document{}, nil
	}
	doc.normalize()
	return doc, nil
}

// Titles returns every stored title for topic in Easy, Medium, Hard order.
func (s *Store) Titles(topic string) []string {
	bucket, ok := s.Load()[topic]
	if !ok {
		return nil
	}
	all := bucket.all()
	titles := make([]string, 0, len(all))
	for _, q := range all {
		if q.Title != "" {
			titles = append(titles, q.Title)
		}
	}
	return titles
}

// AddQuestion appends q under (topic, difficulty) unless the topic already
// holds a question with the same title or id in any difficulty. The
// question is returned in every case, with an id assigned when it had
// none; added reports whether the document changed.
func (s *Store) AddQuestion(ctx context.Context, topic string, difficulty Difficulty, q Question) (Question, bool, error) {
	if topic == "" {
		return q, false, fmt.Errorf("%w: topic", ErrMissingField)
	}
	if !difficulty.Valid() {
		return q, false, fmt.Errorf("%w: got %q", ErrInvalidDifficulty, difficulty)
	}

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return q, false, err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn().Err(err).Msg("release store lock failed")
		}
	}()

	doc, err := s.read()
	if err != nil {
		return q, false, err
	}
	bucket, ok := doc[topic]
	if !ok {
		bucket = newBucket()
		doc[topic] = bucket
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.normalize()

	if isDuplicate(q, bucket) {
		s.logger.Debug().Str("topic", topic).Str("title", q.Title).Msg("duplicate question skipped")
		return q, false, nil
	}

	bucket.append(difficulty, q)
	if err := s.write(doc); err != nil {
		return q, false, err
	}
	return q, true, nil
}

// isDuplicate matches on exact title or id across all of a topic's difficulties.
func isDuplicate(q Question, bucket *Bucket) bool {
	for _, existing := range bucket.all() {
		if existing.Title == q.Title || existing.ID == q.ID {
			return true
		}
	}
	return false
}

// write replaces the document via a sibling temp file and rename.
func (s *Store) write(doc Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp store: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teemow/inboxagent/internal/mail"
)

// File names inside an email's directory.
const (
	FileUsage             = "api_cost.txt"
	FileRawEmail          = "raw_email.txt"
	FileHTML              = "email_html.html"
	FileArticle           = "article.html"
	FileGeneratedResponse = "generated_response.txt"
	FileNominations       = "nominations.txt"
	FileThankYouNote      = "thankyou_note.txt"
	FileCategory          = "email_category.txt"
	FileResponseObject    = "response_object.txt"
	DirAttachments        = "attachments"

	tmpPrefix = ".tmp-"
)

// Bundle is everything saved for one processed email. Empty fields are not
// written.
type Bundle struct {
	ID                string
	Usage             string
	RawEmail          string
	HTML              string
	Article           string
	GeneratedResponse string
	Nominations       string
	ThankYouNote      string
	Category          string
	ResponseObject    string
	Attachments       []mail.Attachment
}

func (b Bundle) files() []struct{ name, content string } {
	return []struct{ name, content string }{
		{FileUsage, b.Usage},
		{FileRawEmail, b.RawEmail},
		{FileHTML, b.HTML},
		{FileArticle, b.Article},
		{FileGeneratedResponse, b.GeneratedResponse},
		{FileNominations, b.Nominations},
		{FileThankYouNote, b.ThankYouNote},
		{FileCategory, b.Category},
		{FileResponseObject, b.ResponseObject},
	}
}

// Store is a file sink rooted at a data directory.
type Store struct {
	root string
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the data directory.
func (s *Store) Root() string {
	return s.root
}

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", `\`, "_", "/", "_",
	"|", "_", "?", "_", "*", "_", "@", "_", "+", "_", "=", "_",
)

// Sanitize maps an email id to a directory name.
func Sanitize(id string) string {
	name := unsafeChars.Replace(id)
	if name == "." || name == ".." {
		name = strings.Repeat("_", len(name))
	}
	return name
}

// Dir returns the directory of an email id.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.root, Sanitize(id))
}

// Exists reports whether a result is stored for id.
func (s *Store) Exists(id string) (bool, error) {
	if id == "" {
		return false, errors.New("empty email id")
	}
	_, err := os.Stat(s.Dir(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", s.Dir(id), err)
	}
}

// Save writes b. An existing result for the same id is replaced.
func (s *Store) Save(b Bundle) error {
	if b.ID == "" {
		return errors.New("empty email id")
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.MkdirTemp(s.root, tmpPrefix+Sanitize(b.ID)+"-")
	if err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", b.ID, err)
	}
	cleanup := func() { _ = os.RemoveAll(tmp) }

	for _, f := range b.files() {
		if f.content == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(tmp, f.name), []byte(f.content), 0o644); err != nil {
			cleanup()
			return fmt.Errorf("failed to create %s: %w", f.name, err)
		}
	}

	if err := writeAttachments(tmp, b.Attachments); err != nil {
		cleanup()
		return err
	}

	dst := s.Dir(b.ID)
	if err := os.RemoveAll(dst); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		cleanup()
		return fmt.Errorf("failed to move result into place: %w", err)
	}
	return nil
}

func writeAttachments(dir string, atts []mail.Attachment) error {
	if len(atts) == 0 {
		return nil
	}
	adir := filepath.Join(dir, DirAttachments)
	if err := os.MkdirAll(adir, 0o755); err != nil {
		return fmt.Errorf("failed to create attachments directory: %w", err)
	}

	seen := map[string]int{}
	for i, a := range atts {
		name := filepath.Base(Sanitize(a.Filename))
		if name == "" || name == "." || name == "_" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}
		if n := seen[name]; n > 0 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
		}
		seen[name]++

		if err := os.WriteFile(filepath.Join(adir, name), a.Data, 0o644); err != nil {
			return fmt.Errorf("failed to save attachment %s: %w", a.Filename, err)
		}
	}
	return nil
}

// List returns the directory names of all stored results, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), tmpPrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns one stored file of a result directory as listed by List.
func (s *Store) ReadFile(dirName, file string) (string, error) {
	if dirName != filepath.Base(dirName) || file != filepath.Base(file) {
		return "", fmt.Errorf("invalid path %s/%s", dirName, file)
	}
	b, err := os.ReadFile(filepath.Join(s.root, dirName, file))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
)

// ReadEntries returns every entry of the archive at path, in archive order.
func ReadEntries(path string) ([]domain.TemplateFile, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	files := make([]domain.TemplateFile, 0, len(zr.File))
	for _, f := range zr.File {
		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		files = append(files, domain.TemplateFile{Name: f.Name, Content: content})
	}
	return files, nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read entry %s: %w", f.Name, err)
	}
	return string(b), nil
}

// Verify checks that the archive at path holds exactly want: every name once,
// every content unchanged, nothing else.
func Verify(path string, want []domain.TemplateFile) error {
	got, err := ReadEntries(path)
	if err != nil {
		return err
	}

	expected := make(map[string]string, len(want))
	for _, f := range want {
		expected[f.Name] = f.Content
	}

	seen := make(map[string]bool, len(got))
	for _, f := range got {
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate entry %s", domain.ErrArchiveMismatch, f.Name)
		}
		seen[f.Name] = true

		content, ok := expected[f.Name]
		if !ok {
			return fmt.Errorf("%w: unexpected entry %s", domain.ErrArchiveMismatch, f.Name)
		}
		if content != f.Content {
			return fmt.Errorf("%w: content of %s differs", domain.ErrArchiveMismatch, f.Name)
		}
	}

	for _, f := range want {
		if !seen[f.Name] {
			return fmt.Errorf("%w: missing entry %s", domain.ErrArchiveMismatch, f.Name)
		}
	}
	return nil
}

package domain

import (
	"fmt"
	"path"
	"strings"
)

// TemplateFile is a named static content blob.
// Name is a slash-separated path relative to the archive root.
type TemplateFile struct {
	Name    string
	Content string
}

// ArchiveResult describes a produced archive.
type ArchiveResult struct {
	Path    string
	Entries []string
	Size    int64
}

// ValidateTemplateSet checks that files is non-empty and that every name is
// unique, relative and stays inside the archive root.
func ValidateTemplateSet(files []TemplateFile) error {
	if len(files) == 0 {
		return ErrEmptyTemplateSet
	}

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if err := validateName(f.Name); err != nil {
			return err
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTemplate, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, "\\") || path.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}
	clean := path.Clean(name)
	if clean != name || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}
	return nil
}

package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
)

// DefaultOutput is the archive path used when none is given.
const DefaultOutput = "realtime-service-minimal.zip"

const (
	stagingPattern = "musicbox-staging-*"
	tempPattern    = ".musicbox-zip-*"
)

// Builder produces zip archives from template sets.
type Builder struct {
	logger     *slog.Logger
	stagingDir string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to report progress.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithStagingDir sets the parent directory for staging. Defaults to os.TempDir().
func WithStagingDir(dir string) Option {
	return func(b *Builder) {
		b.stagingDir = dir
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build writes files into a staging directory and bundles them into a zip at outPath.
// Entries keep their names and content unchanged, in the order given.
func (b *Builder) Build(ctx context.Context, files []domain.TemplateFile, outPath string) (*domain.ArchiveResult, error) {
	if err := domain.ValidateTemplateSet(files); err != nil {
		return nil, err
	}
	if outPath == "" {
		outPath = DefaultOutput
	}

	staging, err := os.MkdirTemp(b.stagingDir, stagingPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			b.logger.Warn("failed to remove staging dir", "path", staging, "error", err)
		}
	}()
	b.logger.Debug("staging templates", "dir", staging, "count", len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stage(staging, f); err != nil {
			return nil, err
		}
	}

	size, err := b.writeArchive(ctx, staging, files, outPath)
	if err != nil {
		return nil, err
	}

	entries := make([]string, len(files))
	for i, f := range files {
		entries[i] = f.Name
	}

	b.logger.Info("archive created", "path", outPath, "entries", len(entries), "size", size)
	return &domain.ArchiveResult{Path: outPath, Entries: entries, Size: size}, nil
}

func stage(dir string, f domain.TemplateFile) error {
	path := filepath.Join(dir, filepath.FromSlash(f.Name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to stage %s: %w", f.Name, err)
	}
	if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
		return fmt.Errorf("failed to stage %s: %w", f.Name, err)
	}
	return nil
}

// writeArchive zips the staged files into a temp file beside outPath and renames it into place.
func (b *Builder) writeArchive(ctx context.Context, staging string, files []domain.TemplateFile, outPath string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), tempPattern)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := addEntry(zw, staging, f.Name); err != nil {
			return 0, err
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to flush archive: %w", err)
	}

	info, err := tmp.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return 0, fmt.Errorf("failed to set archive permissions: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return 0, fmt.Errorf("failed to move archive into place: %w", err)
	}

	success = true
	return info.Size(), nil
}

func addEntry(zw *zip.Writer, staging, name string) error {
	src, err := os.Open(filepath.Join(staging, filepath.FromSlash(name)))
	if err != nil {
		return fmt.Errorf("failed to read staged %s: %w", name, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat staged %s: %w", name, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build header for %s: %w", name, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

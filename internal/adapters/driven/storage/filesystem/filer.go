package filesystem

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure DocumentFiler implements the interface.
var _ driven.DocumentFiler = (*DocumentFiler)(nil)

// DocumentFiler copies source files into person folders and the review
// area under the storage root.
type DocumentFiler struct {
	root string
}

// NewDocumentFiler creates a filer rooted at root.
func NewDocumentFiler(root string) *DocumentFiler {
	return &DocumentFiler{root: root}
}

// ReviewDir returns the manual review directory.
func (f *DocumentFiler) ReviewDir() string {
	return filepath.Join(f.root, ReviewDirName)
}

// File copies src into the person folder. An existing file of the same
// name is overwritten.
func (f *DocumentFiler) File(_ context.Context, src, folderID string) (string, string, error) {
	if !validID(folderID) {
		return "", "", fmt.Errorf("%w: person id %q", domain.ErrFiling, folderID)
	}
	dir := filepath.Join(f.root, folderID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("%w: create %s: %w", domain.ErrFiling, folderID, err)
	}

	dest := filepath.Join(dir, filepath.Base(src))
	sum, err := CopyFileVerified(src, dest)
	if err != nil {
		return "", "", fmt.Errorf("%w: copy %s: %w", domain.ErrFiling, filepath.Base(src), err)
	}
	return dest, sum, nil
}

// WriteSidecar writes <file>.json next to the filed copy.
func (f *DocumentFiler) WriteSidecar(_ context.Context, rec *domain.DocumentRecord) error {
	path := rec.FilePath + SidecarExt
	if err := writeJSON(path, rec); err != nil {
		return fmt.Errorf("%w: write sidecar %s: %w", domain.ErrFiling, filepath.Base(path), err)
	}
	return nil
}

// QuarantineForReview copies src into _Manual_Review.
func (f *DocumentFiler) QuarantineForReview(_ context.Context, src string) (string, error) {
	dir := f.ReviewDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create review dir: %w", domain.ErrFiling, err)
	}
	dest := filepath.Join(dir, filepath.Base(src))
	if _, err := CopyFileVerified(src, dest); err != nil {
		return "", fmt.Errorf("%w: copy to review: %w", domain.ErrFiling, err)
	}
	return dest, nil
}

// CopyFileVerified copies src to dst, then re-reads dst and compares its
// size and xxhash against the source. On mismatch dst is removed. It
// returns the hex checksum of the copied bytes. When dst already is src
// nothing is written and the source checksum is returned.
func CopyFileVerified(src, dst string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return ChecksumFile(src)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHash := xxhash.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHash))
	if err != nil {
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}

	dstSum, err := ChecksumFile(dst)
	if err != nil {
		return "", fmt.Errorf("verify copy: %w", err)
	}
	srcSum := hex.EncodeToString(srcHash.Sum(nil))
	if dstSum != srcSum {
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return srcSum, nil
}

// ChecksumFile returns the hex xxhash64 of a file's contents.
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

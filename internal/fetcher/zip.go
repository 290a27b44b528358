package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractZIPFirst extracts the first file in the archive whose extension is
// one of exts (case-insensitive, with the leading dot). With no exts the
// archive must contain exactly one file.
func ExtractZIPFirst(zipPath, destDir string, exts ...string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var files []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(f.Name), ".") {
			continue
		}
		files = append(files, f)
	}

	if len(exts) == 0 {
		if len(files) != 1 {
			return "", eris.Errorf("zip: expected exactly 1 file, got %d", len(files))
		}
		return extractZIPEntry(files[0], destDir)
	}

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				return extractZIPEntry(f, destDir)
			}
		}
	}

	return "", eris.Errorf("zip: no %s file in archive", strings.Join(exts, "/"))
}

// extractZIPEntry extracts a single zip.File to the destination directory.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q (zip slip attempt)", f.Name)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "zip: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "zip: write file")
	}

	return destPath, nil
}

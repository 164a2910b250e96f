package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts zipPath into a fresh private temporary directory
// and returns its path. Every entry is validated to resolve strictly
// inside that directory before anything is written; an entry escaping
// it fails the whole extraction. The caller owns removal of the
// returned directory.
func ExtractZip(zipPath string) (string, error) {
	tempDir, err := os.MkdirTemp("", "mobilemcp_zip_")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	if err := extractZipTo(zipPath, tempDir); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	return tempDir, nil
}

func extractZipTo(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open zip file: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		path, err := sanitizeExtractPath(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}

		if err := extractZipEntry(file, path); err != nil {
			return err
		}
	}

	return nil
}

// sanitizeExtractPath rejects entries that would land outside destDir
// (zip-slip).
func sanitizeExtractPath(destDir, name string) (string, error) {
	path := filepath.Join(destDir, name)
	if !strings.HasPrefix(path, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("zip entry %q resolves outside of extraction directory", name)
	}
	return path, nil
}

func extractZipEntry(file *zip.File, path string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	outFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, rc)
	return err
}

// FindAppBundle returns the first .app bundle directory under root, or
// an error when none exists.
func FindAppBundle(root string) (string, error) {
	var found string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && strings.HasSuffix(path, ".app") {
			found = path
			return filepath.SkipAll
		}
		return nil
	})

	if err != nil {
		return "", err
	}

	if found == "" {
		return "", fmt.Errorf("no .app bundle found in %s", root)
	}

	return found, nil
}

package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// fingerprintLen is the number of hash hex digits in a file name.
const fingerprintLen = 8

// Build fingerprints every regular file under srcDir into outDir and
// returns the resulting manifest. Names are content-addressed:
// "app.js" with hash a1b2c3d4 becomes "app.a1b2c3d4.js". Nested
// directories are kept, with manifest keys using forward slashes.
func Build(srcDir, outDir string) (*Manifest, error) {
	m := NewManifest()

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		sum, err := hashFile(path)
		if err != nil {
			return fmt.Errorf("hash %s: %w", rel, err)
		}
		hashed := fingerprintName(rel, sum)

		dst := filepath.Join(outDir, hashed)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := copyFile(path, dst); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}

		m.Set(filepath.ToSlash(rel), filepath.ToSlash(hashed))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// fingerprintName inserts the hash before the file extension.
func fingerprintName(rel, sum string) string {
	ext := filepath.Ext(rel)
	base := strings.TrimSuffix(rel, ext)
	return base + "." + sum[:fingerprintLen] + ext
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

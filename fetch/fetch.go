// Package fetch retrieves and unpacks upstream source archives.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("archive entry escapes destination")

type ChecksumError struct {
	URL            string
	Expect, Actual string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("sha256 mismatch for %s: expected %s, got %s", e.URL, e.Expect, e.Actual)
}

// Source is an archive to retrieve. URL may be an http(s) URL, a file URL or
// a local path.
type Source struct {
	URL    string
	SHA256 string
}

// Getter downloads and unpacks archives.
type Getter struct {
	Client *http.Client
	Log    *slog.Logger
}

var Default = Getter{Client: http.DefaultClient, Log: slog.Default()}

// Get is [Getter.Get] of [Default].
func Get(ctx context.Context, src Source, destDir string) (string, error) {
	return Default.Get(ctx, src, destDir)
}

// Get retrieves src, verifies its checksum if given and extracts it into
// destDir. If the archive has exactly one top-level directory, its name is
// returned.
func (g Getter) Get(ctx context.Context, src Source, destDir string) (string, error) {
	tmp, err := os.CreateTemp("", "kmlpkg-fetch-*")
	if err != nil {
		return "", err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()
	g.log().Info("retrieve `url`", "url", src.URL)
	h := sha256.New()
	if err := g.download(ctx, src.URL, io.MultiWriter(tmp, h)); err != nil {
		return "", fmt.Errorf("retrieve %s: %w", src.URL, err)
	}
	if src.SHA256 != "" {
		actual := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(actual, src.SHA256) {
			return "", &ChecksumError{URL: src.URL, Expect: src.SHA256, Actual: actual}
		}
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0777); err != nil {
		return "", err
	}
	kind, err := archiveKind(src.URL)
	if err != nil {
		return "", err
	}
	var tops []string
	switch kind {
	case kindTarGz:
		tops, err = untarGz(tmp, destDir)
	case kindTar:
		tops, err = untar(tmp, destDir)
	case kindZip:
		st, serr := tmp.Stat()
		if serr != nil {
			return "", serr
		}
		tops, err = unzip(tmp, st.Size(), destDir)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", src.URL, err)
	}
	if len(tops) == 1 {
		if st, err := os.Stat(filepath.Join(destDir, tops[0])); err == nil && st.IsDir() {
			return tops[0], nil
		}
	}
	return "", nil
}

func (g Getter) log() *slog.Logger {
	if g.Log == nil {
		return slog.Default()
	}
	return g.Log
}

func (g Getter) download(ctx context.Context, rawURL string, w io.Writer) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 { // 1: Windows drive letter
		return copyFile(w, rawURL)
	}
	switch u.Scheme {
	case "file":
		return copyFile(w, filepath.FromSlash(u.Path))
	case "http", "https":
	default:
		return fmt.Errorf("unsupported url scheme '%s'", u.Scheme)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	clt := g.Client
	if clt == nil {
		clt = http.DefaultClient
	}
	resp, err := clt.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http status %s", resp.Status)
	}
	n, err := io.Copy(w, resp.Body)
	g.log().Debug("downloaded `bytes`", "bytes", n)
	return err
}

func copyFile(w io.Writer, path string) error {
	r, err := os.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = io.Copy(w, r)
	return err
}

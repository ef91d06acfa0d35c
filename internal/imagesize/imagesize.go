// Package imagesize reports the intrinsic pixel size of image sources
// referenced by documents: local paths, file:// URLs and data: URIs.
// Remote sources are never fetched.
package imagesize

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrRemote     = errors.New("imagesize: remote source")
	ErrNotImage   = errors.New("imagesize: not an image")
	ErrBadDataURI = errors.New("imagesize: malformed data URI")
)

const (
	// sniffLen is how much of a source is inspected for its media type.
	sniffLen = 3072
	// cacheTTL bounds how long a probed size is trusted; images replaced
	// on disk are picked up afterwards.
	cacheTTL = time.Minute
)

type result struct {
	w, h int
	ok   bool
}

// Prober resolves and caches image sizes.
type Prober struct {
	base  string
	log   *zap.Logger
	cache *cache.Cache
}

// New returns a prober resolving relative paths against base.
func New(base string, log *zap.Logger) *Prober {
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{base: base, log: log.Named("imagesize"), cache: cache.New(cacheTTL, 0)}
}

// Size reports the size of src. Failures are cached too, so a missing
// file is looked up once per session.
func (p *Prober) Size(src string) (w, h int, ok bool) {
	if v, hit := p.cache.Get(src); hit {
		r := v.(result)
		return r.w, r.h, r.ok
	}
	cfg, err := p.probe(src)
	r := result{w: cfg.Width, h: cfg.Height, ok: err == nil}
	if err != nil {
		p.log.Debug("image size unknown", zap.String("src", truncate(src)), zap.Error(err))
	}
	p.cache.SetDefault(src, r)
	return r.w, r.h, r.ok
}

// Forget drops cached results, for example after files changed on disk.
func (p *Prober) Forget() { p.cache.Flush() }

func (p *Prober) probe(src string) (image.Config, error) {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "data:") {
		data, err := decodeDataURI(src)
		if err != nil {
			return image.Config{}, err
		}
		return DecodeConfig(bytes.NewReader(data))
	}
	path, err := p.resolve(src)
	if err != nil {
		return image.Config{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f)
}

func (p *Prober) resolve(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse source: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		if filepath.IsAbs(u.Path) || p.base == "" {
			return u.Path, nil
		}
		return filepath.Join(p.base, u.Path), nil
	case "file":
		return u.Path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrRemote, u.Scheme)
}

// DecodeConfig reads the dimensions of an encoded image without decoding
// its pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return image.Config{}, err
	}
	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return image.Config{}, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}
	cfg, format, err := image.DecodeConfig(br)
	if err != nil {
		return image.Config{}, fmt.Errorf("decode %s: %w", mt.String(), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, fmt.Errorf("%w: empty %s", ErrNotImage, format)
	}
	return cfg, nil
}

func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, ErrBadDataURI
	}
	if !strings.HasSuffix(meta, ";base64") {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
		}
		return []byte(s), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some producers drop the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return data, nil
}

func truncate(s string) string {
	if len(s) > 64 {
		return s[:64] + "…"
	}
	return s
}

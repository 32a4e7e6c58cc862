package reference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/util"
	"github.com/ppiankov/peptidemine/internal/worker"
)

// ErrRobotsDisallowed is returned when robots.txt forbids downloading the reference
var ErrRobotsDisallowed = errors.New("blocked by robots.txt")

// Fetcher downloads remote reference databases into a local directory
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	userAgent  string
	dir        string
	logger     *log.Logger
}

// NewFetcher creates a Fetcher from reference configuration
func NewFetcher(cfg model.ReferenceConfig, logger *log.Logger) *Fetcher {
	client := util.NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy)

	f := &Fetcher{
		httpClient: client,
		limiter:    worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize),
		userAgent:  cfg.UserAgent,
		dir:        cfg.DownloadDir,
		logger:     logger,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client)
	}
	return f
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// LocalPath returns where rawURL is stored once downloaded
func (f *Fetcher) LocalPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		sum := sha256.Sum256([]byte(rawURL))
		name = hex.EncodeToString(sum[:8]) + ".fasta"
	}
	return filepath.Join(f.dir, name), nil
}

// Fetch downloads rawURL unless a previous download is present, returning the local path
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	dest, err := f.LocalPath(rawURL)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		f.logger.Debug("reusing downloaded reference", "path", dest)
		return dest, nil
	}

	var delay time.Duration
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
		}
		delay = crawlDelay
	}

	if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	f.logger.Info("downloading reference", "url", rawURL, "dest", dest)
	if err := f.download(ctx, rawURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("read body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}

// Resolve loads the reference named by source, downloading it first when it is a URL
func Resolve(ctx context.Context, source string, f *Fetcher, logger *log.Logger) (*Database, error) {
	if source == "" {
		return nil, errors.New("no reference database configured")
	}

	local := source
	if IsRemote(source) {
		p, err := f.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("download reference: %w", err)
		}
		local = p
	}

	db, err := LoadFile(local, logger)
	if err != nil {
		return nil, err
	}
	db.Source = source
	return db, nil
}

package github

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

const bytesPerMB = 1 << 20

// ArchiveFetcher downloads the whole branch as a zipball in one request and
// walks it in memory. Fast, but bounded by a size limit checked both before
// the download (Content-Length) and after it.
type ArchiveFetcher struct {
	http        *resty.Client
	apiBase     string
	maxZipBytes int64
	log         logger.Logger
}

// NewArchiveFetcher creates an archive fetcher that refuses archives larger
// than maxZipSizeMB.
func NewArchiveFetcher(token string, maxZipSizeMB int, log logger.Logger) *ArchiveFetcher {
	if log == nil {
		log = logger.Nop()
	}
	client := resty.New().
		SetTimeout(2 * time.Minute).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &ArchiveFetcher{
		http:        client,
		apiBase:     apiBaseURL,
		maxZipBytes: int64(maxZipSizeMB) * bytesPerMB,
		log:         log,
	}
}

// FetchFiles downloads the branch archive and visits every supported file in
// it. Returns types.ErrArchiveTooLarge before visiting anything when the
// archive exceeds the size limit.
func (f *ArchiveFetcher) FetchFiles(ctx context.Context, owner, repo, branch string, visit FileVisitor) error {
	archiveURL := f.archiveURL(owner, repo, branch)

	if size, known := f.contentLength(ctx, archiveURL); known && size > f.maxZipBytes {
		return fmt.Errorf("%w: %s/%s@%s archive is %.2fMB, limit %dMB",
			types.ErrArchiveTooLarge, owner, repo, branch,
			float64(size)/bytesPerMB, f.maxZipBytes/bytesPerMB)
	}

	resp, err := f.http.R().SetContext(ctx).Get(archiveURL)
	if err != nil {
		return fmt.Errorf("download archive %s/%s@%s: %w", owner, repo, branch, err)
	}
	if resp.IsError() {
		return fmt.Errorf("download archive %s/%s@%s: status %s", owner, repo, branch, resp.Status())
	}

	body := resp.Body()
	if int64(len(body)) > f.maxZipBytes {
		return fmt.Errorf("%w: %s/%s@%s archive is %.2fMB, limit %dMB",
			types.ErrArchiveTooLarge, owner, repo, branch,
			float64(len(body))/bytesPerMB, f.maxZipBytes/bytesPerMB)
	}
	f.log.Info("archive downloaded",
		"repo", owner+"/"+repo, "branch", branch, "bytes", len(body))

	return f.visitArchive(body, visit)
}

// visitArchive walks the zip entries, strips the synthetic top directory,
// and visits supported UTF-8 files.
func (f *ArchiveFetcher) visitArchive(body []byte, visit FileVisitor) error {
	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	visited := 0
	for _, entry := range reader.File {
		if strings.HasSuffix(entry.Name, "/") {
			continue
		}
		path := CleanArchivePath(entry.Name)
		if path == "" || !IsSupported(path) {
			continue
		}

		data, err := readArchiveEntry(entry)
		if err != nil {
			f.log.Error("read archive entry failed", "path", path, "error", err)
			continue
		}
		if !utf8.Valid(data) {
			f.log.Debug("skipping binary file",
				"path", path, "type", mimetype.Detect(data).String())
			continue
		}

		visited++
		if visited%100 == 0 {
			f.log.Debug("archive walk progress", "visited", visited)
		}

		record := types.FileRecord{
			Path:     path,
			Content:  string(data),
			Language: DetectLanguage(path),
			Size:     int64(len(data)),
		}
		if err := visit(record); err != nil {
			return err
		}
	}

	f.log.Info("archive processed", "files", visited, "entries", len(reader.File))
	return nil
}

func readArchiveEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// contentLength asks for the archive size with a HEAD request. known is
// false when the size cannot be determined; callers decide how to proceed.
func (f *ArchiveFetcher) contentLength(ctx context.Context, archiveURL string) (size int64, known bool) {
	resp, err := f.http.R().SetContext(ctx).Head(archiveURL)
	if err != nil {
		f.log.Warn("archive size check failed", "url", archiveURL, "error", err)
		return 0, false
	}

	header := resp.Header().Get("Content-Length")
	if header == "" {
		return 0, false
	}
	size, err = strconv.ParseInt(header, 10, 64)
	if err != nil || size < 0 {
		return 0, false
	}
	return size, true
}

func (f *ArchiveFetcher) archiveURL(owner, repo, branch string) string {
	return fmt.Sprintf("%s/repos/%s/%s/zipball/%s",
		f.apiBase, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(branch))
}

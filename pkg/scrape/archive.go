package scrape

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/internal/utils/storage"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ArchiveModeNone = "none"
	ArchiveModeCSV  = "csv"
	ArchiveModeS3   = "s3"
)

var csvHeader = []string{
	"listing_source", "listing_url", "address", "city", "state", "zip",
	"price", "beds", "baths", "sqft", "description", "photo_urls",
}

type (
	// Archiver stores the raw candidates fetched for a run.
	Archiver interface {
		Archive(ctx context.Context, runID string, candidates []domain.Candidate) error
	}

	noopArchiver struct{}

	csvArchiver struct {
		dir string
	}

	s3Archiver struct {
		s3 storage.AwsS3
	}
)

func NewNoopArchiver() Archiver {
	return noopArchiver{}
}

func NewCSVArchiver(dir string) Archiver {
	return &csvArchiver{dir: dir}
}

func NewS3Archiver(s3 storage.AwsS3) Archiver {
	return &s3Archiver{s3: s3}
}

func (noopArchiver) Archive(context.Context, string, []domain.Candidate) error {
	return nil
}

func (a *csvArchiver) Archive(_ context.Context, runID string, candidates []domain.Candidate) error {
	data, err := EncodeCandidatesCSV(candidates)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("archive: create %s: %w", a.dir, err)
	}
	return os.WriteFile(filepath.Join(a.dir, runID+".csv"), data, 0o644)
}

func (a *s3Archiver) Archive(ctx context.Context, runID string, candidates []domain.Candidate) error {
	data, err := EncodeCandidatesCSV(candidates)
	if err != nil {
		return err
	}
	_, err = a.s3.UploadBytes(ctx, ArchiveObjectKey(runID), data, "text/csv")
	return err
}

func ArchiveObjectKey(runID string) string {
	return "runs/" + runID + ".csv"
}

func EncodeCandidatesCSV(candidates []domain.Candidate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range candidates {
		record := []string{
			c.ListingSource,
			c.ListingURL,
			c.Address,
			c.City,
			c.State,
			c.Zip,
			formatFloat(c.Price),
			formatInt(c.Beds),
			formatFloat(c.Baths),
			formatInt(c.Sqft),
			derefString(c.Description),
			strings.Join(c.PhotoURLs, " "),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

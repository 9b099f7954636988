package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

const (
	// TmpSuffix is appended to the store path while a save is in flight
	TmpSuffix       = ".tmp"
	filePermissions = 0o644
)

// Header is the column layout written by Save
var Header = []string{"ID", "Nombre", "Sector", "Desde", "Hasta", "Dias", "Color", "Nota"}

var (
	// ErrUnavailable wraps any failure to read or write the backing file
	ErrUnavailable = errors.New("store unavailable")
	// ErrEmptyWrite is returned when asked to overwrite the store with zero records
	ErrEmptyWrite = errors.New("refusing to write an empty booking collection")
)

// legacyNamespace scopes the IDs derived for rows written without an ID column
var legacyNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("vacation-calendar/legacy-row"))

// CSVStore persists bookings as a flat CSV table.
// The file is assumed to be owned by this process alone.
type CSVStore struct {
	path       string
	backupPath string
	logger     *zap.Logger
}

// NewCSVStore creates a store. An empty backupPath disables backups.
func NewCSVStore(path, backupPath string, logger *zap.Logger) *CSVStore {
	return &CSVStore{
		path:       path,
		backupPath: backupPath,
		logger:     logger,
	}
}

// Path returns the backing file path
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads every booking. A missing file is an empty collection.
// On read or parse failure it returns an empty collection and an error wrapping ErrUnavailable.
func (s *CSVStore) Load() ([]booking.Booking, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - will be created on first save
			return []booking.Booking{}, nil
		}
		return []booking.Booking{}, fmt.Errorf("%w: failed to read %s: %v", ErrUnavailable, s.path, err)
	}

	bookings, upgraded, err := s.decode(bytes.NewReader(data))
	if err != nil {
		return []booking.Booking{}, fmt.Errorf("%w: failed to parse %s: %v", ErrUnavailable, s.path, err)
	}

	s.logger.Info("Bookings loaded",
		zap.String("file", s.path),
		zap.Int("bookings", len(bookings)),
		zap.Int("generated_ids", upgraded))

	return bookings, nil
}

// Save overwrites the store with bookings, copying the previous file to the
// backup path first. Saving zero records is refused with ErrEmptyWrite so a
// transient load failure can never wipe the store.
func (s *CSVStore) Save(bookings []booking.Booking) error {
	if len(bookings) == 0 {
		s.logger.Warn("Refusing to save empty booking collection", zap.String("file", s.path))
		return ErrEmptyWrite
	}

	if err := s.write(bookings); err != nil {
		return err
	}

	s.logger.Info("Bookings saved",
		zap.String("file", s.path),
		zap.Int("bookings", len(bookings)))

	return nil
}

// Reset deliberately empties the store, keeping a backup of the previous contents
func (s *CSVStore) Reset() error {
	if err := s.write(nil); err != nil {
		return err
	}
	s.logger.Warn("Booking store reset", zap.String("file", s.path))
	return nil
}

func (s *CSVStore) write(bookings []booking.Booking) error {
	var buf bytes.Buffer
	if err := encode(&buf, bookings); err != nil {
		return fmt.Errorf("%w: failed to encode bookings: %v", ErrUnavailable, err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: failed to create %s: %v", ErrUnavailable, dir, err)
		}
	}

	if err := s.backup(); err != nil {
		s.logger.Warn("Failed to create backup", zap.String("backup", s.backupPath), zap.Error(err))
	}

	tmpFile := s.path + TmpSuffix
	if err := os.WriteFile(tmpFile, buf.Bytes(), filePermissions); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrUnavailable, tmpFile, err)
	}

	if err := os.Rename(tmpFile, s.path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %v", ErrUnavailable, s.path, err)
	}

	return nil
}

// backup copies the current store file to the backup path, if both exist
func (s *CSVStore) backup() error {
	if s.backupPath == "" {
		return nil
	}

	src, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer src.Close()

	if dir := filepath.Dir(s.backupPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	dst, err := os.OpenFile(s.backupPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func encode(w io.Writer, bookings []booking.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, b := range bookings {
		record := []string{
			b.ID,
			b.Employee,
			b.Sector,
			dateutil.Key(b.Start),
			dateutil.Key(b.End),
			strconv.Itoa(b.Days()),
			b.Color,
			b.Note,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// columns maps header names to positions. Accepts the legacy header
// Nombre,Sector,Desde,Hasta,Días,Color without ID and Nota.
type columns map[string]int

func parseHeader(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		key = strings.NewReplacer("í", "i", "á", "a").Replace(key)
		cols[key] = i
	}

	for _, required := range []string{"nombre", "sector", "desde", "hasta"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return cols, nil
}

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// decode parses the CSV body. Malformed rows are logged and skipped. Returns
// the number of rows that lacked an ID and received a generated one.
func (s *CSVStore) decode(r io.Reader) ([]booking.Booking, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []booking.Booking{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	cols, err := parseHeader(header)
	if err != nil {
		return nil, 0, err
	}

	bookings := []booking.Booking{}
	generated := 0
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		line++

		b, err := parseRecord(cols, record)
		if err != nil {
			s.logger.Warn("Skipping malformed booking row",
				zap.Int("line", line),
				zap.Strings("record", record),
				zap.Error(err))
			continue
		}
		if b.ID == "" {
			b.ID = legacyID(line, record)
			generated++
		}
		bookings = append(bookings, b)
	}

	return bookings, generated, nil
}

// legacyID derives a stable ID for a row stored without one, so the same
// unmodified file yields the same IDs on every load
func legacyID(line int, record []string) string {
	name := strconv.Itoa(line) + ":" + strings.Join(record, ",")
	return uuid.NewSHA1(legacyNamespace, []byte(name)).String()
}

func parseRecord(cols columns, record []string) (booking.Booking, error) {
	start, err := dateutil.ParseDate(cols.get(record, "desde"))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("start date: %w", err)
	}
	end, err := dateutil.ParseDate(cols.get(record, "hasta"))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("end date: %w", err)
	}
	if end.Before(start) {
		return booking.Booking{}, fmt.Errorf("end %s before start %s", dateutil.Key(end), dateutil.Key(start))
	}

	name := cols.get(record, "nombre")
	if name == "" {
		return booking.Booking{}, errors.New("empty name")
	}

	return booking.Booking{
		ID:       cols.get(record, "id"),
		Employee: name,
		Sector:   booking.NormalizeSector(cols.get(record, "sector")),
		Start:    start,
		End:      end,
		Color:    cols.get(record, "color"),
		Note:     cols.get(record, "nota"),
	}, nil
}

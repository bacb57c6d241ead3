// Package audit exports persisted tables to XLSX workbooks for offline review.
package audit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// TableExporter provides access to database tables for export.
type TableExporter interface {
	// GetTableNames returns list of table names to export.
	GetTableNames(ctx context.Context) ([]string, error)

	// GetTableData returns rows for a table as maps plus the column order.
	GetTableData(ctx context.Context, tableName string) ([]map[string]any, []string, error)
}

// ExcelWriter writes data to Excel format.
type ExcelWriter interface {
	AddSheet(name string) error
	WriteHeader(columns []string) error
	WriteRow(row []any) error
	Save(w io.Writer) error
	Close() error
}

// GenerateFilename creates a filename like "wateryy_export_2025-05-15.xlsx".
func GenerateFilename(t time.Time) string {
	return fmt.Sprintf("wateryy_export_%s.xlsx", t.Format("2006-01-02"))
}

// Service builds workbooks with one sheet per table.
type Service struct {
	exporter TableExporter
	writer   func() ExcelWriter
	logger   *zerolog.Logger
}

func NewService(exporter TableExporter, writerFactory func() ExcelWriter, logger *zerolog.Logger) *Service {
	if writerFactory == nil {
		writerFactory = NewExcelizeWriter
	}
	return &Service{exporter: exporter, writer: writerFactory, logger: logger}
}

// Export writes the given tables, or every exportable table when none are named.
func (s *Service) Export(ctx context.Context, w io.Writer, tables ...string) error {
	if len(tables) == 0 {
		names, err := s.exporter.GetTableNames(ctx)
		if err != nil {
			return fmt.Errorf("get table names: %w", err)
		}
		tables = names
	}

	xw := s.writer()
	defer xw.Close()

	for _, table := range tables {
		rows, columns, err := s.exporter.GetTableData(ctx, table)
		if err != nil {
			return fmt.Errorf("export table %s: %w", table, err)
		}
		if err := xw.AddSheet(table); err != nil {
			return err
		}
		if err := xw.WriteHeader(columns); err != nil {
			return err
		}
		for _, row := range rows {
			values := make([]any, len(columns))
			for i, col := range columns {
				values[i] = row[col]
			}
			if err := xw.WriteRow(values); err != nil {
				return err
			}
		}
		s.logger.Info().Str("table", table).Int("rows", len(rows)).Msg("Exported table")
	}

	return xw.Save(w)
}

// ExportToFile writes the workbook to path.
func (s *Service) ExportToFile(ctx context.Context, path string, tables ...string) error {
	var buf bytes.Buffer
	if err := s.Export(ctx, &buf, tables...); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Loader reads workbooks into Tables. It is the boundary between the
// spreadsheet file format and the core pipeline; nothing past the Loader
// touches excelize.
type Loader struct {
	headerOffset int
	logger       *zap.Logger
}

// NewLoader creates a workbook loader. headerOffset is the 0-based row
// used as the header row.
func NewLoader(headerOffset int, logger *zap.Logger) *Loader {
	return &Loader{
		headerOffset: headerOffset,
		logger:       logger,
	}
}

// LoadFile reads one sheet of a workbook file into a Table. An empty
// sheet name selects the first sheet.
func (l *Loader) LoadFile(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return l.load(f, sheet)
}

// Load reads one sheet of a workbook stream into a Table.
func (l *Loader) Load(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return l.load(f, sheet)
}

func (l *Loader) load(f *excelize.File, sheet string) (*Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// Raw cell values: percent cells must arrive as written, not as
	// excel's formatted rendering.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	raw := make([][]any, len(rows))
	for i, cells := range rows {
		raw[i] = make([]any, len(cells))
		for j, cell := range cells {
			if cell == "" {
				continue
			}
			raw[i][j] = cell
		}
	}

	table := NewTable(raw, l.headerOffset)
	l.logger.Info("Workbook loaded",
		zap.String("sheet", sheet),
		zap.Int("data_rows", len(table.Rows())),
		zap.Int("columns", table.ColumnCount()))

	return table, nil
}

package sheetdb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Row is one schema-on-read record: header name to cell string. Missing cells
// read as "".
type Row map[string]string

// EnsureResult reports what EnsureTab actually did.
type EnsureResult int

const (
	TabExists EnsureResult = iota
	TabCreated
)

// Table reads and writes spreadsheet tabs as keyed record lists. Writes to the
// same spreadsheet are serialized through a per-handle mutex; the backing store
// has no transactions, so concurrent writers in other processes can still race.
type Table struct {
	api    ValuesAPI
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTable(api ValuesAPI, logger *zap.Logger) *Table {
	return &Table{
		api:    api,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// API exposes the underlying store client for callers that need non-tabular
// operations (spreadsheet creation, template duplication).
func (t *Table) API() ValuesAPI {
	return t.api
}

func (t *Table) handleLock(spreadsheetID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[spreadsheetID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[spreadsheetID] = l
	}
	return l
}

// ReadTable projects a tab into rows. The first physical row is the header
// list; headers are trimmed and duplicates resolve last-wins. A header-only or
// empty tab yields no rows and no error.
func (t *Table) ReadTable(ctx context.Context, spreadsheetID, rangeA1 string) ([]Row, error) {
	values, err := t.api.GetValues(ctx, spreadsheetID, rangeA1)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rangeA1, err)
	}
	if len(values) < 2 {
		return nil, nil
	}
	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([]Row, 0, len(values)-1)
	for _, cells := range values[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow appends one record serialized in header order; fields absent from
// record become "". If the tab does not exist yet it is created with the given
// header row and the append is retried exactly once.
func (t *Table) AppendRow(ctx context.Context, spreadsheetID, tabLocator string, headers []string, record map[string]string) error {
	lock := t.handleLock(spreadsheetID)
	lock.Lock()
	defer lock.Unlock()
	return t.appendRowLocked(ctx, spreadsheetID, tabLocator, headers, record)
}

func (t *Table) appendRowLocked(ctx context.Context, spreadsheetID, tabLocator string, headers []string, record map[string]string) error {
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = record[h]
	}
	err := t.api.AppendValues(ctx, spreadsheetID, tabLocator, [][]string{cells})
	if err == nil {
		return nil
	}
	if !isMissingRange(err) {
		return fmt.Errorf("append %s: %w", tabLocator, err)
	}

	tab := tabLocator
	if i := strings.Index(tab, "!"); i >= 0 {
		tab = tab[:i]
	}
	t.logger.Warn("append hit missing tab, creating it",
		zap.String("spreadsheet", spreadsheetID),
		zap.String("tab", tab),
	)
	if _, err := t.ensureTabLocked(ctx, spreadsheetID, tab, headers); err != nil {
		return fmt.Errorf("append %s: create tab: %w", tabLocator, err)
	}
	if err := t.api.AppendValues(ctx, spreadsheetID, tabLocator, [][]string{cells}); err != nil {
		return fmt.Errorf("append %s after tab creation: %w", tabLocator, err)
	}
	return nil
}

// EnsureTab idempotently creates a tab with a seeded header row. Calling it
// again for an existing tab is a no-op and never duplicates headers.
func (t *Table) EnsureTab(ctx context.Context, spreadsheetID, tab string, headers []string) (EnsureResult, error) {
	lock := t.handleLock(spreadsheetID)
	lock.Lock()
	defer lock.Unlock()
	return t.ensureTabLocked(ctx, spreadsheetID, tab, headers)
}

func (t *Table) ensureTabLocked(ctx context.Context, spreadsheetID, tab string, headers []string) (EnsureResult, error) {
	tabs, err := t.api.ListTabs(ctx, spreadsheetID)
	if err != nil {
		return TabExists, fmt.Errorf("list tabs: %w", err)
	}
	for _, existing := range tabs {
		if existing == tab {
			return TabExists, nil
		}
	}
	if err := t.api.AddTab(ctx, spreadsheetID, tab); err != nil {
		return TabExists, fmt.Errorf("add tab %s: %w", tab, err)
	}
	headerRange := fmt.Sprintf("%s!A1:%s1", tab, columnName(len(headers)-1))
	if err := t.api.UpdateValues(ctx, spreadsheetID, headerRange, [][]string{headers}); err != nil {
		return TabExists, fmt.Errorf("seed headers for %s: %w", tab, err)
	}
	return TabCreated, nil
}

// UpsertByKey scans the tab top to bottom for the first row whose key column
// equals keyValue. A match rewrites the full row in one range update, changing
// only the columns named in updates; no match appends a new row with keyValue
// in the key column and every other column defaulted. The scan-then-write is
// not atomic across processes; in-process writers are serialized per handle.
func (t *Table) UpsertByKey(ctx context.Context, spreadsheetID, tab, keyColumn, keyValue string, updates map[string]string) error {
	lock := t.handleLock(spreadsheetID)
	lock.Lock()
	defer lock.Unlock()

	scanRange := tab + "!A:Z"
	values, err := t.api.GetValues(ctx, spreadsheetID, scanRange)
	if err != nil {
		return fmt.Errorf("upsert scan %s: %w", tab, err)
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingTab, tab)
	}
	headers := values[0]
	keyIdx := -1
	for i, h := range headers {
		if h == keyColumn {
			keyIdx = i
			break
		}
	}
	if keyIdx == -1 {
		return fmt.Errorf("%w: %s in %s", ErrMissingKeyColumn, keyColumn, tab)
	}

	rowIndex := -1
	for i := 1; i < len(values); i++ {
		cell := ""
		if keyIdx < len(values[i]) {
			cell = values[i][keyIdx]
		}
		if cell == keyValue {
			rowIndex = i
			break
		}
	}

	if rowIndex == -1 {
		record := make(map[string]string, len(updates)+1)
		record[keyColumn] = keyValue
		for k, v := range updates {
			record[k] = v
		}
		return t.appendRowLocked(ctx, spreadsheetID, tab+"!A1", headers, record)
	}

	current := values[rowIndex]
	newRow := make([]string, len(headers))
	for i, h := range headers {
		if v, ok := updates[h]; ok {
			newRow[i] = v
		} else if i < len(current) {
			newRow[i] = current[i]
		}
	}
	rangeA1 := fmt.Sprintf("%s!A%d:%s%d", tab, rowIndex+1, columnName(len(headers)-1), rowIndex+1)
	if err := t.api.UpdateValues(ctx, spreadsheetID, rangeA1, [][]string{newRow}); err != nil {
		return fmt.Errorf("upsert write %s: %w", rangeA1, err)
	}
	return nil
}

// columnName converts a zero-based column index to its A1 letter form.
func columnName(idx int) string {
	name := ""
	for idx >= 0 {
		name = string(rune('A'+idx%26)) + name
		idx = idx/26 - 1
	}
	return name
}

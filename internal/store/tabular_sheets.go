package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsTabularStore implements TabularStore on a Google spreadsheet,
// one worksheet per table. This is the remote store the site was built
// around; the service account must have edit access to the spreadsheet.
type SheetsTabularStore struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // worksheet title -> numeric sheet ID
}

// NewSheetsTabularStore connects with a service-account credential and
// creates any of the known worksheets that are missing.
func NewSheetsTabularStore(ctx context.Context, spreadsheetID, serviceAccountJSON string) (*SheetsTabularStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(serviceAccountJSON)),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	s := &SheetsTabularStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}

	if err := s.ensureWorksheets(ctx,
		TableInventory, TableDailyDraw, TableSacrifice, TableExchange); err != nil {
		return nil, err
	}

	log.Printf("[SheetsTabularStore] Initialized with spreadsheet: %s", spreadsheetID)
	return s, nil
}

// ensureWorksheets loads worksheet IDs and adds any missing worksheets.
func (s *SheetsTabularStore) ensureWorksheets(ctx context.Context, titles ...string) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}

	for _, title := range titles {
		if _, ok := s.sheetIDs[title]; ok {
			continue
		}
		resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to add worksheet %s: %w", title, err)
		}
		for _, r := range resp.Replies {
			if r.AddSheet != nil && r.AddSheet.Properties != nil {
				s.sheetIDs[title] = r.AddSheet.Properties.SheetId
			}
		}
	}
	return nil
}

// sheetID resolves a worksheet title to its numeric sheet ID.
func (s *SheetsTabularStore) sheetID(table string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sheetIDs[table]
	if !ok {
		return 0, fmt.Errorf("unknown worksheet %q", table)
	}
	return id, nil
}

// ListRows returns every row of the worksheet in order.
func (s *SheetsTabularStore) ListRows(ctx context.Context, table string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list rows of %s: %w", table, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		cells := make([]string, len(raw))
		for i, v := range raw {
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// AppendRow adds a row after the current last row.
func (s *SheetsTabularStore) AppendRow(ctx context.Context, table string, cells []string) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, table, toValueRange(cells)).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", table, err)
	}
	return nil
}

// UpdateRow replaces the row at the given position.
func (s *SheetsTabularStore) UpdateRow(ctx context.Context, table string, index int, cells []string) error {
	rng := fmt.Sprintf("%s!A%d", table, index+1)
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, toValueRange(cells)).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d of %s: %w", index, table, err)
	}
	return nil
}

// DeleteRow removes the row at the given position.
func (s *SheetsTabularStore) DeleteRow(ctx context.Context, table string, index int) error {
	id, err := s.sheetID(table)
	if err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(index),
					EndIndex:   int64(index + 1),
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete row %d of %s: %w", index, table, err)
	}
	return nil
}

// Close is a no-op; the sheets client holds no persistent connection.
func (s *SheetsTabularStore) Close() error { return nil }

func toValueRange(cells []string) *sheets.ValueRange {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return &sheets.ValueRange{Values: [][]interface{}{row}}
}

var _ TabularStore = (*SheetsTabularStore)(nil)

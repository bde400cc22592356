package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanRecordRow scans a single records row
func ScanRecordRow(scanner Scanner) (*RecordRow, error) {
	row := &RecordRow{}
	if err := scanner.Scan(&row.ID, &row.Fields, &row.CreatedAt); err != nil {
		return nil, err
	}
	return row, nil
}

// ScanRecordRows scans every remaining records row
func ScanRecordRows(rows Rows) ([]*RecordRow, error) {
	var out []*RecordRow
	for rows.Next() {
		row, err := ScanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

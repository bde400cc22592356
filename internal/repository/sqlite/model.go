package sqlite

import (
	"encoding/json"
	"fmt"

	"mission-control/internal/repository"
)

// RecordRow is a records row as stored. Fields holds a JSON object.
type RecordRow struct {
	ID        string
	Fields    string
	CreatedAt string
}

func (r *RecordRow) toRecord() (repository.Record, error) {
	fields := repository.Fields{}
	if r.Fields != "" {
		if err := json.Unmarshal([]byte(r.Fields), &fields); err != nil {
			return repository.Record{}, fmt.Errorf("decode fields of %s: %w", r.ID, err)
		}
	}
	created, err := ParseTimeFromDB(r.CreatedAt)
	if err != nil {
		return repository.Record{}, fmt.Errorf("decode created_at of %s: %w", r.ID, err)
	}
	return repository.Record{ID: r.ID, Fields: fields, CreatedTime: created}, nil
}

func encodeFields(fields repository.Fields) (string, error) {
	if fields == nil {
		fields = repository.Fields{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

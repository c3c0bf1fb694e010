package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Field is one key/value cell of a flat report row.
type Field struct {
	Key   string
	Value any
}

// Row is a flat, ordered mapping of column names to scalar values. Column order
// is insertion order, so the first row of a report defines its header.
type Row struct {
	fields []Field
}

// NewRow builds a row from fields in order.
func NewRow(fields ...Field) Row {
	var r Row
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set assigns value to key, appending the column when it is new.
func (r *Row) Set(key string, value any) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the column names in order.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Fields returns a copy of the ordered cells.
func (r Row) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.fields)
}

// MarshalJSON renders the row as a JSON object preserving column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal column %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the document's key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object")
	}
	*r = Row{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if n, ok := value.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				value = f
			}
		}
		r.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// MarshalBSON stores the row as an ordered sub-document.
func (r Row) MarshalBSON() ([]byte, error) {
	doc := make(bson.D, 0, len(r.fields))
	for _, f := range r.fields {
		doc = append(doc, bson.E{Key: f.Key, Value: f.Value})
	}
	return bson.Marshal(doc)
}

// UnmarshalBSON reads an ordered sub-document.
func (r *Row) UnmarshalBSON(data []byte) error {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	*r = Row{}
	for _, e := range doc {
		r.Set(e.Key, e.Value)
	}
	return nil
}

// ReportSnapshot is a persisted copy of a generated overview row.
type ReportSnapshot struct {
	ID          string    `json:"id" bson:"_id"`
	Kind        string    `json:"kind" bson:"kind"`
	DateRange   string    `json:"date_range" bson:"date_range"`
	Row         Row       `json:"row" bson:"row"`
	GeneratedBy string    `json:"generated_by" bson:"generated_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// RecordID implements repository.Record.
func (s ReportSnapshot) RecordID() string { return s.ID }

package model

import "encoding/json"

// ResultSet is the append-only collection of PageRecords produced by a crawl.
// Records keep the order in which they were appended.
//
// A ResultSet is not safe for concurrent use. The crawler appends to it
// only from its control goroutine, after each level has been joined.
type ResultSet struct {
	records []PageRecord
}

// NewResultSet creates an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{records: make([]PageRecord, 0)}
}

// Append adds records to the end of the set.
func (rs *ResultSet) Append(records ...PageRecord) {
	rs.records = append(rs.records, records...)
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	return len(rs.records)
}

// Records returns a copy of the records in append order.
func (rs *ResultSet) Records() []PageRecord {
	out := make([]PageRecord, len(rs.records))
	copy(out, rs.records)
	return out
}

// MarshalJSON encodes the set as a JSON array. An empty set encodes as [].
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	if rs == nil || rs.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(rs.records)
}

// UnmarshalJSON decodes a JSON array of records, replacing the contents.
func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	var records []PageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	if records == nil {
		records = make([]PageRecord, 0)
	}
	rs.records = records
	return nil
}

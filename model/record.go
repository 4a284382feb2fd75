package model

import "github.com/hasbyte1/go-modelbase/store"

// Attribute-map helpers shared by the save pipeline and the CRUD surface.

func cloneRecord(rec store.Record) store.Record {
	out := make(store.Record, len(rec))
	for name, value := range rec {
		out[name] = value
	}
	return out
}

// mergeRecords layers override on top of base into a fresh record.
func mergeRecords(base, override store.Record) store.Record {
	out := make(store.Record, len(base)+len(override))
	for name, value := range base {
		out[name] = value
	}
	for name, value := range override {
		out[name] = value
	}
	return out
}

// absentFields returns the schema field names not present in payload, i.e.
// the set a partial validation relaxes to optional.
func absentFields(names []string, payload store.Record) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := payload[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

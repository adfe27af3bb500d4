package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// entry is the current on-disk form of a playlist.
type entry struct {
	Songs      []string `json:"songs"`
	IsShuffled bool     `json:"is_shuffled"`
}

// Encode renders records as a JSON object, keeping record order.
func Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if len(records) == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("{\n")
	for i, r := range records {
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		songs := r.Paths
		if songs == nil {
			songs = []string{}
		}
		value, err := json.MarshalIndent(entry{Songs: songs, IsShuffled: r.Shuffled}, "  ", "  ")
		if err != nil {
			return nil, err
		}

		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i < len(records)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Decode parses a playlist file, keeping the order playlists appear in.
// Both the object form and the legacy bare path list are accepted.
func Decode(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("file is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var records []Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected playlist name, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("playlist %q: %w", name, err)
		}
		record, err := decodeEntry(name, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after playlists")
	}
	return records, nil
}

func decodeEntry(name string, raw json.RawMessage) (Record, error) {
	record := Record{Name: name}
	trimmed := bytes.TrimSpace(raw)

	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return record, nil

	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &record.Paths); err != nil {
			return Record{}, fmt.Errorf("playlist %q: %w", name, err)
		}
		return record, nil

	case len(trimmed) > 0 && trimmed[0] == '{':
		var e entry
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return Record{}, fmt.Errorf("playlist %q: %w", name, err)
		}
		record.Paths = e.Songs
		record.Shuffled = e.IsShuffled
		return record, nil
	}

	return Record{}, fmt.Errorf("playlist %q: unexpected value %s", name, trimmed)
}

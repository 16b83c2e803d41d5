package book

import (
	"encoding/json"
	"fmt"
	"io"
)

// ParseInput reads a preprocessor request from r. Input that is not a valid
// request yields a *ProtocolError.
func ParseInput(r io.Reader) (*Context, *Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading preprocessor input: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, nil, err
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, nil, &ProtocolError{Err: err}
	}
	var (
		ctx Context
		bk  Book
	)
	if err := json.Unmarshal(parts[0], &ctx); err != nil {
		return nil, nil, &ProtocolError{Err: fmt.Errorf("decoding context: %w", err)}
	}
	if err := json.Unmarshal(parts[1], &bk); err != nil {
		return nil, nil, &ProtocolError{Err: fmt.Errorf("decoding book: %w", err)}
	}
	return &ctx, &bk, nil
}

// WriteOutput writes the book as the preprocessor response.
func WriteOutput(w io.Writer, b *Book) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("writing preprocessor output: %w", err)
	}
	return nil
}

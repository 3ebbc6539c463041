package service

import (
	"encoding/json"
	"fmt"
)

// JSONCodec serializes the plain Go request and response structs of this
// package. It replaces Connect's default "json" codec, which only accepts
// generated protobuf messages.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("json codec: marshal %T: %w", msg, err)
	}
	return b, nil
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("json codec: unmarshal %T: %w", msg, err)
	}
	return nil
}

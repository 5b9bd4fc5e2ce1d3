package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"coinvault/internal/models"
)

// Codec serializes a ledger for the key/value store.
type Codec interface {
	Name() string
	Encode(models.Ledger) ([]byte, error)
	Decode([]byte) (models.Ledger, error)
}

// CodecByName returns the codec registered as name ("json" or "msgpack").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown ledger codec %q", name)
	}
}

// JSONCodec stores an array of {id,type,amount,counterparty,timestamp}
// records with millisecond timestamps.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(l models.Ledger) ([]byte, error) {
	if l == nil {
		l = models.Ledger{}
	}
	return json.Marshal(l)
}

func (JSONCodec) Decode(data []byte) (models.Ledger, error) {
	var l models.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode json ledger: %w", err)
	}
	return l, nil
}

type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) Encode(l models.Ledger) ([]byte, error) {
	if l == nil {
		l = models.Ledger{}
	}
	return msgpack.Marshal(l)
}

func (MsgpackCodec) Decode(data []byte) (models.Ledger, error) {
	var l models.Ledger
	if err := msgpack.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode msgpack ledger: %w", err)
	}
	for i := range l {
		l[i].Timestamp = l[i].Timestamp.UTC()
	}
	return l, nil
}

package codec

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownSignature = errors.New("no decoder registered for signature")

// PayloadDecoder turns a record payload into a typed value
type PayloadDecoder func(payload []byte) (any, error)

// RecordType describes one registered record payload layout
type RecordType struct {
	Name    string
	Decoder PayloadDecoder
}

// Registry maps signatures to payload decoders
type Registry struct {
	types map[uint16]RecordType
	mutex sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{types: make(map[uint16]RecordType)}
}

// Register adds or replaces the record type for a signature
func (r *Registry) Register(signature uint16, name string, decoder PayloadDecoder) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.types[signature] = RecordType{Name: name, Decoder: decoder}
}

// Lookup returns the record type registered for a signature
func (r *Registry) Lookup(signature uint16) (RecordType, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	t, ok := r.types[signature]
	return t, ok
}

// Name returns the registered name for a signature, or its hex form
func (r *Registry) Name(signature uint16) string {
	if t, ok := r.Lookup(signature); ok && t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("0x%04X", signature)
}

// Decode resolves the decoder for the record's signature and applies it
func (r *Registry) Decode(rec Record) (any, error) {
	t, ok := r.Lookup(rec.Signature)
	if !ok || t.Decoder == nil {
		return nil, fmt.Errorf("%w: 0x%04X at offset %d", ErrUnknownSignature, rec.Signature, rec.Offset)
	}

	v, err := t.Decoder(rec.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s at offset %d: %w", t.Name, rec.Offset, err)
	}
	return v, nil
}

package vm

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/google/uuid"
)

func init() {
	gob.Register(&ObjString{})
	gob.Register(&ObjFunction{})
}

// Bundle is the on-disk compile-cache artifact the CLI writes next to a
// source file's cache entry: the compiled top-level function plus enough
// metadata to tell whether the cache entry is still valid for the source
// that produced it.
type Bundle struct {
	ID            uuid.UUID
	SourcePath    string
	SourceModTime int64
	Function      *ObjFunction
}

// NewBundle stamps a fresh Bundle for fn, identifying it with a new random
// UUID so cache directory listings and log lines have a stable handle
// distinct from the source path.
func NewBundle(fn *ObjFunction, sourcePath string, sourceModTime int64) *Bundle {
	return &Bundle{
		ID:            uuid.New(),
		SourcePath:    sourcePath,
		SourceModTime: sourceModTime,
		Function:      fn,
	}
}

// Encode gob-encodes b to w.
func (b *Bundle) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(b)
}

// DecodeBundle reads a Bundle previously written by Encode.
func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GobEncode lets a Value round-trip through gob despite num being
// unexported: without this, gob silently drops it and every cached number
// or bool constant would decode as zero.
func (v Value) GobEncode() ([]byte, error) {
	aux := struct {
		Type ValueType
		Num  float64
		Obj  Obj
	}{v.Type, v.num, v.Obj}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(aux); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) GobDecode(data []byte) error {
	var aux struct {
		Type ValueType
		Num  float64
		Obj  Obj
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&aux); err != nil {
		return err
	}
	v.Type = aux.Type
	v.num = aux.Num
	v.Obj = aux.Obj
	return nil
}

// Copyright 2024 tutormatch Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package encoding

import (
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/juju/errors"
)

// WriteValue writes a fixed-size value to byte stream.
func WriteValue(w io.Writer, v any) error {
	return errors.Trace(binary.Write(w, binary.LittleEndian, v))
}

// ReadValue reads a fixed-size value from byte stream.
func ReadValue(r io.Reader, v any) error {
	return errors.Trace(binary.Read(r, binary.LittleEndian, v))
}

// WriteVector writes a vector to byte stream.
func WriteVector(w io.Writer, v []float32) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(v))); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(binary.Write(w, binary.LittleEndian, v))
}

// ReadVector reads a vector from byte stream.
func ReadVector(r io.Reader) ([]float32, error) {
	var length int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, errors.Trace(err)
	}
	v := make([]float32, length)
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return nil, errors.Trace(err)
	}
	return v, nil
}

// WriteMatrix writes a matrix to byte stream.
func WriteMatrix(w io.Writer, m [][]float32) error {
	var rows, cols int32
	rows = int32(len(m))
	if rows > 0 {
		cols = int32(len(m[0]))
	}
	if err := binary.Write(w, binary.LittleEndian, rows); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, cols); err != nil {
		return errors.Trace(err)
	}
	for i := range m {
		if int32(len(m[i])) != cols {
			return errors.Errorf("row %d: expected %d columns, got %d", i, cols, len(m[i]))
		}
		if err := binary.Write(w, binary.LittleEndian, m[i]); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// ReadMatrix reads a matrix from byte stream.
func ReadMatrix(r io.Reader) ([][]float32, error) {
	var rows, cols int32
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return nil, errors.Trace(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &cols); err != nil {
		return nil, errors.Trace(err)
	}
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, cols)
		if err := binary.Read(r, binary.LittleEndian, m[i]); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return m, nil
}

// WriteString writes a string to byte stream.
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a string from byte stream.
func ReadString(r io.Reader) (string, error) {
	data, err := ReadBytes(r)
	return string(data), err
}

// WriteBytes writes bytes to byte stream.
func WriteBytes(w io.Writer, s []byte) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s))); err != nil {
		return errors.Trace(err)
	}
	n, err := w.Write(s)
	if err != nil {
		return errors.Trace(err)
	} else if n != len(s) {
		return errors.New("fail to write bytes")
	}
	return nil
}

// WriteGob writes a gob encoded value to byte stream.
func WriteGob(w io.Writer, v any) error {
	return errors.Trace(gob.NewEncoder(w).Encode(v))
}

// ReadGob reads a gob encoded value from byte stream.
func ReadGob(r io.Reader, v any) error {
	return errors.Trace(gob.NewDecoder(r).Decode(v))
}

// ReadBytes reads bytes from byte stream.
func ReadBytes(r io.Reader) ([]byte, error) {
	var length int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, errors.Trace(err)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Trace(err)
	}
	return data, nil
}

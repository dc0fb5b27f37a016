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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteValue(buf, float32(1.5)))
	var v float32
	assert.NoError(t, ReadValue(buf, &v))
	assert.Equal(t, float32(1.5), v)
}

func TestVector(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteVector(buf, []float32{1, 2, 3}))
	v, err := ReadVector(buf)
	assert.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, v)
}

func TestMatrix(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteMatrix(buf, [][]float32{{1, 2}, {3, 4}}))
	m, err := ReadMatrix(buf)
	assert.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, m)
}

func TestMatrixRagged(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.Error(t, WriteMatrix(buf, [][]float32{{1, 2}, {3}}))
}

func TestString(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteString(buf, "hello"))
	s, err := ReadString(buf)
	assert.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestGob(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteGob(buf, []string{"a", "b"}))
	var v []string
	assert.NoError(t, ReadGob(buf, &v))
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestTruncatedStream(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteVector(buf, []float32{1, 2, 3}))
	truncated := bytes.NewBuffer(buf.Bytes()[:6])
	_, err := ReadVector(truncated)
	assert.Error(t, err)
}

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

package dataset

import (
	"io"

	"github.com/tutormatch/tutormatch/base/encoding"
)

// NotId is the index returned for an unknown id.
const NotId = -1

// Dict is a bidirectional mapping between string ids and dense indices.
// It is built once at fit time and read-only afterwards.
type Dict struct {
	si map[string]int
	is []string
}

func NewDict() *Dict {
	return &Dict{si: map[string]int{}, is: []string{}}
}

func (d *Dict) Count() int {
	return len(d.is)
}

// Add inserts an id and returns its index. Existing ids keep their index.
func (d *Dict) Add(s string) (y int) {
	if y, ok := d.si[s]; ok {
		return y
	}
	y = len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	return
}

// ToIndex returns the dense index of an id, or NotId if unknown.
func (d *Dict) ToIndex(s string) int {
	if y, ok := d.si[s]; ok {
		return y
	}
	return NotId
}

// ToId returns the id at a dense index.
func (d *Dict) ToId(index int) (s string, ok bool) {
	if index < 0 || index >= len(d.is) {
		return "", false
	}
	return d.is[index], true
}

// Marshal dict into byte stream.
func (d *Dict) Marshal(w io.Writer) error {
	if err := encoding.WriteValue(w, int32(len(d.is))); err != nil {
		return err
	}
	for _, s := range d.is {
		if err := encoding.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal dict from byte stream.
func (d *Dict) Unmarshal(r io.Reader) error {
	var count int32
	if err := encoding.ReadValue(r, &count); err != nil {
		return err
	}
	d.si = make(map[string]int, count)
	d.is = make([]string, 0, count)
	for i := int32(0); i < count; i++ {
		s, err := encoding.ReadString(r)
		if err != nil {
			return err
		}
		d.Add(s)
	}
	return nil
}

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

package floats

import (
	"github.com/chewxy/math32"
)

// Dot computes the dot product between two vectors.
func Dot(a, b []float32) (ret float32) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// Add adds a vector to dst: dst += s
func Add(dst, s []float32) {
	if len(dst) != len(s) {
		panic("floats: slice lengths do not match")
	}
	for i := range dst {
		dst[i] += s[i]
	}
}

// MulConstAdd multiplies a vector by a constant and adds it to dst: dst += a * c
func MulConstAdd(a []float32, c float32, dst []float32) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] += a[i] * c
	}
}

// Zero fills zeros in a slice of 32-bit floats.
func Zero(a []float32) {
	for i := range a {
		a[i] = 0
	}
}

// MatZero fills zeros in a matrix of 32-bit floats.
func MatZero(x [][]float32) {
	for i := range x {
		for j := range x[i] {
			x[i][j] = 0
		}
	}
}

// Norm computes the Euclidean norm of a vector.
func Norm(a []float32) float32 {
	return math32.Sqrt(Dot(a, a))
}

// Min returns the smallest element of a non-empty vector.
func Min(a []float32) float32 {
	ret := a[0]
	for _, v := range a[1:] {
		if v < ret {
			ret = v
		}
	}
	return ret
}

// Max returns the largest element of a non-empty vector.
func Max(a []float32) float32 {
	ret := a[0]
	for _, v := range a[1:] {
		if v > ret {
			ret = v
		}
	}
	return ret
}

// Sigmoid computes the logistic function. The input is clamped to
// [-500, 500] before exponentiation so the result stays finite.
func Sigmoid(x float32) float32 {
	if x < -500 {
		x = -500
	} else if x > 500 {
		x = 500
	}
	return 1 / (1 + math32.Exp(-x))
}

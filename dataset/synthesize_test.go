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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutormatch/tutormatch/base"
)

func TestSynthesizeInteractions(t *testing.T) {
	rng := base.NewRandomGenerator(0)
	generator := NewGenerator(rng)
	students := generator.Students(30)
	tutors := generator.Tutors(20)
	interactions := SynthesizeInteractions(students, tutors, rng)

	tutorIds := make(map[string]struct{})
	for _, tutor := range tutors {
		tutorIds[tutor.TutorId] = struct{}{}
	}
	perStudent := make(map[string]map[string]struct{})
	for _, interaction := range interactions {
		assert.Contains(t, []FeedbackType{FeedbackView, FeedbackContact, FeedbackBook}, interaction.Type)
		_, ok := tutorIds[interaction.TutorId]
		assert.True(t, ok)
		if perStudent[interaction.StudentId] == nil {
			perStudent[interaction.StudentId] = make(map[string]struct{})
		}
		// a student never interacts with the same tutor twice
		_, seen := perStudent[interaction.StudentId][interaction.TutorId]
		assert.False(t, seen)
		perStudent[interaction.StudentId][interaction.TutorId] = struct{}{}
	}
	// every student has between one and eight interactions
	assert.Equal(t, len(students), len(perStudent))
	for _, seen := range perStudent {
		assert.GreaterOrEqual(t, len(seen), 1)
		assert.LessOrEqual(t, len(seen), 8)
	}
}

func TestSynthesizeDeterminism(t *testing.T) {
	build := func() []Interaction {
		rng := base.NewRandomGenerator(7)
		generator := NewGenerator(rng)
		students := generator.Students(10)
		tutors := generator.Tutors(10)
		return SynthesizeInteractions(students, tutors, rng)
	}
	assert.Equal(t, build(), build())
}

func TestArgsortDescending(t *testing.T) {
	order := argsortDescending([]float32{1, 3, 2})
	assert.Equal(t, []int{1, 2, 0}, order)
	// ties keep ascending index order
	order = argsortDescending([]float32{2, 2, 2})
	assert.Equal(t, []int{0, 1, 2}, order)
}

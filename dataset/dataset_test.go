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
	"fmt"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/tutormatch/tutormatch/base"
)

func TestGenerateStudents(t *testing.T) {
	generator := NewGenerator(base.NewRandomGenerator(0))
	students := generator.Students(50)
	assert.Equal(t, 50, len(students))
	for i, student := range students {
		assert.Equal(t, fmt.Sprintf("s%d", i), student.StudentId)
		assert.NotEmpty(t, student.Name)
		assert.Contains(t, Subjects, student.Subject)
		assert.Contains(t, Levels, student.Level)
		assert.Contains(t, Cities, student.City)
		assert.Contains(t, LearningStyles, student.LearningStyle)
		assert.GreaterOrEqual(t, student.Availability.Count(), uint(1))
		assert.LessOrEqual(t, student.Availability.Count(), uint(NumTimeSlots))
		assert.Contains(t, []float32{20, 30, 40, 50, 60}, student.MaxBudget)
		words := strings.Fields(student.ProfileText)
		assert.GreaterOrEqual(t, len(words), 2)
		assert.LessOrEqual(t, len(words), 4)
		for _, w := range words {
			assert.Contains(t, profileVocab, w)
		}
	}
	// ids are sequential and unique
	ids := lo.Map(students, func(s Student, _ int) string { return s.StudentId })
	assert.Equal(t, len(ids), len(lo.Uniq(ids)))
	assert.Equal(t, "s0", ids[0])
	assert.Equal(t, "s49", ids[49])
}

func TestGenerateTutors(t *testing.T) {
	generator := NewGenerator(base.NewRandomGenerator(0))
	tutors := generator.Tutors(30)
	assert.Equal(t, 30, len(tutors))
	for _, tutor := range tutors {
		assert.Contains(t, Subjects, tutor.Subject)
		assert.Contains(t, TeachingStyles, tutor.TeachingStyle)
		assert.GreaterOrEqual(t, tutor.Availability.Count(), uint(1))
		assert.Contains(t, []float32{25, 35, 45, 55, 65}, tutor.HourlyRate)
		words := strings.Fields(tutor.ProfileText)
		assert.GreaterOrEqual(t, len(words), 3)
		assert.LessOrEqual(t, len(words), 5)
	}
	assert.Equal(t, "t0", tutors[0].TutorId)
}

func TestGeneratorDeterminism(t *testing.T) {
	a := NewGenerator(base.NewRandomGenerator(42)).Students(20)
	b := NewGenerator(base.NewRandomGenerator(42)).Students(20)
	for i := range a {
		assert.Equal(t, a[i].StudentId, b[i].StudentId)
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Subject, b[i].Subject)
		assert.Equal(t, a[i].ProfileText, b[i].ProfileText)
		assert.True(t, a[i].Availability.Equal(b[i].Availability))
	}
}

func TestMaskValue(t *testing.T) {
	mask := bitset.New(NumTimeSlots)
	mask.Set(0)
	mask.Set(3)
	assert.Equal(t, uint64(0b1001), MaskValue(mask))
	assert.Equal(t, uint64(0), MaskValue(bitset.New(NumTimeSlots)))
}

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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"

	"github.com/tutormatch/tutormatch/base"
)

// LRDataset is a supervised dataset for the content model: a feature matrix,
// binary labels and the parallel pair indices each row was computed from.
type LRDataset struct {
	X              [][]float32
	Y              []float32
	StudentIndices []int
	TutorIndices   []int
}

// SampleLRDataset builds a labeled dataset from positive interactions plus
// sampled negatives. For every student, negatives are drawn uniformly without
// replacement from tutors the student never interacted with, negRatio per
// positive with a minimum of one. Students whose positives already cover all
// tutors contribute no negatives.
func SampleLRDataset(students []Student, tutors []Tutor, positives []Interaction,
	studentDict, tutorDict *Dict, negRatio float64, rng base.RandomGenerator) (*LRDataset, error) {
	positiveStudents := make([]int, 0, len(positives))
	positiveTutors := make([]int, 0, len(positives))
	interacted := make(map[int]mapset.Set[int])
	studentOrder := make([]int, 0)
	for _, interaction := range positives {
		si := studentDict.ToIndex(interaction.StudentId)
		if si == NotId {
			return nil, errors.NotFoundf("student %q", interaction.StudentId)
		}
		ti := tutorDict.ToIndex(interaction.TutorId)
		if ti == NotId {
			return nil, errors.NotFoundf("tutor %q", interaction.TutorId)
		}
		positiveStudents = append(positiveStudents, si)
		positiveTutors = append(positiveTutors, ti)
		if _, ok := interacted[si]; !ok {
			interacted[si] = mapset.NewSet[int]()
			studentOrder = append(studentOrder, si)
		}
		interacted[si].Add(ti)
	}

	negativeStudents := make([]int, 0, len(positives))
	negativeTutors := make([]int, 0, len(positives))
	for _, si := range studentOrder {
		numNegatives := int(negRatio * float64(interacted[si].Cardinality()))
		if numNegatives < 1 {
			numNegatives = 1
		}
		for _, ti := range rng.Sample(0, len(tutors), numNegatives, interacted[si]) {
			negativeStudents = append(negativeStudents, si)
			negativeTutors = append(negativeTutors, ti)
		}
	}

	studentIndices := append(positiveStudents, negativeStudents...)
	tutorIndices := append(positiveTutors, negativeTutors...)
	x, err := PairFeaturesBatch(students, tutors, studentIndices, tutorIndices)
	if err != nil {
		return nil, errors.Trace(err)
	}
	y := make([]float32, len(x))
	for i := range positiveStudents {
		y[i] = 1
	}
	return &LRDataset{
		X:              x,
		Y:              y,
		StudentIndices: studentIndices,
		TutorIndices:   tutorIndices,
	}, nil
}

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

package model

import (
	"io"

	"github.com/chewxy/math32"
	"github.com/juju/errors"

	"github.com/tutormatch/tutormatch/base/encoding"
	"github.com/tutormatch/tutormatch/common/floats"
	"github.com/tutormatch/tutormatch/dataset"
)

// epsilon replaces zero norms so cosine similarity never divides by zero.
const epsilon = 1e-8

// ItemKNN is the collaborative model: an item-item filter over the binary
// interaction matrix, scoring tutors by their cosine similarity to the tutors
// a student already interacted with.
type ItemKNN struct {
	// InteractionMatrix is the binary student by tutor matrix. Any feedback
	// type counts as one, repeated feedback collapses.
	InteractionMatrix [][]float32
	// Similarity is the tutor by tutor cosine similarity matrix with a zero
	// diagonal.
	Similarity [][]float32
}

// NewItemKNN creates an item-item collaborative filter.
func NewItemKNN() *ItemKNN {
	return new(ItemKNN)
}

// Fit builds the interaction matrix from the training split and recomputes
// the similarity matrix.
func (m *ItemKNN) Fit(interactions []dataset.Interaction, studentDict, tutorDict *dataset.Dict) error {
	if err := m.BuildInteractionMatrix(interactions, studentDict, tutorDict); err != nil {
		return errors.Trace(err)
	}
	m.ComputeSimilarities()
	return nil
}

// BuildInteractionMatrix converts implicit feedback into a binary matrix.
// Referencing an id absent from the dicts is an error.
func (m *ItemKNN) BuildInteractionMatrix(interactions []dataset.Interaction, studentDict, tutorDict *dataset.Dict) error {
	matrix := make([][]float32, studentDict.Count())
	for i := range matrix {
		matrix[i] = make([]float32, tutorDict.Count())
	}
	for _, interaction := range interactions {
		si := studentDict.ToIndex(interaction.StudentId)
		if si == dataset.NotId {
			return errors.NotFoundf("student %q", interaction.StudentId)
		}
		ti := tutorDict.ToIndex(interaction.TutorId)
		if ti == dataset.NotId {
			return errors.NotFoundf("tutor %q", interaction.TutorId)
		}
		matrix[si][ti] = 1
	}
	m.InteractionMatrix = matrix
	return nil
}

// ComputeSimilarities recomputes the tutor-tutor cosine similarity matrix
// from the interaction matrix. Zero-norm columns fall back to epsilon and
// the diagonal is zeroed, tutors are never similar to themselves.
func (m *ItemKNN) ComputeSimilarities() {
	numStudents := len(m.InteractionMatrix)
	numTutors := 0
	if numStudents > 0 {
		numTutors = len(m.InteractionMatrix[0])
	}
	norms := make([]float32, numTutors)
	for j := 0; j < numTutors; j++ {
		var sum float32
		for i := 0; i < numStudents; i++ {
			sum += m.InteractionMatrix[i][j] * m.InteractionMatrix[i][j]
		}
		norms[j] = math32.Sqrt(sum)
		if norms[j] == 0 {
			norms[j] = epsilon
		}
	}
	similarity := make([][]float32, numTutors)
	for i := range similarity {
		similarity[i] = make([]float32, numTutors)
	}
	for i := 0; i < numTutors; i++ {
		for j := i + 1; j < numTutors; j++ {
			var dot float32
			for s := 0; s < numStudents; s++ {
				dot += m.InteractionMatrix[s][i] * m.InteractionMatrix[s][j]
			}
			value := dot / (norms[i] * norms[j])
			similarity[i][j] = value
			similarity[j][i] = value
		}
	}
	m.Similarity = similarity
}

// ScoresForStudent returns, for every tutor, the summed similarity to the
// tutors the student interacted with. Already seen tutors score zero, not
// negative infinity, so the hybrid blend can still normalize them before the
// final seen mask downstream. An unknown student index is a designed
// fallback, not an error: the neutral all-zero vector is returned.
func (m *ItemKNN) ScoresForStudent(studentIndex int) []float32 {
	scores := make([]float32, len(m.Similarity))
	if studentIndex < 0 || studentIndex >= len(m.InteractionMatrix) {
		return scores
	}
	row := m.InteractionMatrix[studentIndex]
	for ti, interacted := range row {
		if interacted > 0 {
			floats.Add(scores, m.Similarity[ti])
		}
	}
	for ti, interacted := range row {
		if interacted > 0 {
			scores[ti] = 0
		}
	}
	return scores
}

// Seen reports whether the student interacted with the tutor in the training
// split. Out-of-range indices report false.
func (m *ItemKNN) Seen(studentIndex, tutorIndex int) bool {
	if studentIndex < 0 || studentIndex >= len(m.InteractionMatrix) {
		return false
	}
	if tutorIndex < 0 || tutorIndex >= len(m.InteractionMatrix[studentIndex]) {
		return false
	}
	return m.InteractionMatrix[studentIndex][tutorIndex] > 0
}

// Marshal model into byte stream.
func (m *ItemKNN) Marshal(w io.Writer) error {
	if err := encoding.WriteMatrix(w, m.InteractionMatrix); err != nil {
		return errors.Trace(err)
	}
	return encoding.WriteMatrix(w, m.Similarity)
}

// Unmarshal model from byte stream.
func (m *ItemKNN) Unmarshal(r io.Reader) error {
	interactionMatrix, err := encoding.ReadMatrix(r)
	if err != nil {
		return errors.Trace(err)
	}
	similarity, err := encoding.ReadMatrix(r)
	if err != nil {
		return errors.Trace(err)
	}
	m.InteractionMatrix = interactionMatrix
	m.Similarity = similarity
	return nil
}

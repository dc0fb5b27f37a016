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
	"strings"

	"github.com/juju/errors"
)

// NumFeatures is the width of the pairwise feature vector:
// [subject, level, city, time overlap, style, affordability] binary matches,
// four normalized categorical encodings, text similarity.
const NumFeatures = 11

// PairFeatures computes the feature vector of a (student, tutor) pair.
// The computation is deterministic: the same pair always yields the same
// vector, and every component lies in [0, 1].
func PairFeatures(s *Student, t *Tutor) []float32 {
	x := make([]float32, NumFeatures)
	x[0] = boolToFloat(s.Subject == t.Subject)
	x[1] = boolToFloat(s.Level == t.Level)
	x[2] = boolToFloat(s.City == t.City)
	x[3] = boolToFloat(s.Availability.IntersectionCardinality(t.Availability) > 0)
	x[4] = boolToFloat(s.LearningStyle == t.TeachingStyle)
	x[5] = boolToFloat(s.MaxBudget >= t.HourlyRate)
	x[6] = encodeCategory(Subjects, s.Subject)
	x[7] = encodeCategory(Levels, s.Level)
	x[8] = encodeCategory(Cities, s.City)
	x[9] = encodeCategory(LearningStyles, s.LearningStyle)
	x[10] = TextSimilarity(s.ProfileText, t.ProfileText)
	return x
}

// PairFeaturesBatch computes feature vectors for parallel index arrays.
func PairFeaturesBatch(students []Student, tutors []Tutor, studentIndices, tutorIndices []int) ([][]float32, error) {
	if len(studentIndices) != len(tutorIndices) {
		return nil, errors.Errorf("mismatched index arrays: %d != %d", len(studentIndices), len(tutorIndices))
	}
	x := make([][]float32, len(studentIndices))
	for i := range studentIndices {
		si, ti := studentIndices[i], tutorIndices[i]
		if si < 0 || si >= len(students) {
			return nil, errors.NotFoundf("student index %d", si)
		}
		if ti < 0 || ti >= len(tutors) {
			return nil, errors.NotFoundf("tutor index %d", ti)
		}
		x[i] = PairFeatures(&students[si], &tutors[ti])
	}
	return x, nil
}

// TextSimilarity computes the Jaccard similarity between the word sets of two
// profile descriptions. Empty or disjoint descriptions score 0.
func TextSimilarity(a, b string) float32 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float32(intersection) / float32(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

func encodeCategory(domain []string, value string) float32 {
	for i, v := range domain {
		if v == value {
			return float32(i) / float32(len(domain))
		}
	}
	return 0
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

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
	"sort"

	"github.com/tutormatch/tutormatch/base"
	"github.com/tutormatch/tutormatch/common/floats"
)

// affinityWeights score the engineered features during interaction synthesis.
// Subject dominates, then location, budget and style; the encoded categories
// and text similarity only nudge the ranking.
var affinityWeights = []float32{5.0, 1.5, 3.5, 1.0, 2.5, 3.0, 0.1, 0.1, 0.1, 0.1, 0.05}

const (
	synthesisNoiseStdDev = 1.5
	meanPositives        = 3
	maxPositives         = 8
	bookThreshold        = 0.75
	contactThreshold     = 0.45
)

// SynthesizeInteractions derives plausible implicit feedback from the profile
// features. For each student the top scoring tutors, under Gaussian noise,
// become positives; the logistic of the score decides between view, contact
// and book.
func SynthesizeInteractions(students []Student, tutors []Tutor, rng base.RandomGenerator) []Interaction {
	interactions := make([]Interaction, 0, len(students)*meanPositives)
	for si := range students {
		scores := make([]float32, len(tutors))
		for ti := range tutors {
			x := PairFeatures(&students[si], &tutors[ti])
			scores[ti] = floats.Dot(x, affinityWeights) + rng.NormalFloat32(0, synthesisNoiseStdDev)
		}

		numPositives := rng.Poisson(meanPositives)
		if numPositives < 1 {
			numPositives = 1
		} else if numPositives > maxPositives {
			numPositives = maxPositives
		}
		if numPositives > len(tutors) {
			numPositives = len(tutors)
		}

		order := argsortDescending(scores)
		for _, ti := range order[:numPositives] {
			prob := floats.Sigmoid(scores[ti])
			var feedbackType FeedbackType
			switch {
			case prob > bookThreshold:
				feedbackType = FeedbackBook
			case prob > contactThreshold:
				feedbackType = FeedbackContact
			default:
				feedbackType = FeedbackView
			}
			interactions = append(interactions, Interaction{
				StudentId: students[si].StudentId,
				TutorId:   tutors[ti].TutorId,
				Type:      feedbackType,
			})
		}
	}
	return interactions
}

// argsortDescending returns indices ordered by descending score. The sort is
// stable so equal scores keep ascending index order.
func argsortDescending(scores []float32) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}

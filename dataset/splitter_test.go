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

func TestSplitInteractions(t *testing.T) {
	interactions := []Interaction{
		{StudentId: "s0", TutorId: "t0", Type: FeedbackView},
		{StudentId: "s0", TutorId: "t1", Type: FeedbackBook},
		{StudentId: "s0", TutorId: "t2", Type: FeedbackContact},
		{StudentId: "s1", TutorId: "t0", Type: FeedbackView},
		{StudentId: "s2", TutorId: "t1", Type: FeedbackView},
		{StudentId: "s2", TutorId: "t2", Type: FeedbackView},
	}
	train, test := SplitInteractions(interactions, 1, base.NewRandomGenerator(0))
	assert.Equal(t, len(interactions), len(train)+len(test))

	testCount := make(map[string]int)
	trainCount := make(map[string]int)
	for _, interaction := range test {
		testCount[interaction.StudentId]++
	}
	for _, interaction := range train {
		trainCount[interaction.StudentId]++
	}
	// s0 and s2 hold out exactly one interaction, s1 has too few
	assert.Equal(t, 1, testCount["s0"])
	assert.Equal(t, 0, testCount["s1"])
	assert.Equal(t, 1, testCount["s2"])
	// every test student keeps at least one training interaction
	for studentId, n := range testCount {
		if n > 0 {
			assert.Greater(t, trainCount[studentId], 0)
		}
	}
}

func TestSplitHoldoutCap(t *testing.T) {
	interactions := []Interaction{
		{StudentId: "s0", TutorId: "t0", Type: FeedbackView},
		{StudentId: "s0", TutorId: "t1", Type: FeedbackView},
		{StudentId: "s0", TutorId: "t2", Type: FeedbackView},
	}
	// holdout larger than half the records is capped
	train, test := SplitInteractions(interactions, 10, base.NewRandomGenerator(0))
	assert.Equal(t, 2, len(train))
	assert.Equal(t, 1, len(test))
}

func TestSplitEmpty(t *testing.T) {
	train, test := SplitInteractions(nil, 1, base.NewRandomGenerator(0))
	assert.Empty(t, train)
	assert.Empty(t, test)
}

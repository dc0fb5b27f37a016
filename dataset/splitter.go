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
	"github.com/samber/lo"

	"github.com/tutormatch/tutormatch/base"
)

// SplitInteractions splits implicit feedback into train and test sets by
// holding out up to holdout interactions per student. Students with fewer
// than two interactions keep everything in the train set, so every test
// student still has at least one training interaction.
func SplitInteractions(interactions []Interaction, holdout int, rng base.RandomGenerator) (train, test []Interaction) {
	byStudent := make(map[string][]Interaction)
	studentOrder := make([]string, 0)
	for _, interaction := range interactions {
		if _, ok := byStudent[interaction.StudentId]; !ok {
			studentOrder = append(studentOrder, interaction.StudentId)
		}
		byStudent[interaction.StudentId] = append(byStudent[interaction.StudentId], interaction)
	}
	for _, studentId := range studentOrder {
		records := byStudent[studentId]
		rng.Shuffle(len(records), func(i, j int) {
			records[i], records[j] = records[j], records[i]
		})
		k := 0
		if len(records) >= 2 {
			k = lo.Min([]int{holdout, len(records) / 2})
		}
		test = append(test, records[:k]...)
		train = append(train, records[k:]...)
	}
	return
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search provides feedback-aware re-ranking over a similarity ranker.
//
// Engine.Search records the query in the feedback memory, asks the ranker
// for twice the requested number of candidates and, once at least one
// earlier search exists, adds an auxiliary score to every candidate:
//   - the last 10 recorded searches are scanned
//   - a search counts when its query shares more than half its words with
//     the current query (word-set Jaccard > 0.5)
//   - each of its results whose first 100 words overlap the candidate's by
//     more than 0.7 Jaccard contributes its feedback score, or 0.5 when no
//     feedback was given
//
// Candidates are then stably sorted by similarity plus auxiliary score and
// truncated. The final ids are attached to the search record so later
// feedback can reference them.
package search

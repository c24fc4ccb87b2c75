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


// Package query implements multi-query retrieval and grounded answering.
//
// The Engine type runs a three-stage pipeline for each question:
//   - Query expansion into LLM-generated paraphrases
//   - Concurrent vector search over every question variant
//   - Answer generation grounded only in the merged passages
//
// The merged passage set is a plain union, deduplicated by passage
// identity and ordered by which variant surfaced each passage first.
// There is no re-ranking or score fusion across variants.
package query

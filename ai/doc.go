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


// Package ai provides abstractions for the language model services used by
// Voxnote.
//
// The package defines the Generator interface, a minimal prompt-in/text-out
// contract that the summarization layer depends on. Business logic never
// talks to a concrete LLM client; it only sees the abstraction, which keeps
// the summarizer testable and lets backends be swapped through configuration.
//
// # Implementation Packages
//
//   - ai/ollama: local models via the Ollama generate API
//   - ai/openai: OpenAI-compatible chat completion APIs
//   - ai/mock: test doubles for unit testing without a running model
//
// Public constructors (ollama.NewGenerator, openai.NewGenerator) return the
// ai.Generator interface to enforce abstraction. The mock constructor returns
// a concrete type so tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithBackend(ai.BackendOllama),
//	    ai.WithModel("llama3.2"),
//	)
//	gen, err := ollama.NewGenerator(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := gen.Generate(ctx, "Summarize: ...")
package ai

package openai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const expansionPromptTemplate = `You are an AI language model assistant. Your task is to generate {count} different
versions of the given user question to retrieve relevant documents from a vector
database. By generating multiple perspectives on the user question, your goal is
to help the user overcome some of the limitations of distance-based similarity
search.

Provide these alternative questions as a numbered list, one per line. Do not
include any preamble, explanation, or text other than the list.

Original question: {question}`

const answerPromptTemplate = `Answer the question based ONLY on the following context. If the context does not
contain the information needed to answer the question, say "I don't know".

{context}

Question: {question}

Answer:`

// placeholderPattern matches {name} placeholders in prompt templates.
var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// renderPrompt substitutes named bindings into a template.
// It is a pure function: every placeholder in the template must be bound and
// every binding must be used, otherwise an error is returned. The package
// tests hold the shipped templates to their expected binding sets, so a
// template edit that breaks a call site fails before it reaches a model.
func renderPrompt(template string, bindings map[string]string) (string, error) {
	used := make(map[string]bool, len(bindings))

	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := bindings[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		used[name] = true
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("prompt template: unbound placeholders: %s", strings.Join(missing, ", "))
	}
	for name := range bindings {
		if !used[name] {
			return "", fmt.Errorf("prompt template: binding %q does not appear in template", name)
		}
	}
	return rendered, nil
}

// buildExpansionPrompt renders the query expansion prompt.
func buildExpansionPrompt(question string, count int) (string, error) {
	return renderPrompt(expansionPromptTemplate, map[string]string{
		"question": question,
		"count":    strconv.Itoa(count),
	})
}

// buildAnswerPrompt renders the grounded answering prompt.
func buildAnswerPrompt(question, contextBlock string) (string, error) {
	return renderPrompt(answerPromptTemplate, map[string]string{
		"question": question,
		"context":  contextBlock,
	})
}

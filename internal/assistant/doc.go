// Package assistant provides the tutor chat: a thin conversational layer
// over the Gemini API that answers questions about the item or screen the
// learner is looking at. The assistant is an external collaborator; when
// no API key is configured the service reports itself unavailable and the
// rest of the system is unaffected.
package assistant

// Package lesson tracks the learner's walk through the staged curriculum:
// which lessons are locked, available, in progress, or completed, and
// which items inside a lesson have been studied. Completing a lesson
// unlocks the next one in path order.
package lesson

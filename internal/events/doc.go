// Package events decouples the review service from the components that
// react to scheduling milestones. The review service emits an event when a
// card first leaves the new state; the lesson tracker subscribes and marks
// the item done in the lesson currently in progress.
package events

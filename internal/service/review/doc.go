// Package review orchestrates grading: it resolves the due and new card
// sets, runs the scheduling engine over a stored card inside a
// transaction, appends the review log, and announces items leaving the
// new state. Aggregate progress stats live here too.
package review

// Package api contains the HTTP handlers for the study scheduler: review
// queue and grading, item introduction, stats, session lifecycle, lesson
// progress, and the tutor chat. Handlers decode and validate request
// bodies, delegate to the service layer, and map service errors to
// sanitized HTTP responses.
package api

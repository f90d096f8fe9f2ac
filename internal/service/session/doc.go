// Package session manages time-boxed study sessions: planning how a
// session's card budget splits between due reviews and new material,
// tracking the session lifecycle and its counters, and sweeping open
// sessions whose time budget has run out.
package session

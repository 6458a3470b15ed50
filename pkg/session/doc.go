/*
Package session implements online walking sessions.

A session pairs a stored model with a strategy and keeps the resulting walker in memory,
so a remote test driver can ask for one step at a time over HTTP or MCP. Calls on the same
session are serialised; different sessions proceed in parallel.
*/
package session

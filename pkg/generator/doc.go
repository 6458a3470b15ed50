// Package generator implements the path generators that decide which edge a
// walk takes next.
//
//   - AStar searches for a complete path to a state that fulfils the stop
//     condition, caches it and hands it out one edge at a time.
//   - Random picks an outgoing edge at random, honouring explicit edge weights.
//   - Combined chains generators into a multi-phase strategy.
//
// Generators are not safe for concurrent use. Each GetNext advances the real
// machine position by exactly one edge.
package generator
